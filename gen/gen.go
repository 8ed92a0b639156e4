package gen

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/schema"
)

// File is one generated source file. Path is relative to the target's
// output directory.
type File struct {
	Path    string
	Content []byte
}

// Target emits source for one language.
type Target interface {
	Name() string
	Generate(s *schema.Schema) ([]File, error)
}

// Generator validates a schema and runs its targets. It never writes to
// disk; see WriteFiles.
type Generator struct {
	targets []Target
}

func New(targets ...Target) *Generator {
	return &Generator{targets: targets}
}

// Generate validates s and returns the files of every target. A schema
// that fails validation produces no files.
func (g *Generator) Generate(s *schema.Schema) ([]File, error) {
	if s == nil {
		return nil, errors.NilPointer(errors.PhaseGenerate, nil, "*schema.Schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var files []File
	for _, t := range g.targets {
		out, err := t.Generate(s)
		if err != nil {
			return nil, fmt.Errorf("%s target: %w", t.Name(), err)
		}
		Logger().Debug("generated",
			zap.String("target", t.Name()),
			zap.String("package", s.Package),
			zap.Int("files", len(out)))
		files = append(files, out...)
	}
	return files, nil
}

// WriteFiles writes files under dir, creating directories as needed.
func WriteFiles(dir string, files []File) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		Logger().Info("wrote", zap.String("path", path), zap.Int("bytes", len(f.Content)))
	}
	return nil
}
