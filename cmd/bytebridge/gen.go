package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/gen"
	"github.com/wippyai/bytebridge/gen/golang"
	"github.com/wippyai/bytebridge/gen/java"
)

const defaultConfig = "bytebridge.yaml"

var targetFlags = []string{"schema", "go-package", "go-out", "java-package", "java-out"}

func (a *app) runGen(args []string) error {
	fs := a.flagSet("gen", "")
	configPath := fs.StringP("config", "c", "", "generation config (default ./"+defaultConfig+" when no other flags are set)")
	schemas := fs.StringSliceP("schema", "s", nil, "schema file, repeatable")
	goPackage := fs.String("go-package", "", "Go package name")
	goOut := fs.String("go-out", "", "Go output directory")
	javaPackage := fs.String("java-package", "", "Java package name")
	javaOut := fs.String("java-out", "", "Java source root")
	dryRun := fs.BoolP("dry-run", "n", false, "list files without writing them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError("gen takes no arguments, got %q", fs.Args())
	}

	var explicit []string
	for _, name := range targetFlags {
		if fs.Changed(name) {
			explicit = append(explicit, "--"+name)
		}
	}

	var cfg *gen.Config
	switch {
	case *configPath != "" && len(explicit) > 0:
		return usageError("%v cannot be combined with --config", explicit)
	case len(explicit) > 0:
		cfg = &gen.Config{Schemas: *schemas}
		if *goPackage != "" || *goOut != "" {
			cfg.Go = &gen.GoConfig{Package: *goPackage, Out: *goOut}
		}
		if *javaPackage != "" || *javaOut != "" {
			cfg.Java = &gen.JavaConfig{Package: *javaPackage, Out: *javaOut}
		}
		if err := cfg.Check(); err != nil {
			return err
		}
	default:
		path := *configPath
		if path == "" {
			path = defaultConfig
		}
		var err error
		if cfg, err = gen.LoadConfig(path); err != nil {
			return err
		}
	}

	s, err := cfg.LoadSchemas()
	if err != nil {
		return err
	}

	type output struct {
		target gen.Target
		dir    string
	}
	var outputs []output
	if cfg.Go != nil {
		outputs = append(outputs, output{golang.New(golang.Options{Package: cfg.Go.Package}), cfg.Resolve(cfg.Go.Out)})
	}
	if cfg.Java != nil {
		outputs = append(outputs, output{java.New(java.Options{Package: cfg.Java.Package}), cfg.Resolve(cfg.Java.Out)})
	}

	for _, o := range outputs {
		files, err := gen.New(o.target).Generate(s)
		if err != nil {
			return err
		}
		if *dryRun {
			for _, f := range files {
				fmt.Fprintf(a.stdout, "%s\t%s (%d bytes)\n", o.target.Name(), f.Path, len(f.Content))
			}
			continue
		}
		if err := os.MkdirAll(o.dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", o.dir, err)
		}
		if err := gen.WriteFiles(o.dir, files); err != nil {
			return err
		}
		a.log.Info("generated", zap.String("target", o.target.Name()), zap.String("dir", o.dir), zap.Int("files", len(files)))
		fmt.Fprintf(a.stdout, "%s: wrote %d files to %s\n", o.target.Name(), len(files), o.dir)
	}
	return nil
}
