package gen_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/gen"
	"github.com/wippyai/bytebridge/gen/golang"
	"github.com/wippyai/bytebridge/gen/java"
	"github.com/wippyai/bytebridge/schema"
)

type countingTarget struct {
	calls int
}

func (c *countingTarget) Name() string { return "count" }

func (c *countingTarget) Generate(s *schema.Schema) ([]gen.File, error) {
	c.calls++
	return []gen.File{{Path: "types.txt", Content: []byte(s.Package)}}, nil
}

func TestGenerator_ValidatesFirst(t *testing.T) {
	target := &countingTarget{}
	g := gen.New(target)

	bad := &schema.Schema{Package: "p", Types: []*schema.TypeDef{{Name: "Unit", Unit: true}}}
	if _, err := g.Generate(bad); !errors.IsKind(err, errors.KindUnitType) {
		t.Fatalf("got %v, want unit_type", err)
	}
	if target.calls != 0 {
		t.Error("target ran on an invalid schema")
	}

	if _, err := g.Generate(nil); !errors.IsKind(err, errors.KindNilPointer) {
		t.Fatalf("nil schema: got %v", err)
	}

	files, err := g.Generate(&schema.Schema{Package: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if target.calls != 1 || len(files) != 1 || string(files[0].Content) != "p" {
		t.Errorf("calls=%d files=%v", target.calls, files)
	}
}

func TestGenerator_AllTargets(t *testing.T) {
	s, err := schema.Load(filepath.Join("..", "schema", "testdata", "demo.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	g := gen.New(
		golang.New(golang.Options{}),
		java.New(java.Options{Package: "com.example.demo"}),
	)
	files, err := g.Generate(s)
	if err != nil {
		t.Fatal(err)
	}
	var goFiles, javaFiles int
	for _, f := range files {
		switch {
		case strings.HasSuffix(f.Path, ".go"):
			goFiles++
		case strings.HasSuffix(f.Path, ".java"):
			javaFiles++
		}
	}
	if goFiles != 1 || javaFiles != 7 {
		t.Errorf("go=%d java=%d", goFiles, javaFiles)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []gen.File{
		{Path: "a.go", Content: []byte("package a\n")},
		{Path: "com/example/B.java", Content: []byte("class B {}\n")},
	}
	if err := gen.WriteFiles(dir, files); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f.Path)))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(f.Content) {
			t.Errorf("%s = %q", f.Path, got)
		}
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := gen.ParseConfig([]byte(`
schemas: [a.yaml, b.yaml]
go:
  package: demo
  out: internal/demo
java:
  package: com.example.demo
  out: java
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Schemas) != 2 || cfg.Go.Package != "demo" || cfg.Java.Out != "java" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"unknown key", "schemas: [a.yaml]\nrust: {}\n", []string{"invalid config YAML"}},
		{"empty", "{}\n", []string{"schemas", "no output configured"}},
		{"go incomplete", "schemas: [a.yaml]\ngo: {package: demo}\n", []string{"go.out"}},
		{"java incomplete", "schemas: [a.yaml]\njava: {out: java}\n", []string{"java.package"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.ParseConfig([]byte(tt.yaml))
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Fatalf("got %v, want invalid_input", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("%q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestLoadConfig_ResolvesRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	schemaYAML := "package: demo\ntypes:\n  - name: Point\n    fields:\n      - {name: x, type: i32}\n"
	if err := os.MkdirAll(filepath.Join(dir, "schema"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "schema", "a.yaml"), []byte(schemaYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	other := "types:\n  - name: Size\n    fields:\n      - {name: w, type: u32}\n"
	if err := os.WriteFile(filepath.Join(dir, "schema", "b.yaml"), []byte(other), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "bytebridge.yaml")
	cfgYAML := "schemas: [schema/a.yaml, schema/b.yaml]\ngo: {package: demo, out: out}\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := gen.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Resolve("out"); got != filepath.Join(dir, "out") {
		t.Errorf("Resolve = %s", got)
	}
	if abs := filepath.Join(dir, "x"); cfg.Resolve(abs) != abs {
		t.Error("absolute paths must not be rebased")
	}

	s, err := cfg.LoadSchemas()
	if err != nil {
		t.Fatal(err)
	}
	if s.Package != "demo" || len(s.Types) != 2 || s.Lookup("Size") == nil {
		t.Errorf("merged schema = %+v", s)
	}
}
