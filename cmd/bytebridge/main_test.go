package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/bytebridge/schema"
)

var demoSchema = filepath.Join("..", "..", "schema", "testdata", "demo.yaml")

func runApp(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{stdin: strings.NewReader(stdin), stdout: &stdout, stderr: &stderr}
	code := a.run(args)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"help", []string{"help"}, 0},
		{"command help", []string{"check", "-h"}, 0},
		{"check without schema", []string{"check"}, 2},
		{"encode without type", []string{"encode", "-s", demoSchema}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, stderr := runApp(t, "", tt.args...); code != tt.code {
				t.Errorf("exit %d, want %d\n%s", code, tt.code, stderr)
			}
		})
	}
}

func TestRun_Check(t *testing.T) {
	code, stdout, stderr := runApp(t, "", "check", demoSchema)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `3 types in package "demo"`) {
		t.Errorf("stdout = %q", stdout)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	yaml := "package: p\ntypes:\n  - name: Unit\n  - name: Rec\n    fields:\n      - {name: class, type: u8}\n"
	if err := os.WriteFile(bad, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr = runApp(t, "", "check", bad)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	for _, want := range []string{"unit_type", "reserved_name"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %s:\n%s", want, stderr)
		}
	}
	if strings.Count(stderr, "Error:") != 2 {
		t.Errorf("want one line per problem:\n%s", stderr)
	}
}

func TestRun_Fingerprint(t *testing.T) {
	s, err := schema.Load(demoSchema)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := s.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runApp(t, "", "fingerprint", demoSchema)
	if code != 0 || strings.TrimSpace(stdout) != fp.String() {
		t.Errorf("exit %d, stdout %q, want %s", code, stdout, fp)
	}

	if code, _, _ := runApp(t, "", "fingerprint", "--expect", fp.String(), demoSchema); code != 0 {
		t.Errorf("matching --expect: exit %d", code)
	}
	other := strings.Repeat("00", 32)
	code, _, stderr := runApp(t, "", "fingerprint", "--expect", other, demoSchema)
	if code != 1 || !strings.Contains(stderr, "schema_mismatch") {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}

func TestRun_Inspect(t *testing.T) {
	code, stdout, stderr := runApp(t, "", "inspect", demoSchema)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, want := range []string{
		"package demo",
		"record Point (min 8 bytes)",
		"  y: i32 [range=-100..100] (min 4)",
		"  port: nonzero<u16> = 8080 (min 2)",
		"union Shape",
		"  1 Rect",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output lacks %q:\n%s", want, stdout)
		}
	}

	code, stdout, _ = runApp(t, "", "inspect", "-t", "Point", demoSchema)
	if code != 0 || strings.Contains(stdout, "Config") {
		t.Errorf("-t filter: exit %d\n%s", code, stdout)
	}
	if code, _, _ := runApp(t, "", "inspect", "-t", "Missing", demoSchema); code != 2 {
		t.Errorf("unknown type: exit %d", code)
	}
	if code, _, _ := runApp(t, "", "inspect", "-i", demoSchema); code != 2 {
		t.Errorf("-i without a terminal: exit %d", code)
	}
}

func TestRun_EncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value string
		flags []string
		hex   string
	}{
		{"record", "Point", "{x: 1, y: -2}", nil, "01000000feffffff"},
		{"default field", "Point", "{y: 3}", nil, "0000000003000000"},
		{"union", "Shape", "{Circle: {radius: 1.5}}", nil, "00000000000000f83f"},
		{"list", "list<u16>", "[1, 2]", nil, "020000000000000001000200"},
		{"framed msgpack", "Point", "{x: 1, y: 2}", []string{"-f", "msgpack", "--framed"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"encode", "-s", demoSchema, "-t", tt.typ, "--hex"}, tt.flags...)
			code, stdout, stderr := runApp(t, tt.value, args...)
			if code != 0 {
				t.Fatalf("encode exit %d: %s", code, stderr)
			}
			encoded := strings.TrimSpace(stdout)
			if tt.hex != "" && encoded != tt.hex {
				t.Errorf("encoded %s, want %s", encoded, tt.hex)
			}

			args = append([]string{"decode", "-s", demoSchema, "-t", tt.typ, "--hex"}, tt.flags...)
			code, stdout, stderr = runApp(t, encoded, args...)
			if code != 0 {
				t.Fatalf("decode exit %d: %s", code, stderr)
			}
			code, again, stderr := runApp(t, stdout, append([]string{"encode", "-s", demoSchema, "-t", tt.typ, "--hex"}, tt.flags...)...)
			if code != 0 || strings.TrimSpace(again) != encoded {
				t.Errorf("re-encode of %q gave %q (exit %d: %s)", stdout, again, code, stderr)
			}
		})
	}
}

func TestRun_FramedHeader(t *testing.T) {
	code, stdout, _ := runApp(t, "{x: 1, y: 2}", "encode", "-s", demoSchema, "-t", "Point", "-f", "msgpack", "--framed", "--hex")
	if code != 0 || !strings.HasPrefix(stdout, "02") {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
}

func TestRun_EncodeDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		kind  string
	}{
		{"range", []string{"encode", "-s", demoSchema, "-t", "Point"}, "{x: 0, y: 500}", "constraint_violation"},
		{"unknown field", []string{"encode", "-s", demoSchema, "-t", "Point"}, "{x: 0, z: 1}", "invalid_input"},
		{"unknown variant", []string{"decode", "-s", demoSchema, "-t", "Shape", "--hex"}, "07", "unknown_variant"},
		{"truncated", []string{"decode", "-s", demoSchema, "-t", "Point", "--hex"}, "0100", "insufficient_data"},
		{"trailing", []string{"decode", "-t", "u8", "--hex"}, "0102", "trailing_data"},
		{"bad frame", []string{"decode", "-t", "u8", "--hex", "--framed"}, "0901", "unknown_format"},
		{"bad format", []string{"decode", "-t", "u8", "-f", "cbor"}, "", "unknown_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runApp(t, tt.input, tt.args...)
			if code != 1 || !strings.Contains(stderr, tt.kind) {
				t.Errorf("exit %d, stderr %q, want %s", code, stderr, tt.kind)
			}
		})
	}
}

func TestRun_Gen(t *testing.T) {
	dir := t.TempDir()
	goOut := filepath.Join(dir, "go")
	javaOut := filepath.Join(dir, "java")
	code, stdout, stderr := runApp(t, "", "gen",
		"-s", demoSchema,
		"--go-package", "demo", "--go-out", goOut,
		"--java-package", "com.example.demo", "--java-out", javaOut)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "go: wrote 1 files") || !strings.Contains(stdout, "java: wrote 7 files") {
		t.Errorf("stdout = %q", stdout)
	}
	for _, p := range []string{
		filepath.Join(goOut, "demo_bytebridge.go"),
		filepath.Join(javaOut, "com", "example", "demo", "Config.java"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Error(err)
		}
	}
}

func TestRun_GenConfig(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(demoSchema)
	if err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "bytebridge.yaml")
	body := "schemas: [" + abs + "]\ngo: {package: mirror, out: gen}\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runApp(t, "", "gen", "-c", cfg, "--dry-run")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "mirror_bytebridge.go") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen")); !os.IsNotExist(err) {
		t.Error("dry run wrote files")
	}

	code, _, _ = runApp(t, "", "gen", "-c", cfg, "--go-package", "other")
	if code != 2 {
		t.Errorf("config plus target flags: exit %d, want 2", code)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModel(t *testing.T) {
	s, err := schema.Load(demoSchema)
	if err != nil {
		t.Fatal(err)
	}
	m := newInspectModel(s, "demo.yaml")
	if !strings.Contains(m.View(), "Point") {
		t.Fatal("type list missing")
	}

	m.Update(keyMsg("enter"))
	if m.state != stateInputHex {
		t.Fatalf("state = %d", m.state)
	}
	m.input.SetValue("01000000 02000000")
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter did not schedule a decode")
	}
	m.Update(cmd())
	if m.state != stateShowResult || m.err != nil {
		t.Fatalf("state=%d err=%v", m.state, m.err)
	}
	if !strings.Contains(m.result, "x: 1") || !strings.Contains(m.result, "y: 2") {
		t.Errorf("result = %q", m.result)
	}

	m.Update(keyMsg("esc"))
	m.Update(keyMsg("down"))
	m.Update(keyMsg("down"))
	if m.selected != 2 {
		t.Fatalf("selected = %d", m.selected)
	}
	m.Update(keyMsg("enter"))
	m.input.SetValue("09")
	_, cmd = m.Update(keyMsg("enter"))
	m.Update(cmd())
	if !strings.Contains(m.View(), "kind: unknown_variant") {
		t.Errorf("view:\n%s", m.View())
	}

	m.Update(keyMsg("enter"))
	m.Update(keyMsg("f"))
	if m.format.String() != "msgpack" {
		t.Errorf("format = %s", m.format)
	}
}
