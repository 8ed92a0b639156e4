package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bytebridge/codec"
	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

// valueFlags are shared by encode and decode.
type valueFlags struct {
	schemas  *[]string
	typeExpr *string
	format   *string
	framed   *bool
	hex      *bool
}

func addValueFlags(fs *pflag.FlagSet) valueFlags {
	return valueFlags{
		schemas:  fs.StringSliceP("schema", "s", nil, "schema file, repeatable"),
		typeExpr: fs.StringP("type", "t", "", "type expression, e.g. Config or list<Point>"),
		format:   fs.StringP("format", "f", "flat", "wire format: flat or msgpack"),
		framed:   fs.Bool("framed", false, "prefix the payload with its format byte"),
		hex:      fs.Bool("hex", false, "bytes are hex text (default for encode to a terminal)"),
	}
}

func (v valueFlags) resolve() (*schema.Schema, *schema.Type, wire.Format, error) {
	if *v.typeExpr == "" {
		return nil, nil, 0, usageError("--type is required")
	}
	f, err := wire.ParseFormat(*v.format)
	if err != nil {
		return nil, nil, 0, err
	}
	var s *schema.Schema
	if len(*v.schemas) > 0 {
		if s, err = loadSchemas(*v.schemas); err != nil {
			return nil, nil, 0, err
		}
	} else {
		s = &schema.Schema{}
	}
	if err := s.Validate(); err != nil {
		return nil, nil, 0, err
	}
	t, err := schema.ParseType(*v.typeExpr)
	if err != nil {
		return nil, nil, 0, err
	}
	return s, t, f, nil
}

func (a *app) readInput(fs *pflag.FlagSet) ([]byte, error) {
	switch fs.NArg() {
	case 0:
		return io.ReadAll(a.stdin)
	case 1:
		if fs.Arg(0) == "-" {
			return io.ReadAll(a.stdin)
		}
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
	return nil, usageError("expected at most one input file, got %d", fs.NArg())
}

func (a *app) runEncode(args []string) error {
	fs := a.flagSet("encode", "[value.yaml|-]")
	vf := addValueFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, t, f, err := vf.resolve()
	if err != nil {
		return err
	}
	input, err := a.readInput(fs)
	if err != nil {
		return err
	}
	var value any
	if err := yaml.Unmarshal(input, &value); err != nil {
		return fmt.Errorf("parse value: %w", err)
	}

	out, err := codec.New().MarshalValue(f, s, t, value)
	if err != nil {
		return err
	}
	if *vf.framed {
		out = wire.Frame(f, out)
	}
	if *vf.hex || a.tty {
		_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(out))
		return err
	}
	_, err = a.stdout.Write(out)
	return err
}

func (a *app) runDecode(args []string) error {
	fs := a.flagSet("decode", "[data|-]")
	vf := addValueFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, t, f, err := vf.resolve()
	if err != nil {
		return err
	}
	data, err := a.readInput(fs)
	if err != nil {
		return err
	}
	if *vf.hex {
		if data, err = parseHex(string(data)); err != nil {
			return err
		}
	}

	v, err := decodeValue(s, t, f, *vf.framed, data)
	if err != nil {
		return err
	}
	return writeYAML(a.stdout, v)
}

func decodeValue(s *schema.Schema, t *schema.Type, f wire.Format, framed bool, data []byte) (any, error) {
	if framed {
		var err error
		if f, data, err = wire.Unframe(data); err != nil {
			return nil, err
		}
	}
	return codec.New().UnmarshalValue(f, data, s, t)
}

// parseHex accepts hex with arbitrary whitespace and an optional 0x prefix.
func parseHex(text string) ([]byte, error) {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

func writeYAML(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render value: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render value: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
