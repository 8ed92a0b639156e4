package demo_test

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/wippyai/bytebridge/codec"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/gen/golang/internal/demo"
	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

func loadDemo(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Load(filepath.Join("..", "..", "..", "..", "schema", "testdata", "demo.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func sampleConfig(shape demo.Shape) demo.Config {
	retries := uint32(5)
	cfg := demo.NewConfig()
	cfg.Weight = 0.75
	cfg.Tags = []string{"edge", "", "héllo"}
	cfg.Limits = map[string]uint64{"rps": 100, "burst": 1 << 40, "": 0}
	cfg.Origin = &demo.Point{X: -4, Y: 99}
	cfg.Corners = [2]demo.Point{{X: 1, Y: 2}, {X: -3, Y: -100}}
	cfg.Mask = []uint8{0, 255, 7}
	cfg.Retries = &retries
	cfg.Offset = -42
	cfg.Shape = shape
	return cfg
}

var shapes = []struct {
	name  string
	shape demo.Shape
}{
	{"circle", demo.ShapeCircle{Radius: 1.5}},
	{"rect", demo.ShapeRect{Min: demo.Point{X: -1, Y: -1}, Max: demo.Point{X: 10, Y: 20}}},
	{"empty", demo.ShapeEmpty{}},
}

func TestSchemaFingerprint(t *testing.T) {
	fp, err := loadDemo(t).Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if demo.SchemaFingerprint != fp.String() {
		t.Errorf("generated file is stale: %s, schema is %s", demo.SchemaFingerprint, fp)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := demo.NewConfig()
	if cfg.Name != "node" || cfg.Port != 8080 || cfg.Timeout != 30*time.Second || cfg.Level != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Retries != nil {
		t.Error("null default must leave the option empty")
	}
}

func TestRoundTrip(t *testing.T) {
	c := codec.New()
	for _, f := range []wire.Format{wire.FormatFlat, wire.FormatMsgpack} {
		for _, tt := range shapes {
			t.Run(f.String()+"/"+tt.name, func(t *testing.T) {
				in := sampleConfig(tt.shape)
				data, err := c.MarshalFormat(f, in)
				if err != nil {
					t.Fatal(err)
				}
				var out demo.Config
				if err := c.UnmarshalFormat(f, data, &out); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !reflect.DeepEqual(out, in) {
					t.Errorf("got %+v\nwant %+v", out, in)
				}
				again, err := c.MarshalFormat(f, out)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(again, data) {
					t.Errorf("re-encoding differs:\n got %x\nwant %x", again, data)
				}
			})
		}
	}
}

// The generated codecs must frame values exactly as the schema-driven
// dynamic codec does.
func TestMatchesDynamic(t *testing.T) {
	s := loadDemo(t)
	c := codec.New()
	typ := schema.Named("Config")

	in := map[string]any{
		"name":    "node",
		"port":    8080,
		"timeout": 30,
		"weight":  0.75,
		"level":   3,
		"tags":    []any{"edge", "", "héllo"},
		"limits":  map[string]any{"rps": 100, "burst": 1 << 40, "": 0},
		"origin":  map[string]any{"x": -4, "y": 99},
		"corners": []any{map[string]any{"x": 1, "y": 2}, map[string]any{"x": -3, "y": -100}},
		"mask":    []any{0, 255, 7},
		"retries": 5,
		"offset":  -42,
		"shape":   map[string]any{"Rect": map[string]any{"min": map[string]any{"x": -1, "y": -1}, "max": map[string]any{"x": 10, "y": 20}}},
	}
	for _, f := range []wire.Format{wire.FormatFlat, wire.FormatMsgpack} {
		t.Run(f.String(), func(t *testing.T) {
			want, err := c.MarshalValue(f, s, typ, in)
			if err != nil {
				t.Fatalf("MarshalValue: %v", err)
			}
			got, err := c.MarshalFormat(f, sampleConfig(shapes[1].shape))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("generated %x\ndynamic   %x", got, want)
			}
		})
	}

	for _, tt := range shapes {
		t.Run("reencode/"+tt.name, func(t *testing.T) {
			data, err := c.Marshal(sampleConfig(tt.shape))
			if err != nil {
				t.Fatal(err)
			}
			v, err := c.UnmarshalValue(wire.FormatFlat, data, s, typ)
			if err != nil {
				t.Fatalf("UnmarshalValue: %v", err)
			}
			again, err := c.MarshalValue(wire.FormatFlat, s, typ, v)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(again, data) {
				t.Errorf("dynamic %x\ngenerated %x", again, data)
			}
		})
	}
}

func TestTruncatedInput(t *testing.T) {
	c := codec.New()
	for _, tt := range shapes {
		data, err := c.Marshal(sampleConfig(tt.shape))
		if err != nil {
			t.Fatal(err)
		}
		for n := range data {
			var out demo.Config
			if err := c.Unmarshal(data[:n], &out); !errors.IsKind(err, errors.KindInsufficientData) {
				t.Fatalf("%s: prefix %d/%d: got %v, want insufficient_data", tt.name, n, len(data), err)
			}
			if !reflect.DeepEqual(out, demo.Config{}) {
				t.Fatalf("%s: prefix %d wrote the target", tt.name, n)
			}
		}
	}
}

func TestDecodeConstraints(t *testing.T) {
	c := codec.New()
	tests := []struct {
		name  string
		edit  func(*demo.Config)
		path  string
		value any
	}{
		{"level", func(cfg *demo.Config) { cfg.Level = 11 }, "level", uint8(11)},
		{"port", func(cfg *demo.Config) { cfg.Port = 0 }, "port", uint16(0)},
		{"weight", func(cfg *demo.Config) { cfg.Weight = -1 }, "weight", float64(-1)},
		{"nested range", func(cfg *demo.Config) { cfg.Corners[1].Y = 101 }, "corners", int32(101)},
		{"variant field", func(cfg *demo.Config) { cfg.Shape = demo.ShapeCircle{Radius: -2} }, "shape", float64(-2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sampleConfig(shapes[0].shape)
			tt.edit(&cfg)
			if err := cfg.Validate(); !errors.IsKind(err, errors.KindConstraintViolation) {
				t.Errorf("Validate: got %v", err)
			}

			data, err := c.Marshal(cfg)
			if err != nil {
				t.Fatal(err)
			}
			var out demo.Config
			err = c.Unmarshal(data, &out)
			if !errors.IsKind(err, errors.KindConstraintViolation) {
				t.Fatalf("got %v, want constraint_violation", err)
			}
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("not an *errors.Error: %T", err)
			}
			if len(e.Path) == 0 || e.Path[0] != tt.path {
				t.Errorf("Path = %v, want %s first", e.Path, tt.path)
			}
			if e.Value != tt.value {
				t.Errorf("Value = %#v, want %#v", e.Value, tt.value)
			}
		})
	}
}

func TestValidate_NilUnion(t *testing.T) {
	cfg := sampleConfig(nil)
	if err := cfg.Validate(); !errors.IsKind(err, errors.KindNilPointer) {
		t.Errorf("got %v, want nil_pointer", err)
	}
	if err := sampleConfig(shapes[1].shape).Validate(); err != nil {
		t.Errorf("valid config: %v", err)
	}
}

func TestVariantDecode(t *testing.T) {
	c := codec.New()
	circle, err := c.Marshal(demo.ShapeCircle{Radius: 2})
	if err != nil {
		t.Fatal(err)
	}
	if circle[0] != 0 {
		t.Fatalf("discriminant = %d", circle[0])
	}

	var got demo.ShapeCircle
	if err := c.Unmarshal(circle, &got); err != nil || got.Radius != 2 {
		t.Fatalf("got %+v, %v", got, err)
	}
	shape, err := demo.DecodeShape(mustSource(t, circle))
	if err != nil || shape != (demo.ShapeCircle{Radius: 2}) {
		t.Fatalf("DecodeShape = %#v, %v", shape, err)
	}

	rect, err := c.Marshal(demo.ShapeRect{})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Unmarshal(rect, &got); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("rect into circle: got %v, want type_mismatch", err)
	}
	if err := c.Unmarshal([]byte{7}, &got); !errors.IsKind(err, errors.KindUnknownVariant) {
		t.Errorf("discriminant 7: got %v, want unknown_variant", err)
	}

	var empty demo.ShapeEmpty
	if err := c.Unmarshal([]byte{2}, &empty); err != nil {
		t.Errorf("empty variant: %v", err)
	}
}

func mustSource(t *testing.T, data []byte) wire.Source {
	t.Helper()
	src, err := wire.NewSource(wire.FormatFlat, data)
	if err != nil {
		t.Fatal(err)
	}
	return src
}
