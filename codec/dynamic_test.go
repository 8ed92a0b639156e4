package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

const dynamicSchema = `
package: demo
types:
  - name: Pair
    fields:
      - {name: a, type: i32}
      - {name: b, type: i32}
  - name: Expr
    variants:
      - name: VarA
        fields: [{name: a, type: i32}, {name: b, type: i32}]
      - name: VarB
        fields: [{name: c, type: i32}, {name: d, type: i32}]
  - name: Bag
    fields:
      - {name: grid, type: "list<list<i32>>"}
      - {name: index, type: "map<string,list<u32>>"}
      - {name: pair, type: "array<u8,2>"}
      - {name: note, type: "option<string>"}
      - {name: wait, type: duration}
      - {name: port, type: "nonzero<u16>", default: 8080}
      - {name: level, type: u8, range: [1, 10]}
      - {name: shape, type: Expr}
`

func loadDynamic(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(dynamicSchema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return s
}

func encodeDynamic(t *testing.T, s *schema.Schema, typ string, v any) []byte {
	t.Helper()
	data, err := New().MarshalValue(wire.FormatFlat, s, schema.Named(typ), v)
	if err != nil {
		t.Fatalf("MarshalValue(%s): %v", typ, err)
	}
	return data
}

func TestDynamic_MatchesReflection(t *testing.T) {
	s := loadDynamic(t)
	c := newCodec(t)

	got := encodeDynamic(t, s, "Pair", map[string]any{"a": 1, "b": 2})
	want, _ := c.Marshal(Pair{A: 1, B: 2})
	if !bytes.Equal(got, want) {
		t.Errorf("Pair: dynamic %x, reflection %x", got, want)
	}

	got = encodeDynamic(t, s, "Expr", map[string]any{"VarA": map[string]any{"a": 1, "b": 2}})
	var e Expr = ExprVarA{A: 1, B: 2}
	want, _ = MarshalTyped(c, e)
	if !bytes.Equal(got, want) {
		t.Errorf("Expr: dynamic %x, reflection %x", got, want)
	}
	if got[0] != 0 {
		t.Errorf("discriminant = %d", got[0])
	}
}

func TestDynamic_RoundTrip(t *testing.T) {
	s := loadDynamic(t)
	c := New()
	in := map[string]any{
		"grid":  []any{[]any{1, 2, 3}, []any{4, 5, 6}, []any{7, 8, 9}},
		"index": map[string]any{"x": []any{1}, "y": []any{}},
		"pair":  []any{1, 255},
		"note":  "hi",
		"wait":  "2m",
		"level": 3,
		"shape": map[string]any{"VarB": map[string]any{"c": 3, "d": 4}},
	}
	data := encodeDynamic(t, s, "Bag", in)

	v, err := c.UnmarshalValue(wire.FormatFlat, data, s, schema.Named("Bag"))
	if err != nil {
		t.Fatalf("UnmarshalValue: %v", err)
	}
	rec, ok := v.(*Record)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if port, _ := rec.Get("port"); port != uint16(8080) {
		t.Errorf("port = %#v, want default 8080", port)
	}
	if wait, _ := rec.Get("wait"); wait != 2*time.Minute {
		t.Errorf("wait = %v", wait)
	}
	shape, _ := rec.Get("shape")
	vv, ok := shape.(*VariantValue)
	if !ok || vv.Name != "VarB" || vv.Index != 1 {
		t.Fatalf("shape = %#v", shape)
	}
	if d, _ := vv.Fields.Get("d"); d != int32(4) {
		t.Errorf("shape.d = %#v", d)
	}

	again := encodeDynamic(t, s, "Bag", rec)
	if !bytes.Equal(again, data) {
		t.Errorf("re-encoding differs:\n got %x\nwant %x", again, data)
	}
}

func TestDynamic_EncodeErrors(t *testing.T) {
	s := loadDynamic(t)

	tests := []struct {
		name string
		typ  string
		v    any
		kind errors.Kind
	}{
		{"overflow", "Pair", map[string]any{"a": 1 << 40, "b": 0}, errors.KindNumericOverflow},
		{"not a number", "Pair", map[string]any{"a": "x", "b": 0}, errors.KindTypeMismatch},
		{"missing field", "Pair", map[string]any{"a": 1}, errors.KindInvalidInput},
		{"unknown field", "Pair", map[string]any{"a": 1, "b": 2, "c": 3}, errors.KindInvalidInput},
		{"unknown variant", "Expr", map[string]any{"VarC": map[string]any{}}, errors.KindUnknownVariant},
		{"two variants", "Expr", map[string]any{"VarA": nil, "VarB": nil}, errors.KindInvalidInput},
		{"record shape", "Pair", []any{1, 2}, errors.KindTypeMismatch},
		{"nonzero", "Bag", bagWith("port", 0), errors.KindConstraintViolation},
		{"range", "Bag", bagWith("level", 11), errors.KindConstraintViolation},
		{"arity", "Bag", bagWith("pair", []any{1}), errors.KindArityMismatch},
		{"duration", "Bag", bagWith("wait", "soon"), errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().MarshalValue(wire.FormatFlat, s, schema.Named(tt.typ), tt.v)
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("got %v, want %s", err, tt.kind)
			}
		})
	}
}

func bagWith(key string, v any) map[string]any {
	m := map[string]any{
		"grid":  []any{},
		"index": map[string]any{},
		"pair":  []any{0, 0},
		"wait":  0,
		"level": 1,
		"shape": map[string]any{"VarA": map[string]any{"a": 0, "b": 0}},
	}
	m[key] = v
	return m
}

func TestDynamic_DecodeErrors(t *testing.T) {
	s := loadDynamic(t)
	c := New()

	_, err := c.UnmarshalValue(wire.FormatFlat, []byte{13, 0, 0, 0, 0}, s, schema.Named("Expr"))
	if !errors.IsKind(err, errors.KindUnknownVariant) {
		t.Errorf("unknown variant: %v", err)
	}

	data := encodeDynamic(t, s, "Bag", bagWith("note", "x"))
	for k := 0; k < len(data); k++ {
		_, err := c.UnmarshalValue(wire.FormatFlat, data[:k], s, schema.Named("Bag"))
		if !errors.IsKind(err, errors.KindInsufficientData) {
			t.Fatalf("prefix %d/%d: %v", k, len(data), err)
		}
	}
}

func TestDynamic_MsgpackAgreesWithReflection(t *testing.T) {
	s := loadDynamic(t)
	c := newCodec(t)

	dyn, err := c.MarshalValue(wire.FormatMsgpack, s, schema.Named("Pair"), map[string]any{"a": -1, "b": 300})
	if err != nil {
		t.Fatal(err)
	}
	refl, _ := c.MarshalFormat(wire.FormatMsgpack, Pair{A: -1, B: 300})
	if !bytes.Equal(dyn, refl) {
		t.Errorf("dynamic %x, reflection %x", dyn, refl)
	}
}

func TestRecord_MarshalYAML(t *testing.T) {
	rec := &Record{Name: "Pair", Fields: []FieldValue{{Name: "b", Value: int32(2)}, {Name: "a", Value: int32(1)}}}
	vv := &VariantValue{Union: "Expr", Name: "VarA", Fields: rec}

	out, err := yaml.Marshal(vv)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "VarA:\n") {
		t.Errorf("got %q", text)
	}
	if strings.Index(text, "b: 2") > strings.Index(text, "a: 1") {
		t.Errorf("field order lost: %q", text)
	}
}
