package schema

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bytebridge/errors"
)

func witPtr(s string) *string { return &s }

func TestFromWIT(t *testing.T) {
	point := &wit.TypeDef{
		Name: witPtr("point"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "x", Type: wit.S32{}},
			{Name: "y", Type: wit.S32{}},
		}},
	}
	shape := &wit.TypeDef{
		Name: witPtr("shape"),
		Kind: &wit.Variant{Cases: []wit.Case{
			{Name: "circle", Type: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "radius", Type: wit.F64{}},
			}}}},
			{Name: "poly-line", Type: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "points", Type: &wit.TypeDef{Kind: &wit.List{Type: point}}},
				{Name: "label", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}},
			}}}},
		}},
	}
	user := &wit.TypeDef{
		Name: witPtr("user-profile"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "user-id", Type: wit.U64{}},
			{Name: "home", Type: point},
			{Name: "outline", Type: shape},
		}},
	}

	s, err := FromWIT("demo", user)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	td := s.Lookup("UserProfile")
	if td == nil {
		t.Fatalf("UserProfile missing: %v", s.Types)
	}
	if f := td.Fields[0]; f.Name != "user_id" || f.Type.Kind != KindU64 {
		t.Errorf("field 0 = %s %s", f.Name, f.Type)
	}
	if f := td.Fields[1]; !f.Type.Equal(Named("Point")) {
		t.Errorf("home = %s", f.Type)
	}

	sh := s.Lookup("Shape")
	if sh == nil || sh.Kind != DefUnion || len(sh.Variants) != 2 {
		t.Fatal("Shape union not imported")
	}
	pl := sh.Variants[1]
	if pl.Name != "PolyLine" || pl.Fields[0].Type.String() != "list<Point>" || pl.Fields[1].Type.String() != "option<string>" {
		t.Errorf("PolyLine = %+v", pl)
	}
}

func TestFromWITRejects(t *testing.T) {
	tests := []struct {
		name string
		def  *wit.TypeDef
		kind errors.Kind
	}{
		{"payload-less case", &wit.TypeDef{
			Name: witPtr("state"),
			Kind: &wit.Variant{Cases: []wit.Case{{Name: "idle"}}},
		}, errors.KindUnitType},
		{"scalar payload", &wit.TypeDef{
			Name: witPtr("value"),
			Kind: &wit.Variant{Cases: []wit.Case{{Name: "int", Type: wit.S64{}}}},
		}, errors.KindTupleField},
		{"tuple field", &wit.TypeDef{
			Name: witPtr("pair"),
			Kind: &wit.Record{Fields: []wit.Field{
				{Name: "both", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.U8{}}}}},
			}},
		}, errors.KindTupleField},
		{"enum", &wit.TypeDef{Name: witPtr("color"), Kind: &wit.Enum{}}, errors.KindUnsupported},
		{"flags", &wit.TypeDef{Name: witPtr("perms"), Kind: &wit.Flags{}}, errors.KindUnsupported},
		{"char field", &wit.TypeDef{
			Name: witPtr("glyph"),
			Kind: &wit.Record{Fields: []wit.Field{{Name: "c", Type: wit.Char{}}}},
		}, errors.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromWIT("demo", tt.def)
			if err == nil {
				err = s.Validate()
			}
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}
