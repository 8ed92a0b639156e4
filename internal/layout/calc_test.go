package layout

import (
	"testing"

	"github.com/wippyai/bytebridge/schema"
)

func TestMinWidth(t *testing.T) {
	s := &schema.Schema{Types: []*schema.TypeDef{
		{Name: "Point", Fields: []*schema.Field{
			{Name: "x", Type: schema.Prim(schema.KindI32)},
			{Name: "y", Type: schema.Prim(schema.KindI32)},
		}},
		{Name: "Empty", Fields: []*schema.Field{}},
		{Name: "Expr", Kind: schema.DefUnion, Variants: []*schema.Variant{
			{Name: "Lit", Fields: []*schema.Field{{Name: "v", Type: schema.Prim(schema.KindI64)}}},
			{Name: "Neg", Fields: []*schema.Field{{Name: "e", Type: schema.Named("Expr")}}},
		}},
	}}
	c := NewCalculator(s)

	tests := []struct {
		expr string
		want int
	}{
		{"bool", 1},
		{"u16", 2},
		{"f32", 4},
		{"usize", 8},
		{"duration", 8},
		{"string", 8},
		{"nonzero<u32>", 4},
		{"option<Point>", 1},
		{"list<Point>", 8},
		{"map<string,i8>", 8},
		{"array<u8,4>", 12},
		{"array<Empty,9>", 8},
		{"Point", 8},
		{"Empty", 0},
		{"Expr", 2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := c.MinWidth(schema.MustParseType(tt.expr)); got != tt.want {
				t.Errorf("MinWidth = %d, want %d", got, tt.want)
			}
		})
	}
}
