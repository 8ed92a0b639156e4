package layout

import (
	"github.com/wippyai/bytebridge/internal/abi"
	"github.com/wippyai/bytebridge/schema"
)

type Calculator struct {
	schema *schema.Schema
	cache  map[string]int
	active map[string]bool
}

func NewCalculator(s *schema.Schema) *Calculator {
	return &Calculator{
		schema: s,
		cache:  make(map[string]int),
		active: make(map[string]bool),
	}
}

// MinWidth returns the fewest bytes a value of t occupies on the flat wire.
func (c *Calculator) MinWidth(t *schema.Type) int {
	switch t.Kind {
	case schema.KindBool, schema.KindU8, schema.KindI8:
		return 1
	case schema.KindU16, schema.KindI16:
		return 2
	case schema.KindU32, schema.KindI32, schema.KindF32:
		return 4
	case schema.KindU64, schema.KindI64, schema.KindF64,
		schema.KindIsize, schema.KindUsize, schema.KindDuration,
		schema.KindString, schema.KindList, schema.KindMap:
		return 8
	case schema.KindNonZero:
		return c.MinWidth(t.Elem)
	case schema.KindOption:
		return 1
	case schema.KindArray:
		return abi.SaturatingAdd(8, abi.SaturatingMul(t.Len, c.MinWidth(t.Elem)))
	case schema.KindRef:
		return c.def(t.Ref)
	}
	return 0
}

func (c *Calculator) def(name string) int {
	if w, ok := c.cache[name]; ok {
		return w
	}
	td := c.schema.Lookup(name)
	if td == nil {
		return 0
	}
	// A union reached again while computing itself still costs its
	// discriminant. Records cannot contain themselves.
	if c.active[name] {
		if td.Kind == schema.DefUnion {
			return 1
		}
		return 0
	}
	c.active[name] = true
	defer delete(c.active, name)

	var w int
	if td.Kind == schema.DefUnion {
		narrowest := -1
		for _, v := range td.Variants {
			vw := c.fields(v.Fields)
			if narrowest < 0 || vw < narrowest {
				narrowest = vw
			}
		}
		if narrowest < 0 {
			narrowest = 0
		}
		w = 1 + narrowest
	} else {
		w = c.fields(td.Fields)
	}
	c.cache[name] = w
	return w
}

func (c *Calculator) fields(fields []*schema.Field) int {
	w := 0
	for _, f := range fields {
		w = abi.SaturatingAdd(w, c.MinWidth(f.Type))
	}
	return w
}
