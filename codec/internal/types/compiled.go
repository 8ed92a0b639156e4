package types

import (
	"reflect"

	"github.com/wippyai/bytebridge/schema"
)

type CompiledType struct {
	GoType   reflect.Type
	Schema   *schema.Type
	Elem     *CompiledType // list, array, option element; map value
	Key      *CompiledType // map key
	Name     string        // record or union name
	Fields   []Field
	Cases    []Case
	Check    Check // constraints tested after a scalar decodes
	Len      int   // array arity
	MinWidth int   // fewest bytes one value occupies on the flat wire
	GoSize   uintptr
	Kind     Kind
	NonZero  bool
}

type Field struct {
	Type     *CompiledType
	Name     string
	GoName   string
	GoOffset uintptr
}

// Case is one union variant. Type is the variant's record.
type Case struct {
	Type *CompiledType
	Name string
}

// Check holds the value constraints tested after a scalar is decoded.
type Check struct {
	Range   *schema.Range
	NonZero bool
	Natural bool
}

func (c Check) Empty() bool {
	return c.Range == nil && !c.NonZero && !c.Natural
}

func (ct *CompiledType) IsPrimitive() bool {
	return ct.Kind.IsPrimitive()
}

// TypeName is the schema spelling used in error messages.
func (ct *CompiledType) TypeName() string {
	if ct.Schema != nil {
		return ct.Schema.String()
	}
	if ct.Name != "" {
		return ct.Name
	}
	return ct.Kind.String()
}

// CaseIndex returns the discriminant for a variant Go type.
func (ct *CompiledType) CaseIndex(t reflect.Type) (int, bool) {
	for i, c := range ct.Cases {
		if c.Type.GoType == t {
			return i, true
		}
	}
	return 0, false
}
