package schema

import (
	"strconv"
	"strings"
)

// Kind is the structural kind of a Type.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindDuration
	KindIsize
	KindUsize
	KindNonZero
	KindList
	KindMap
	KindArray
	KindOption
	KindRef
)

var kindNames = [...]string{
	KindBool:     "bool",
	KindU8:       "u8",
	KindU16:      "u16",
	KindU32:      "u32",
	KindU64:      "u64",
	KindI8:       "i8",
	KindI16:      "i16",
	KindI32:      "i32",
	KindI64:      "i64",
	KindF32:      "f32",
	KindF64:      "f64",
	KindString:   "string",
	KindDuration: "duration",
	KindIsize:    "isize",
	KindUsize:    "usize",
	KindNonZero:  "nonzero",
	KindList:     "list",
	KindMap:      "map",
	KindArray:    "array",
	KindOption:   "option",
	KindRef:      "ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a scalar with a fixed codec.
func (k Kind) IsPrimitive() bool {
	return k <= KindNonZero
}

// IsUnsigned reports whether k is an unsigned integer.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64, KindUsize:
		return true
	}
	return false
}

// IsSigned reports whether k is a signed integer.
func (k Kind) IsSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindIsize:
		return true
	}
	return false
}

// IsInteger reports whether k is any integer kind, including nonzero.
func (k Kind) IsInteger() bool {
	return k.IsUnsigned() || k.IsSigned() || k == KindNonZero
}

// IsFloat reports whether k is f32 or f64.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// Type describes the shape of a value.
type Type struct {
	Elem *Type  // list, array, option element; nonzero base
	Key  *Type  // map key
	Ref  string // named record or union
	Len  int    // array arity
	Kind Kind
}

// Prim returns a primitive type of the given kind.
func Prim(k Kind) *Type { return &Type{Kind: k} }

func List(elem *Type) *Type         { return &Type{Kind: KindList, Elem: elem} }
func Option(elem *Type) *Type       { return &Type{Kind: KindOption, Elem: elem} }
func Map(key, val *Type) *Type      { return &Type{Kind: KindMap, Key: key, Elem: val} }
func Array(elem *Type, n int) *Type { return &Type{Kind: KindArray, Elem: elem, Len: n} }
func NonZero(base *Type) *Type      { return &Type{Kind: KindNonZero, Elem: base} }
func Named(name string) *Type       { return &Type{Kind: KindRef, Ref: name} }

// String returns the canonical type expression.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case KindRef:
		b.WriteString(t.Ref)
	case KindList, KindOption, KindNonZero:
		b.WriteString(t.Kind.String())
		b.WriteByte('<')
		t.Elem.write(b)
		b.WriteByte('>')
	case KindMap:
		b.WriteString("map<")
		t.Key.write(b)
		b.WriteByte(',')
		t.Elem.write(b)
		b.WriteByte('>')
	case KindArray:
		b.WriteString("array<")
		t.Elem.write(b)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(t.Len))
		b.WriteByte('>')
	default:
		b.WriteString(t.Kind.String())
	}
}

// Equal reports structural equality.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Len != o.Len || t.Ref != o.Ref {
		return false
	}
	return t.Elem.Equal(o.Elem) && t.Key.Equal(o.Key)
}

// Unwrap strips option layers.
func (t *Type) Unwrap() *Type {
	for t != nil && t.Kind == KindOption {
		t = t.Elem
	}
	return t
}

// Scalar returns the underlying scalar kind, looking through nonzero.
func (t *Type) Scalar() Kind {
	if t.Kind == KindNonZero && t.Elem != nil {
		return t.Elem.Kind
	}
	return t.Kind
}

// DefKind distinguishes records from unions.
type DefKind uint8

const (
	DefRecord DefKind = iota
	DefUnion
)

func (k DefKind) String() string {
	if k == DefUnion {
		return "union"
	}
	return "record"
}

// Schema is an ordered set of named type definitions.
type Schema struct {
	Package string
	Types   []*TypeDef
}

// Lookup finds a definition by name.
func (s *Schema) Lookup(name string) *TypeDef {
	for _, td := range s.Types {
		if td.Name == name {
			return td
		}
	}
	return nil
}

// Add appends td unless a definition with the same name already exists.
func (s *Schema) Add(td *TypeDef) bool {
	if s.Lookup(td.Name) != nil {
		return false
	}
	s.Types = append(s.Types, td)
	return true
}

// TypeDef is a named record or union.
type TypeDef struct {
	Name     string
	Docs     string
	Params   []string // generic, lifetime or const parameters; always rejected
	Fields   []*Field
	Variants []*Variant
	Kind     DefKind
	Unit     bool // declared without a field list
}

// Variant is one case of a union. Its fields form a record.
type Variant struct {
	Name   string
	Docs   string
	Fields []*Field
	Unit   bool
}

// Field is a named, typed member of a record or variant.
type Field struct {
	Type        *Type
	Default     *Literal
	Constraints Constraints
	Name        string
	TypeExpr    string // source expression, kept when Type could not be parsed
	Docs        string
	Defaults    int  // number of default declarations seen
	Positional  bool // declared without a name
	Private     bool // not visible to the mirror generator
}

// Constraints restrict a field's value domain without changing its framing.
type Constraints struct {
	Range         *Range
	NonZero       bool
	Natural       bool
	UnsignedArray bool
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.Range == nil && !c.NonZero && !c.Natural && !c.UnsignedArray
}

// String renders the constraints in tag syntax.
func (c Constraints) String() string {
	var parts []string
	if c.NonZero {
		parts = append(parts, "nonzero")
	}
	if c.Natural {
		parts = append(parts, "natural")
	}
	if c.Range != nil {
		parts = append(parts, "range="+c.Range.String())
	}
	if c.UnsignedArray {
		parts = append(parts, "unsigned")
	}
	return strings.Join(parts, ",")
}

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
}

func (r *Range) String() string {
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

// ParseRange parses "lo..hi".
func ParseRange(s string) (*Range, error) {
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return nil, strconv.ErrSyntax
	}
	r := &Range{}
	var err error
	if r.Min, err = strconv.ParseFloat(strings.TrimSpace(lo), 64); err != nil {
		return nil, err
	}
	if r.Max, err = strconv.ParseFloat(strings.TrimSpace(hi), 64); err != nil {
		return nil, err
	}
	return r, nil
}

// LiteralKind classifies a default value literal.
type LiteralKind uint8

const (
	LitNull LiteralKind = iota
	LitBool
	LitNumber
	LitString
)

func (k LiteralKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	}
	return "null"
}

// Literal is an untyped default value. It is type-checked against the field
// type during validation.
type Literal struct {
	Raw  string
	Kind LiteralKind
}

func (l *Literal) String() string {
	if l.Kind == LitString {
		return strconv.Quote(l.Raw)
	}
	return l.Raw
}

// ParseLiteral classifies a literal written in tag or expression syntax.
func ParseLiteral(s string) *Literal {
	s = strings.TrimSpace(s)
	switch {
	case s == "null" || s == "none" || s == "~":
		return &Literal{Kind: LitNull, Raw: s}
	case s == "true" || s == "false":
		return &Literal{Kind: LitBool, Raw: s}
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		if u, err := strconv.Unquote(s); err == nil {
			return &Literal{Kind: LitString, Raw: u}
		}
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return &Literal{Kind: LitNumber, Raw: s}
	}
	return &Literal{Kind: LitString, Raw: s}
}
