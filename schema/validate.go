package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

// MaxVariants is the number of distinct discriminant values.
const MaxVariants = bytebridge.MaxVariants

// Validate applies every generation-time rule to s and returns all
// violations as an errors.List, or nil.
func (s *Schema) Validate() error {
	v := &validator{schema: s, names: make(map[string]string)}
	for _, td := range s.Types {
		v.typeDef(td)
	}
	v.recursion()
	return v.errs.Err()
}

type validator struct {
	schema *Schema
	names  map[string]string // generated identifier -> declaring type
	errs   errors.List
}

func (v *validator) fail(kind errors.Kind, path []string, format string, args ...any) {
	v.errs = append(v.errs, errors.Generation(kind, path, format, args...))
}

func (v *validator) claim(name, owner string, path []string) {
	if prev, ok := v.names[name]; ok {
		v.fail(errors.KindDuplicateName, path, "%s already declared by %s", name, prev)
		return
	}
	v.names[name] = owner
}

func (v *validator) typeName(name string, path []string) {
	switch {
	case strings.ContainsAny(name, "<['"):
		v.fail(errors.KindGenericParams, path, "type %s has generic, lifetime or const parameters", name)
	case !typeNameRe.MatchString(name):
		v.fail(errors.KindInvalidName, path, "type name %q must be CamelCase ASCII", name)
	case IsReservedType(name):
		v.fail(errors.KindReservedName, path, "type name %s is reserved", name)
	}
}

func (v *validator) typeDef(td *TypeDef) {
	path := []string{td.Name}
	v.typeName(td.Name, path)
	v.claim(td.Name, td.Name, path)

	if len(td.Params) > 0 {
		v.fail(errors.KindGenericParams, path, "type %s declares parameters %s", td.Name, strings.Join(td.Params, ", "))
	}
	if td.Unit {
		v.fail(errors.KindUnitType, path, "%s %s has no field list; declare fields: [] for an empty %s", td.Kind, td.Name, td.Kind)
		return
	}

	if td.Kind == DefRecord {
		v.fields(td.Fields, path)
		return
	}

	switch n := len(td.Variants); {
	case n == 0:
		v.fail(errors.KindUnitType, path, "union %s declares no variants", td.Name)
	case n > MaxVariants:
		v.fail(errors.KindTooManyVariants, path, "union %s declares %d variants, at most %d fit a one-byte discriminant", td.Name, n, MaxVariants)
	}

	seen := make(map[string]bool, len(td.Variants))
	for _, vr := range td.Variants {
		vpath := []string{td.Name, vr.Name}
		v.typeName(vr.Name, vpath)
		if seen[vr.Name] || vr.Name == td.Name {
			v.fail(errors.KindDuplicateName, vpath, "variant %s declared twice in %s", vr.Name, td.Name)
		}
		seen[vr.Name] = true
		v.claim(td.Name+vr.Name, td.Name, vpath)

		if vr.Unit {
			v.fail(errors.KindUnitType, vpath, "variant %s.%s has no field list; declare fields: [] for an empty variant", td.Name, vr.Name)
			continue
		}
		v.fields(vr.Fields, vpath)
	}
}

func (v *validator) fields(fields []*Field, owner []string) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		path := append(append([]string(nil), owner...), f.Name)

		if f.Positional {
			v.fail(errors.KindTupleField, path, "positional field of type %s; every field needs a name", f.exprString())
			continue
		}
		switch {
		case !fieldNameRe.MatchString(f.Name):
			v.fail(errors.KindInvalidName, path, "field name %q must be snake_case ASCII", f.Name)
		case IsReservedField(f.Name):
			v.fail(errors.KindReservedName, path, "field name %s is reserved", f.Name)
		}
		if seen[f.Name] {
			v.fail(errors.KindDuplicateName, path, "field %s declared twice", f.Name)
		}
		seen[f.Name] = true

		if f.Private {
			v.fail(errors.KindPrivateField, path, "field %s is not public and cannot be mirrored", f.Name)
		}

		if f.Type == nil {
			if f.TypeExpr != "" {
				var err error
				if f.Type, err = ParseType(f.TypeExpr); err != nil {
					v.fail(errors.KindUnknownType, path, "%v", err)
					continue
				}
			} else {
				v.fail(errors.KindUnknownType, path, "field %s has no type", f.Name)
				continue
			}
		}
		if !v.checkType(f.Type, path) {
			continue
		}
		v.constraints(f, path)

		if f.Defaults > 1 {
			v.fail(errors.KindDuplicateDefault, path, "field %s declares %d defaults", f.Name, f.Defaults)
		}
		if f.Default != nil {
			if msg := checkDefault(f.Type, f.Default, f.Constraints); msg != "" {
				v.fail(errors.KindInvalidDefault, path, "default %s: %s", f.Default, msg)
			}
		}
	}
}

func (f *Field) exprString() string {
	if f.Type != nil {
		return f.Type.String()
	}
	return f.TypeExpr
}

// checkType verifies references, map keys and nonzero bases. It reports
// whether t is well formed.
func (v *validator) checkType(t *Type, path []string) bool {
	switch t.Kind {
	case KindRef:
		if v.schema.Lookup(t.Ref) == nil {
			v.fail(errors.KindUnknownType, path, "unknown type %s", t.Ref)
			return false
		}
	case KindNonZero:
		if t.Elem == nil || !t.Elem.Kind.IsUnsigned() || t.Elem.Kind == KindUsize {
			v.fail(errors.KindInvalidConstraint, path, "nonzero requires u8, u16, u32 or u64, got %s", t.Elem)
			return false
		}
	case KindMap:
		if !v.checkType(t.Key, path) || !v.checkType(t.Elem, path) {
			return false
		}
		if !validMapKey(t.Key) {
			v.fail(errors.KindInvalidMapKey, path, "map key %s is not an integer, bool or string", t.Key)
			return false
		}
	case KindArray:
		if t.Len < 0 {
			v.fail(errors.KindUnknownType, path, "negative array length %d", t.Len)
			return false
		}
		return v.checkType(t.Elem, path)
	case KindList, KindOption:
		return v.checkType(t.Elem, path)
	}
	return true
}

func validMapKey(t *Type) bool {
	k := t.Kind
	return k.IsInteger() || k == KindBool || k == KindString
}

func (v *validator) constraints(f *Field, path []string) {
	c := f.Constraints
	t := f.Type.Unwrap()
	k := t.Scalar()

	if c.NonZero && !(k.IsUnsigned() && k != KindUsize) {
		v.fail(errors.KindInvalidConstraint, path, "nonzero applies to u8, u16, u32 or u64, not %s", f.Type)
	}
	if c.Natural && !(k.IsSigned() || k.IsFloat()) {
		v.fail(errors.KindInvalidConstraint, path, "natural applies to signed integers and floats, not %s", f.Type)
	}
	if c.Range != nil {
		if !(k.IsInteger() || k.IsFloat()) {
			v.fail(errors.KindInvalidConstraint, path, "range applies to numbers, not %s", f.Type)
		} else if c.Range.Min > c.Range.Max {
			v.fail(errors.KindInvalidConstraint, path, "empty range %s", c.Range)
		}
	}
	if c.UnsignedArray {
		ok := (t.Kind == KindList || t.Kind == KindArray) && t.Elem != nil
		if ok {
			switch t.Elem.Kind {
			case KindU8, KindU16, KindU32, KindU64:
			default:
				ok = false
			}
		}
		if !ok {
			v.fail(errors.KindInvalidConstraint, path, "unsigned applies to lists or arrays of u8, u16, u32 or u64, not %s", f.Type)
		}
	}
}

// checkDefault returns a description of why lit cannot initialise a value
// of type t, or "".
func checkDefault(t *Type, lit *Literal, c Constraints) string {
	if t.Kind == KindOption {
		if lit.Kind == LitNull {
			return ""
		}
		return checkDefault(t.Elem, lit, c)
	}
	if lit.Kind == LitNull {
		return "null is only valid for option types"
	}

	k := t.Kind
	base := t
	if k == KindNonZero {
		base = t.Elem
	}
	switch {
	case k == KindBool:
		if lit.Kind != LitBool {
			return "expected a bool literal for bool"
		}
		return ""
	case k == KindString:
		if lit.Kind != LitString {
			return "expected a string literal for string"
		}
		return ""
	case k == KindList, k == KindMap, k == KindArray, k == KindRef:
		return "defaults are only supported on scalar and option fields, not " + t.String()
	}

	if lit.Kind != LitNumber {
		return "expected a number literal for " + t.String()
	}

	var (
		val float64
		err error
	)
	switch bk := base.Kind; {
	case bk.IsUnsigned() || bk == KindDuration:
		var u uint64
		u, err = strconv.ParseUint(lit.Raw, 0, bitSize(bk))
		val = float64(u)
		if err == nil && (k == KindNonZero || c.NonZero) && u == 0 {
			return "zero violates nonzero"
		}
	case bk.IsSigned():
		var i int64
		i, err = strconv.ParseInt(lit.Raw, 0, bitSize(bk))
		val = float64(i)
	case bk.IsFloat():
		val, err = strconv.ParseFloat(lit.Raw, bitSize(bk))
	default:
		return "unsupported default for " + t.String()
	}
	if err != nil {
		return "does not fit " + t.String()
	}

	if c.Natural && val < 0 {
		return "negative value violates natural"
	}
	if r := c.Range; r != nil && (val < r.Min || val > r.Max) {
		return "outside range " + r.String()
	}
	return ""
}

func bitSize(k Kind) int {
	switch k {
	case KindU8, KindI8:
		return 8
	case KindU16, KindI16:
		return 16
	case KindU32, KindI32, KindF32:
		return 32
	}
	return 64
}

// recursion reports records that contain themselves without a list, map,
// option or union in between. Such values have no finite encoding.
func (v *validator) recursion() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	reported := make(map[string]bool)

	var visit func(name string, stack []string)
	visit = func(name string, stack []string) {
		td := v.schema.Lookup(name)
		if td == nil || td.Kind != DefRecord {
			return
		}
		switch state[name] {
		case visiting:
			if !reported[name] {
				reported[name] = true
				cycle := append(stack, name)
				for i, n := range cycle {
					if n == name {
						cycle = cycle[i:]
						break
					}
				}
				v.fail(errors.KindRecursiveType, []string{name}, "%s contains itself: %s", name, strings.Join(cycle, " -> "))
			}
			return
		case done:
			return
		}
		state[name] = visiting
		for _, f := range td.Fields {
			if ref := directRef(f.Type); ref != "" {
				visit(ref, append(stack, name))
			}
		}
		state[name] = done
	}

	for _, td := range v.schema.Types {
		if state[td.Name] == unvisited {
			visit(td.Name, nil)
		}
	}
}

// directRef returns the record a field embeds by value.
func directRef(t *Type) string {
	for t != nil {
		switch t.Kind {
		case KindRef:
			return t.Ref
		case KindArray:
			t = t.Elem
		default:
			return ""
		}
	}
	return ""
}
