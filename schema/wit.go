package schema

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bytebridge/errors"
)

// FromWIT imports a WIT record or variant, together with every named
// type it references, into a schema. Kebab-case type names become
// CamelCase and field names become snake_case. The result is not
// validated; call Validate before generating code from it.
func FromWIT(pkg string, defs ...*wit.TypeDef) (*Schema, error) {
	im := &witImporter{schema: &Schema{Package: pkg}, seen: make(map[*wit.TypeDef]string)}
	for _, td := range defs {
		im.typeDef(td, nil)
	}
	if len(im.errs) > 0 {
		return nil, im.errs
	}
	return im.schema, nil
}

type witImporter struct {
	schema *Schema
	seen   map[*wit.TypeDef]string
	errs   errors.List
}

func (im *witImporter) unsupported(path []string, format string, args ...any) {
	im.errs = append(im.errs, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
		Path(path...).
		Detail(format, args...).
		Build())
}

func witName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return ""
}

// typeDef imports a named record or variant and returns a reference to it.
func (im *witImporter) typeDef(td *wit.TypeDef, path []string) *Type {
	if name, ok := im.seen[td]; ok {
		return Named(name)
	}
	name := CamelCase(witName(td))
	if name == "" {
		im.unsupported(path, "anonymous %T cannot be a named type", td.Kind)
		return nil
	}
	im.seen[td] = name
	tpath := []string{name}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		def := &TypeDef{Name: name, Kind: DefRecord, Fields: []*Field{}}
		im.schema.Types = append(im.schema.Types, def)
		for _, f := range kind.Fields {
			def.Fields = append(def.Fields, im.field(f.Name, f.Type, tpath))
		}

	case *wit.Variant:
		def := &TypeDef{Name: name, Kind: DefUnion}
		im.schema.Types = append(im.schema.Types, def)
		for _, c := range kind.Cases {
			def.Variants = append(def.Variants, im.variant(name, c))
		}

	case *wit.Enum:
		im.unsupported(tpath, "enum %s: cases carry no fields; declare a variant with empty records", name)
	case *wit.Flags:
		im.unsupported(tpath, "flags %s have no wire representation", name)
	case *wit.Result:
		im.unsupported(tpath, "result %s has no wire representation", name)
	case *wit.Own, *wit.Borrow:
		im.unsupported(tpath, "resource handle %s cannot cross the boundary by value", name)
	case *wit.Tuple:
		im.errs = append(im.errs, errors.Generation(errors.KindTupleField, tpath, "tuple %s has positional fields", name))
	default:
		im.unsupported(tpath, "%s: %T is not a record or variant", name, kind)
	}
	return Named(name)
}

// variant maps a case with a record payload to a variant with that record's
// fields. Payload-less cases are unit variants and any other payload is a
// positional field; both are kept so Validate can report them.
func (im *witImporter) variant(union string, c wit.Case) *Variant {
	v := &Variant{Name: CamelCase(c.Name)}
	path := []string{union, v.Name}
	if c.Type == nil {
		v.Unit = true
		return v
	}
	if td, ok := c.Type.(*wit.TypeDef); ok {
		if rec, ok := td.Kind.(*wit.Record); ok {
			for _, f := range rec.Fields {
				v.Fields = append(v.Fields, im.field(f.Name, f.Type, path))
			}
			if v.Fields == nil {
				v.Fields = []*Field{}
			}
			return v
		}
	}
	t := im.typ(c.Type, path)
	v.Fields = []*Field{{Name: "0", Type: t, TypeExpr: fmt.Sprint(t), Positional: true}}
	return v
}

func (im *witImporter) field(name string, t wit.Type, owner []string) *Field {
	f := &Field{Name: SnakeCase(CamelCase(name))}
	path := append(append([]string(nil), owner...), f.Name)
	if td, ok := t.(*wit.TypeDef); ok {
		if _, ok := td.Kind.(*wit.Tuple); ok && td.Name == nil {
			f.Positional = true
		}
	}
	f.Type = im.typ(t, path)
	if f.Type != nil {
		f.TypeExpr = f.Type.String()
	}
	return f
}

func (im *witImporter) typ(t wit.Type, path []string) *Type {
	switch v := t.(type) {
	case wit.Bool:
		return Prim(KindBool)
	case wit.U8:
		return Prim(KindU8)
	case wit.U16:
		return Prim(KindU16)
	case wit.U32:
		return Prim(KindU32)
	case wit.U64:
		return Prim(KindU64)
	case wit.S8:
		return Prim(KindI8)
	case wit.S16:
		return Prim(KindI16)
	case wit.S32:
		return Prim(KindI32)
	case wit.S64:
		return Prim(KindI64)
	case wit.F32:
		return Prim(KindF32)
	case wit.F64:
		return Prim(KindF64)
	case wit.String:
		return Prim(KindString)
	case wit.Char:
		im.unsupported(path, "char has no wire representation; use string or u32")
		return nil
	case *wit.TypeDef:
		switch kind := v.Kind.(type) {
		case *wit.List:
			return im.wrap(List, kind.Type, path)
		case *wit.Option:
			return im.wrap(Option, kind.Type, path)
		case *wit.Tuple:
			return nil
		case *wit.Record, *wit.Variant, *wit.Enum, *wit.Flags, *wit.Result, *wit.Own, *wit.Borrow:
			return im.typeDef(v, path)
		case wit.Type:
			// alias
			return im.typ(kind, path)
		}
		return im.typeDef(v, path)
	}
	im.unsupported(path, "unsupported WIT type %T", t)
	return nil
}

func (im *witImporter) wrap(ctor func(*Type) *Type, elem wit.Type, path []string) *Type {
	e := im.typ(elem, path)
	if e == nil {
		return nil
	}
	return ctor(e)
}
