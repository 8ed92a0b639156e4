package codec

import (
	"reflect"
	"sync"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/codec/internal/types"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
)

var (
	marshalerType   = reflect.TypeOf((*bytebridge.Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*bytebridge.Unmarshaler)(nil)).Elem()
)

// Compiler derives and caches codecs for Go types. A compiler is owned by
// whoever creates it; there is no process-wide cache.
type Compiler struct {
	registry *schema.Registry
	cache    sync.Map // reflect.Type -> *CompiledType
}

// NewCompiler returns a compiler resolving unions through reg. A nil
// registry is replaced by an empty one.
func NewCompiler(reg *schema.Registry) *Compiler {
	if reg == nil {
		reg = schema.NewRegistry()
	}
	return &Compiler{registry: reg}
}

// Registry returns the union registry used by the compiler.
func (c *Compiler) Registry() *schema.Registry {
	return c.registry
}

// Compile describes goType, validates the description and binds it to the
// Go memory layout. Results are cached per compiler.
func (c *Compiler) Compile(goType reflect.Type) (*CompiledType, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*CompiledType), nil
	}

	s, root, err := schema.Describe(goType, c.registry)
	if err != nil {
		return nil, err
	}
	b := &binder{
		compiler: c,
		schema:   s,
		widths:   layout.NewCalculator(s),
		active:   make(map[reflect.Type]*CompiledType),
	}
	ct, err := b.bind(goType, root, types.Check{})
	if err != nil {
		return nil, err
	}

	actual, _ := c.cache.LoadOrStore(goType, ct)
	return actual.(*CompiledType), nil
}

// Schema returns the validated description of goType.
func (c *Compiler) Schema(goType reflect.Type) (*schema.Schema, *schema.Type, error) {
	return schema.Describe(goType, c.registry)
}

type binder struct {
	compiler *Compiler
	schema   *schema.Schema
	widths   *layout.Calculator
	active   map[reflect.Type]*CompiledType
}

var primitiveKinds = map[schema.Kind]types.Kind{
	schema.KindBool:     types.KindBool,
	schema.KindU8:       types.KindU8,
	schema.KindU16:      types.KindU16,
	schema.KindU32:      types.KindU32,
	schema.KindU64:      types.KindU64,
	schema.KindI8:       types.KindI8,
	schema.KindI16:      types.KindI16,
	schema.KindI32:      types.KindI32,
	schema.KindI64:      types.KindI64,
	schema.KindF32:      types.KindF32,
	schema.KindF64:      types.KindF64,
	schema.KindString:   types.KindString,
	schema.KindDuration: types.KindDuration,
	schema.KindIsize:    types.KindIsize,
	schema.KindUsize:    types.KindUsize,
}

func (b *binder) bind(goType reflect.Type, st *schema.Type, check types.Check) (*CompiledType, error) {
	ct := &CompiledType{
		GoType:   goType,
		GoSize:   goType.Size(),
		Schema:   st,
		MinWidth: b.widths.MinWidth(st),
	}

	switch st.Kind {
	case schema.KindNonZero:
		ct.Kind = primitiveKinds[st.Elem.Kind]
		ct.NonZero = true
		ct.Check = check
		ct.Check.NonZero = true
		return ct, nil

	case schema.KindList:
		elem, err := b.bind(goType.Elem(), st.Elem, types.Check{})
		if err != nil {
			return nil, err
		}
		ct.Kind, ct.Elem = types.KindList, elem
		return ct, nil

	case schema.KindArray:
		elem, err := b.bind(goType.Elem(), st.Elem, types.Check{})
		if err != nil {
			return nil, err
		}
		ct.Kind, ct.Elem, ct.Len = types.KindArray, elem, st.Len
		return ct, nil

	case schema.KindMap:
		key, err := b.bind(goType.Key(), st.Key, types.Check{})
		if err != nil {
			return nil, err
		}
		val, err := b.bind(goType.Elem(), st.Elem, types.Check{})
		if err != nil {
			return nil, err
		}
		ct.Kind, ct.Key, ct.Elem = types.KindMap, key, val
		return ct, nil

	case schema.KindOption:
		// constraints apply to the value when present
		elem, err := b.bind(goType.Elem(), st.Elem, check)
		if err != nil {
			return nil, err
		}
		ct.Kind, ct.Elem = types.KindOption, elem
		return ct, nil

	case schema.KindRef:
		return b.bindRef(goType, st, ct)
	}

	k, ok := primitiveKinds[st.Kind]
	if !ok {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			GoType(goType.String()).
			SchemaType(st.String()).
			Build()
	}
	ct.Kind = k
	ct.Check = check
	return ct, nil
}

func (b *binder) bindRef(goType reflect.Type, st *schema.Type, ct *CompiledType) (*CompiledType, error) {
	if existing, ok := b.active[goType]; ok {
		return existing, nil
	}
	td := b.schema.Lookup(st.Ref)
	if td == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnknownType).
			GoType(goType.String()).
			SchemaType(st.Ref).
			Build()
	}
	ct.Name = td.Name
	b.active[goType] = ct

	if td.Kind == schema.DefUnion {
		ct.Kind = types.KindUnion
		variants, _ := b.compiler.registry.Variants(goType)
		ct.Cases = make([]types.Case, len(td.Variants))
		for i, v := range td.Variants {
			rec := &CompiledType{
				GoType: variants[i],
				GoSize: variants[i].Size(),
				Name:   td.Name + v.Name,
				Kind:   types.KindRecord,
			}
			if err := b.bindFields(variants[i], v.Fields, rec); err != nil {
				return nil, errors.Prefix(err, v.Name)
			}
			ct.Cases[i] = types.Case{Name: v.Name, Type: rec}
		}
		return ct, nil
	}

	if goType.Kind() != reflect.Interface && goType.Implements(marshalerType) && reflect.PointerTo(goType).Implements(unmarshalerType) {
		ct.Kind = types.KindCustom
		return ct, nil
	}
	ct.Kind = types.KindRecord
	if err := b.bindFields(goType, td.Fields, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// bindFields pairs described fields with struct fields. Describe skips
// fields tagged bb:"-", so the same filter is applied here.
func (b *binder) bindFields(goType reflect.Type, fields []*schema.Field, ct *CompiledType) error {
	ct.Fields = make([]types.Field, 0, len(fields))
	next := 0
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if sf.Tag.Get("bb") == "-" {
			continue
		}
		if next >= len(fields) {
			break
		}
		f := fields[next]
		next++

		check := types.Check{
			Range:   f.Constraints.Range,
			NonZero: f.Constraints.NonZero,
			Natural: f.Constraints.Natural,
		}
		ft, err := b.bind(sf.Type, f.Type, check)
		if err != nil {
			return errors.Prefix(err, f.Name)
		}
		ct.Fields = append(ct.Fields, types.Field{
			Type:     ft,
			Name:     f.Name,
			GoName:   sf.Name,
			GoOffset: sf.Offset,
		})
	}
	if len(ct.Fields) != len(fields) {
		return errors.New(errors.PhaseCompile, errors.KindSchemaMismatch).
			GoType(goType.String()).
			Detail("struct has %d encodable fields, description has %d", len(ct.Fields), len(fields)).
			Build()
	}
	return nil
}
