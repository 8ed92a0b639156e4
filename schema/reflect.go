package schema

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/wippyai/bytebridge/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Registry maps sealed interfaces to their ordered variant structs. The
// position of a variant in its registration is its discriminant.
type Registry struct {
	unions map[reflect.Type][]reflect.Type
	index  map[reflect.Type]map[reflect.Type]int
	mu     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		unions: make(map[reflect.Type][]reflect.Type),
		index:  make(map[reflect.Type]map[reflect.Type]int),
	}
}

// Register declares iface as a union over variants, in discriminant order.
// Every variant must be a struct type implementing iface.
func (r *Registry) Register(iface reflect.Type, variants ...reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			GoType(typeString(iface)).
			Detail("union must be an interface type").
			Build()
	}
	path := []string{iface.Name()}
	if len(variants) > MaxVariants {
		return errors.Generation(errors.KindTooManyVariants, path,
			"union %s declares %d variants, at most %d fit a one-byte discriminant", iface.Name(), len(variants), MaxVariants)
	}

	index := make(map[reflect.Type]int, len(variants))
	for i, v := range variants {
		if v == nil || v.Kind() != reflect.Struct {
			return errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
				Path(path...).
				GoType(typeString(v)).
				Detail("variant must be a struct type").
				Build()
		}
		if !v.Implements(iface) {
			return errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
				Path(path...).
				GoType(v.String()).
				Detail("%s does not implement %s", v, iface).
				Build()
		}
		if _, dup := index[v]; dup {
			return errors.Generation(errors.KindDuplicateName, path, "variant %s registered twice", v.Name())
		}
		index[v] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.unions[iface] = append([]reflect.Type(nil), variants...)
	r.index[iface] = index
	return nil
}

// RegisterUnion registers the interface T with one zero value per variant:
//
//	schema.RegisterUnion[Shape](reg, Circle{}, Square{})
func RegisterUnion[T any](r *Registry, variants ...T) error {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		types[i] = reflect.TypeOf(v)
	}
	return r.Register(iface, types...)
}

// Variants returns the ordered variants of a registered union.
func (r *Registry) Variants(iface reflect.Type) ([]reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.unions[iface]
	return v, ok
}

// Index returns the discriminant of variant within iface.
func (r *Registry) Index(iface, variant reflect.Type) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[iface][variant]
	return i, ok
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Describe derives a structural description from a Go type. Named structs
// become records, registered interfaces become unions. Field tags refine
// the description:
//
//	Port   uint16        `bb:"nonzero"`
//	Level  int32         `bb:"range=1..10,default=3"`
//	Delta  float64       `bb:"natural"`
//	Mask   []uint8       `bb:"unsigned"`
//	Name   string        `bb:"name=display_name,doc=Shown to users"`
//
// The returned schema contains every definition reachable from t and has
// been validated.
func Describe(t reflect.Type, reg *Registry) (*Schema, *Type, error) {
	if t == nil {
		return nil, nil, errors.NilPointer(errors.PhaseGenerate, nil, "reflect.Type")
	}
	if reg == nil {
		reg = NewRegistry()
	}
	d := &describer{
		reg:    reg,
		schema: &Schema{},
		names:  make(map[reflect.Type]string),
		owners: make(map[string]reflect.Type),
	}
	root := d.describe(t, nil)
	if len(d.errs) > 0 {
		return nil, nil, d.errs
	}
	if err := d.schema.Validate(); err != nil {
		return nil, nil, err
	}
	return d.schema, root, nil
}

type describer struct {
	reg    *Registry
	schema *Schema
	names  map[reflect.Type]string
	owners map[string]reflect.Type
	errs   errors.List
}

func (d *describer) describe(t reflect.Type, path []string) *Type {
	if t == durationType {
		return Prim(KindDuration)
	}
	switch t.Kind() {
	case reflect.Bool:
		return Prim(KindBool)
	case reflect.Uint8:
		return Prim(KindU8)
	case reflect.Uint16:
		return Prim(KindU16)
	case reflect.Uint32:
		return Prim(KindU32)
	case reflect.Uint64:
		return Prim(KindU64)
	case reflect.Int8:
		return Prim(KindI8)
	case reflect.Int16:
		return Prim(KindI16)
	case reflect.Int32:
		return Prim(KindI32)
	case reflect.Int64:
		return Prim(KindI64)
	case reflect.Int:
		return Prim(KindIsize)
	case reflect.Uint:
		return Prim(KindUsize)
	case reflect.Float32:
		return Prim(KindF32)
	case reflect.Float64:
		return Prim(KindF64)
	case reflect.String:
		return Prim(KindString)
	case reflect.Slice:
		return List(d.describe(t.Elem(), path))
	case reflect.Array:
		return Array(d.describe(t.Elem(), path), t.Len())
	case reflect.Map:
		return Map(d.describe(t.Key(), path), d.describe(t.Elem(), path))
	case reflect.Pointer:
		return Option(d.describe(t.Elem(), path))
	case reflect.Struct:
		return d.record(t, path)
	case reflect.Interface:
		if _, ok := d.reg.Variants(t); ok {
			return d.union(t, path)
		}
	}
	d.errs = append(d.errs, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("no wire representation for %s", t.Kind()).
		Build())
	return Named(t.String())
}

// declare reserves the schema name for t. It reports false when t has
// already been described.
func (d *describer) declare(t reflect.Type, name string, path []string) bool {
	if _, ok := d.names[t]; ok {
		return false
	}
	if prev, ok := d.owners[name]; ok && prev != t {
		d.errs = append(d.errs, errors.Generation(errors.KindDuplicateName, path,
			"%s and %s both describe type %s", prev, t, name))
	}
	d.names[t] = name
	d.owners[name] = t
	return true
}

func (d *describer) record(t reflect.Type, path []string) *Type {
	name := t.Name()
	if name == "" {
		d.errs = append(d.errs, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("anonymous struct types cannot be described").
			Build())
		return Named("struct")
	}
	if !d.declare(t, name, path) {
		return Named(d.names[t])
	}
	td := &TypeDef{Name: name, Kind: DefRecord}
	if strings.Contains(name, "[") {
		td.Params = []string{name[strings.Index(name, "[")+1 : len(name)-1]}
	}
	d.schema.Types = append(d.schema.Types, td)
	td.Fields = d.fields(t, []string{name})
	return Named(name)
}

func (d *describer) union(t reflect.Type, path []string) *Type {
	name := t.Name()
	if !d.declare(t, name, path) {
		return Named(d.names[t])
	}
	td := &TypeDef{Name: name, Kind: DefUnion}
	d.schema.Types = append(d.schema.Types, td)

	variants, _ := d.reg.Variants(t)
	for _, vt := range variants {
		vname := strings.TrimPrefix(vt.Name(), name)
		if vname == "" {
			vname = vt.Name()
		}
		td.Variants = append(td.Variants, &Variant{
			Name:   vname,
			Fields: d.fields(vt, []string{name, vname}),
		})
	}
	return Named(name)
}

func (d *describer) fields(t reflect.Type, path []string) []*Field {
	fields := make([]*Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := parseTag(sf.Tag.Get("bb"))
		if tag.skip {
			continue
		}

		f := &Field{
			Name:        tag.name,
			Docs:        tag.doc,
			Default:     tag.def,
			Constraints: tag.constraints,
			Defaults:    tag.defaults,
			Positional:  sf.Anonymous,
			Private:     !sf.IsExported() && !sf.Anonymous,
		}
		if f.Name == "" {
			f.Name = SnakeCase(sf.Name)
		}

		fpath := append(append([]string(nil), path...), f.Name)
		f.Type = d.describe(sf.Type, fpath)
		if tag.constraints.NonZero {
			f.Type = nonZeroOf(f.Type)
			f.Constraints.NonZero = f.Type.Unwrap().Kind != KindNonZero
		}
		f.TypeExpr = f.Type.String()
		fields = append(fields, f)
	}
	return fields
}

// nonZeroOf moves an unsigned scalar, possibly under options, into nonzero<>.
func nonZeroOf(t *Type) *Type {
	switch {
	case t.Kind == KindOption:
		return Option(nonZeroOf(t.Elem))
	case t.Kind.IsUnsigned() && t.Kind != KindUsize:
		return NonZero(t)
	}
	return t
}

type fieldTag struct {
	def         *Literal
	name        string
	doc         string
	constraints Constraints
	defaults    int
	skip        bool
}

func parseTag(tag string) fieldTag {
	var ft fieldTag
	if tag == "-" {
		ft.skip = true
		return ft
	}
	for tag != "" {
		var part string
		// doc= consumes the rest so descriptions may contain commas
		if strings.HasPrefix(tag, "doc=") {
			part, tag = tag, ""
		} else {
			part, tag, _ = strings.Cut(tag, ",")
		}
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "name":
			ft.name = val
		case "doc":
			ft.doc = val
		case "default":
			ft.defaults++
			if ft.def == nil {
				ft.def = ParseLiteral(val)
			}
		case "nonzero":
			ft.constraints.NonZero = true
		case "natural":
			ft.constraints.Natural = true
		case "unsigned":
			ft.constraints.UnsignedArray = true
		case "range":
			if r, err := ParseRange(val); err == nil {
				ft.constraints.Range = r
			} else {
				ft.constraints.Range = &Range{Min: 1, Max: 0}
			}
		}
	}
	return ft
}

// SnakeCase converts a Go identifier to snake_case, keeping initialisms
// together: UserID -> user_id, HTTPPort -> http_port.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts snake_case or kebab-case to CamelCase.
func CamelCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
