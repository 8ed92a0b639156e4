// Package golang generates Go types with hand-unrolled ByteBridge codecs.
//
// Every record becomes a struct with value-receiver EncodeByteBridge and
// Validate methods and a pointer-receiver DecodeByteBridge. Every union
// becomes a sealed interface, one struct per variant and a DecodeX
// function. A variant encodes its own discriminant, and its
// DecodeByteBridge rejects any other. The output depends only on the
// bytebridge root and errors packages, and frames values exactly as the
// reflection codec does.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/gen"
	"github.com/wippyai/bytebridge/internal/abi"
	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
)

const (
	rootImport   = "github.com/wippyai/bytebridge"
	errorsImport = "github.com/wippyai/bytebridge/errors"
)

// Options configures the Go target.
type Options struct {
	// Package overrides the schema's package name.
	Package string
	// File is the output file name. Defaults to "<package>_bytebridge.go".
	File string
}

// Target emits one Go source file per schema.
type Target struct {
	opts Options
}

func New(opts Options) *Target {
	return &Target{opts: opts}
}

func (t *Target) Name() string { return "go" }

// Generate validates s and renders it as a gofmt-formatted Go file.
func (t *Target) Generate(s *schema.Schema) ([]gen.File, error) {
	if s == nil {
		return nil, errors.NilPointer(errors.PhaseGenerate, nil, "*schema.Schema")
	}
	pkg := t.opts.Package
	if pkg == "" {
		pkg = s.Package
	}
	if !token.IsIdentifier(pkg) || token.IsKeyword(pkg) {
		return nil, errors.Generation(errors.KindInvalidName, nil, "%q is not a valid Go package name", pkg)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	fp, err := s.Fingerprint()
	if err != nil {
		return nil, err
	}

	e := newEmitter(s)
	for _, td := range s.Types {
		if err := e.typeDef(td); err != nil {
			return nil, err
		}
	}

	src, err := format.Source(e.file(pkg, fp))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "generated Go source does not parse")
	}
	name := t.opts.File
	if name == "" {
		name = pkg + "_bytebridge.go"
	}
	gen.Logger().Debug("rendered go source", zap.String("file", name), zap.Int("bytes", len(src)))
	return []gen.File{{Path: name, Content: src}}, nil
}

type emitter struct {
	schema  *schema.Schema
	widths  *layout.Calculator
	imports map[string]bool
	idents  map[string]string
	body    bytes.Buffer
}

func newEmitter(s *schema.Schema) *emitter {
	return &emitter{
		schema:  s,
		widths:  layout.NewCalculator(s),
		imports: make(map[string]bool),
		idents:  map[string]string{"SchemaFingerprint": "bytebridge"},
	}
}

func (e *emitter) use(path string) { e.imports[path] = true }

func (e *emitter) p(format string, args ...any) {
	fmt.Fprintf(&e.body, format, args...)
	e.body.WriteByte('\n')
}

// claim reserves a package-level identifier.
func (e *emitter) claim(ident, owner string) error {
	if prev, ok := e.idents[ident]; ok {
		return errors.Generation(errors.KindDuplicateName, []string{owner},
			"generated identifier %s collides with one generated for %s", ident, prev)
	}
	e.idents[ident] = owner
	return nil
}

func (e *emitter) file(pkg string, fp schema.Fingerprint) []byte {
	var std, mod []string
	for p := range e.imports {
		if strings.Contains(p, ".") {
			mod = append(mod, p)
		} else {
			std = append(std, p)
		}
	}
	sort.Strings(std)
	sort.Strings(mod)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by bytebridge. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if len(std)+len(mod) > 0 {
		b.WriteString("import (\n")
		for _, p := range std {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
		if len(std) > 0 && len(mod) > 0 {
			b.WriteByte('\n')
		}
		for _, p := range mod {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
		b.WriteString(")\n\n")
	}
	b.WriteString("// SchemaFingerprint identifies the schema this file was generated from.\n")
	fmt.Fprintf(&b, "const SchemaFingerprint = %q\n\n", fp.String())
	b.Write(e.body.Bytes())
	return b.Bytes()
}

func (e *emitter) docs(ind, docs string) {
	if docs == "" {
		return
	}
	for _, line := range strings.Split(docs, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			e.p("%s//", ind)
			continue
		}
		e.p("%s// %s", ind, line)
	}
}

// record is a struct to emit: a record definition or one union variant.
type record struct {
	name   string
	docs   string
	union  string
	fields []*schema.Field
	disc   int
	count  int // variants in union
}

func (e *emitter) typeDef(td *schema.TypeDef) error {
	e.use(rootImport)
	if td.Kind == schema.DefUnion {
		return e.union(td)
	}
	return e.record(record{name: td.Name, docs: td.Docs, fields: td.Fields})
}

func (e *emitter) record(r record) error {
	if err := e.claim(r.name, r.name); err != nil {
		return err
	}
	names := make([]string, len(r.fields))
	seen := make(map[string]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = schema.CamelCase(f.Name)
		if prev, ok := seen[names[i]]; ok {
			return errors.Generation(errors.KindDuplicateName, []string{r.name, f.Name},
				"fields %s and %s both map to Go name %s", prev, f.Name, names[i])
		}
		seen[names[i]] = f.Name
	}

	if r.docs != "" {
		e.docs("", r.docs)
	} else if r.union != "" {
		e.p("// %s is a variant of %s.", r.name, r.union)
	}
	e.p("type %s struct {", r.name)
	for i, f := range r.fields {
		e.docs("\t", f.Docs)
		e.p("\t%s %s%s", names[i], e.goType(f.Type), fieldTag(f, names[i]))
	}
	e.p("}\n")

	if err := e.constructor(r, names); err != nil {
		return err
	}
	e.encodeMethod(r, names)
	if r.union != "" {
		e.variantDecodeMethod(r)
	}
	e.decodeMethod(r, names)
	e.validateMethod(r, names)
	if r.union != "" {
		e.p("func (%s) is%s() {}\n", r.name, r.union)
	}
	return nil
}

// fieldTag renders the bb tag that makes schema.Describe recover the
// field's name and constraints from the generated struct.
func fieldTag(f *schema.Field, goName string) string {
	var parts []string
	if schema.SnakeCase(goName) != f.Name {
		parts = append(parts, "name="+f.Name)
	}
	c := f.Constraints
	if c.NonZero || f.Type.Unwrap().Kind == schema.KindNonZero {
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
	if len(parts) == 0 {
		return ""
	}
	return " `bb:" + strconv.Quote(strings.Join(parts, ",")) + "`"
}

func (e *emitter) constructor(r record, names []string) error {
	var inits []string
	for i, f := range r.fields {
		if f.Default == nil || f.Default.Kind == schema.LitNull {
			continue
		}
		inits = append(inits, fmt.Sprintf("%s: %s,", names[i], e.defaultExpr(f.Type, f.Default)))
	}
	if len(inits) == 0 {
		return nil
	}
	ctor := "New" + r.name
	if err := e.claim(ctor, r.name); err != nil {
		return err
	}
	e.p("// %s returns a %s with its declared defaults.", ctor, r.name)
	e.p("func %s() %s {", ctor, r.name)
	e.p("\treturn %s{", r.name)
	for _, in := range inits {
		e.p("\t\t%s", in)
	}
	e.p("\t}")
	e.p("}\n")
	return nil
}

func (e *emitter) defaultExpr(t *schema.Type, lit *schema.Literal) string {
	if t.Kind == schema.KindOption {
		return fmt.Sprintf("bytebridge.Ptr[%s](%s)", e.goType(t.Elem), e.defaultExpr(t.Elem, lit))
	}
	switch lit.Kind {
	case schema.LitString:
		return strconv.Quote(lit.Raw)
	case schema.LitBool:
		return lit.Raw
	}
	if t.Kind == schema.KindDuration {
		e.use("time")
		return lit.Raw + " * time.Second"
	}
	return lit.Raw
}

func (e *emitter) encodeMethod(r record, names []string) {
	e.p("// EncodeByteBridge writes v in declaration order.")
	if r.union != "" {
		e.p("// The variant discriminant comes first.")
	}
	if hasUnion(e.schema, r.fields) {
		e.p("// It panics if a union field is nil; call Validate first.")
	}
	e.p("func (v %s) EncodeByteBridge(s bytebridge.Sink) {", r.name)
	if r.union != "" {
		e.p("\ts.WriteVariant(%d)", r.disc)
	}
	for i, f := range r.fields {
		e.encode(f.Type, "v."+names[i], 0, "\t")
	}
	e.p("}\n")
}

func hasUnion(s *schema.Schema, fields []*schema.Field) bool {
	for _, f := range fields {
		t := f.Type.Unwrap()
		if t.Kind != schema.KindRef {
			continue
		}
		if td := s.Lookup(t.Ref); td != nil && td.Kind == schema.DefUnion && f.Type.Kind != schema.KindOption {
			return true
		}
	}
	return false
}

func local(name string, depth int) string { return name + strconv.Itoa(depth) }

func (e *emitter) encode(t *schema.Type, expr string, depth int, ind string) {
	switch t.Kind {
	case schema.KindNonZero:
		e.encode(t.Elem, expr, depth, ind)
	case schema.KindDuration:
		e.p("%sbytebridge.WriteDuration(s, %s)", ind, expr)
	case schema.KindIsize:
		e.p("%sbytebridge.WriteInt(s, %s)", ind, expr)
	case schema.KindUsize:
		e.p("%sbytebridge.WriteUint(s, %s)", ind, expr)
	case schema.KindList, schema.KindArray:
		el := local("e", depth)
		e.p("%ss.WriteLen(len(%s))", ind, expr)
		e.p("%sfor _, %s := range %s {", ind, el, expr)
		e.encode(t.Elem, el, depth+1, ind+"\t")
		e.p("%s}", ind)
	case schema.KindMap:
		e.use("sort")
		keys, k := local("keys", depth), local("k", depth)
		e.p("%s{", ind)
		e.p("%s\t%s := make([]%s, 0, len(%s))", ind, keys, e.goType(t.Key), expr)
		e.p("%s\tfor %s := range %s {", ind, k, expr)
		e.p("%s\t\t%s = append(%s, %s)", ind, keys, keys, k)
		e.p("%s\t}", ind)
		less := fmt.Sprintf("%s[i] < %s[j]", keys, keys)
		if t.Key.Kind == schema.KindBool {
			less = fmt.Sprintf("!%s[i] && %s[j]", keys, keys)
		}
		e.p("%s\tsort.Slice(%s, func(i, j int) bool { return %s })", ind, keys, less)
		e.p("%s\ts.WriteMapLen(len(%s))", ind, expr)
		e.p("%s\tfor _, %s := range %s {", ind, k, keys)
		e.encode(t.Key, k, depth+1, ind+"\t\t")
		e.encode(t.Elem, paren(expr)+"["+k+"]", depth+1, ind+"\t\t")
		e.p("%s\t}", ind)
		e.p("%s}", ind)
	case schema.KindOption:
		e.p("%sif %s != nil {", ind, expr)
		e.p("%s\ts.WriteOptionTag(true)", ind)
		e.encode(t.Elem, "*"+expr, depth+1, ind+"\t")
		e.p("%s} else {", ind)
		e.p("%s\ts.WriteOptionTag(false)", ind)
		e.p("%s}", ind)
	case schema.KindRef:
		e.p("%s%s.EncodeByteBridge(s)", ind, paren(expr))
	default:
		e.p("%ss.%s(%s)", ind, sinkMethod[t.Kind], expr)
	}
}

func (e *emitter) decodeMethod(r record, names []string) {
	method := "DecodeByteBridge"
	if r.union != "" {
		method = "decodeFields"
		e.p("// decodeFields reads the fields of %s; the discriminant is already consumed.", r.name)
	} else {
		e.p("// DecodeByteBridge reads a %s from src. v is only written when", r.name)
		e.p("// every field decodes.")
	}
	e.p("func (v *%s) %s(src bytebridge.Source) error {", r.name, method)
	if len(r.fields) == 0 {
		e.p("\t*v = %s{}", r.name)
		e.p("\treturn nil")
		e.p("}\n")
		return
	}
	e.p("\tvar (")
	e.p("\t\tout %s", r.name)
	e.p("\t\terr error")
	e.p("\t)")
	for i, f := range r.fields {
		e.decode(f.Type, "out."+names[i], f.Constraints, []string{strconv.Quote(f.Name)}, 0, "\t")
	}
	e.p("\t*v = out")
	e.p("\treturn nil")
	e.p("}\n")
}

// variantDecodeMethod emits the inverse of a variant's EncodeByteBridge:
// the discriminant must select this variant.
func (e *emitter) variantDecodeMethod(r record) {
	e.use(errorsImport)
	variant := strings.TrimPrefix(r.name, r.union)
	e.p("// DecodeByteBridge reads a %s written by its EncodeByteBridge. A", r.name)
	e.p("// discriminant selecting another %s variant is a type mismatch.", r.union)
	e.p("func (v *%s) DecodeByteBridge(src bytebridge.Source) error {", r.name)
	e.p("\tdisc, err := src.ReadVariant()")
	e.p("\tif err != nil {")
	e.p("\t\treturn err")
	e.p("\t}")
	e.p("\tswitch {")
	e.p("\tcase int(disc) >= %d:", r.count)
	e.p("\t\treturn errors.UnknownVariant(nil, %q, disc, %d)", r.union, r.count)
	e.p("\tcase disc != %d:", r.disc)
	e.p("\t\treturn errors.New(errors.PhaseDecode, errors.KindTypeMismatch).")
	e.p("\t\t\tGoType(%q).", r.name)
	e.p("\t\t\tSchemaType(%q).", r.union)
	e.p("\t\t\tValue(disc).")
	e.p("\t\t\tBuild()")
	e.p("\t}")
	e.p("\treturn errors.Prefix(v.decodeFields(src), %q)", variant)
	e.p("}\n")
}

func (e *emitter) fail(ind string, path []string) {
	e.use(errorsImport)
	e.p("%s\treturn errors.Prefix(err, %s)", ind, strings.Join(path, ", "))
}

func extend(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

func (e *emitter) indexSeg(i string) string {
	e.use("strconv")
	return `"[" + strconv.Itoa(` + i + `) + "]"`
}

func (e *emitter) decode(t *schema.Type, target string, c schema.Constraints, path []string, depth int, ind string) {
	switch t.Kind {
	case schema.KindList:
		n, hint, i, el := local("n", depth), local("c", depth), local("i", depth), local("e", depth)
		in := ind + "\t"
		e.p("%s{", ind)
		e.p("%svar %s, %s int", in, n, hint)
		e.p("%sif %s, %s, err = bytebridge.ReadSeqLen(src, %d); err != nil {", in, n, hint, e.widths.MinWidth(t.Elem))
		e.fail(in, path)
		e.p("%s}", in)
		e.p("%s%s = make(%s, 0, %s)", in, target, e.goType(t), hint)
		e.p("%sfor %s := 0; %s < %s; %s++ {", in, i, i, n, i)
		e.p("%s\tvar %s %s", in, el, e.goType(t.Elem))
		e.decode(t.Elem, el, schema.Constraints{}, extend(path, e.indexSeg(i)), depth+1, in+"\t")
		e.p("%s\t%s = append(%s, %s)", in, target, target, el)
		e.p("%s}", in)
		e.p("%s}", ind)
	case schema.KindArray:
		i := local("i", depth)
		e.p("%sif err = bytebridge.ReadArrayLen(src, %d); err != nil {", ind, t.Len)
		e.fail(ind, path)
		e.p("%s}", ind)
		e.p("%sfor %s := range %s {", ind, i, target)
		e.decode(t.Elem, target+"["+i+"]", schema.Constraints{}, extend(path, e.indexSeg(i)), depth+1, ind+"\t")
		e.p("%s}", ind)
	case schema.KindMap:
		n, hint, i := local("n", depth), local("c", depth), local("i", depth)
		k, el := local("k", depth), local("e", depth)
		width := abi.SaturatingAdd(e.widths.MinWidth(t.Key), e.widths.MinWidth(t.Elem))
		seg := e.indexSeg(i)
		in := ind + "\t"
		e.p("%s{", ind)
		e.p("%svar %s, %s int", in, n, hint)
		e.p("%sif %s, %s, err = bytebridge.ReadMapLen(src, %d); err != nil {", in, n, hint, width)
		e.fail(in, path)
		e.p("%s}", in)
		e.p("%s%s = make(%s, %s)", in, target, e.goType(t), hint)
		e.p("%sfor %s := 0; %s < %s; %s++ {", in, i, i, n, i)
		e.p("%s\tvar %s %s", in, k, e.goType(t.Key))
		e.p("%s\tvar %s %s", in, el, e.goType(t.Elem))
		e.decode(t.Key, k, schema.Constraints{}, extend(path, seg), depth+1, in+"\t")
		e.decode(t.Elem, el, schema.Constraints{}, extend(path, seg), depth+1, in+"\t")
		e.p("%s\t%s[%s] = %s", in, target, k, el)
		e.p("%s}", in)
		e.p("%s}", ind)
	case schema.KindOption:
		present, o := local("p", depth), local("o", depth)
		in := ind + "\t"
		e.p("%s{", ind)
		e.p("%svar %s bool", in, present)
		e.p("%sif %s, err = src.ReadOptionTag(); err != nil {", in, present)
		e.fail(in, path)
		e.p("%s}", in)
		e.p("%sif %s {", in, present)
		e.p("%s\tvar %s %s", in, o, e.goType(t.Elem))
		e.decode(t.Elem, o, c, path, depth+1, in+"\t")
		e.p("%s\t%s = &%s", in, target, o)
		e.p("%s}", in)
		e.p("%s}", ind)
	case schema.KindRef:
		if td := e.schema.Lookup(t.Ref); td != nil && td.Kind == schema.DefUnion {
			e.p("%sif %s, err = Decode%s(src); err != nil {", ind, target, t.Ref)
		} else {
			e.p("%sif err = %s.DecodeByteBridge(src); err != nil {", ind, target)
		}
		e.fail(ind, path)
		e.p("%s}", ind)
	default:
		e.p("%sif %s, err = %s; err != nil {", ind, target, e.reader(t))
		e.fail(ind, path)
		e.p("%s}", ind)
		for _, check := range e.checks(t, target, c, false) {
			e.p("%sif err = %s; err != nil {", ind, check)
			e.fail(ind, path)
			e.p("%s}", ind)
		}
	}
}

func (e *emitter) reader(t *schema.Type) string {
	switch t.Kind {
	case schema.KindNonZero:
		return "bytebridge." + nonZeroReader[t.Elem.Kind] + "(src)"
	case schema.KindDuration:
		return "bytebridge.ReadDuration(src)"
	case schema.KindIsize:
		return "bytebridge.ReadInt(src)"
	case schema.KindUsize:
		return "bytebridge.ReadUint(src)"
	}
	return "src." + sourceMethod[t.Kind] + "()"
}

// checks returns the constraint calls for a scalar. The nonzero check of a
// nonzero<> type is part of its reader and only repeated when validating.
func (e *emitter) checks(t *schema.Type, expr string, c schema.Constraints, validating bool) []string {
	var out []string
	if c.NonZero || (validating && t.Kind == schema.KindNonZero) {
		out = append(out, "bytebridge.CheckNonZero("+expr+")")
	}
	if c.Natural {
		out = append(out, "bytebridge.CheckNatural("+expr+")")
	}
	if r := c.Range; r != nil {
		k := t.Scalar()
		out = append(out, fmt.Sprintf("bytebridge.CheckRange(%s, %s, %s)",
			expr, boundLiteral(k, r.Min, false), boundLiteral(k, r.Max, true)))
	}
	return out
}

func (e *emitter) validateMethod(r record, names []string) {
	e.p("// Validate checks the declared constraints of v and every nested value.")
	e.p("func (v %s) Validate() error {", r.name)
	for i, f := range r.fields {
		e.validate(f.Type, "v."+names[i], f.Constraints, []string{strconv.Quote(f.Name)}, 0, "\t")
	}
	e.p("\treturn nil")
	e.p("}\n")
}

// needsValidation reports whether a value of type t can fail Validate.
func needsValidation(t *schema.Type, c schema.Constraints) bool {
	switch t.Kind {
	case schema.KindOption:
		return needsValidation(t.Elem, c)
	case schema.KindList, schema.KindArray:
		return needsValidation(t.Elem, schema.Constraints{})
	case schema.KindMap:
		return needsValidation(t.Key, schema.Constraints{}) || needsValidation(t.Elem, schema.Constraints{})
	case schema.KindRef, schema.KindNonZero:
		return true
	}
	return c.NonZero || c.Natural || c.Range != nil
}

func (e *emitter) validate(t *schema.Type, expr string, c schema.Constraints, path []string, depth int, ind string) {
	if !needsValidation(t, c) {
		return
	}
	switch t.Kind {
	case schema.KindOption:
		e.p("%sif %s != nil {", ind, expr)
		e.validate(t.Elem, "*"+expr, c, path, depth+1, ind+"\t")
		e.p("%s}", ind)
	case schema.KindList, schema.KindArray:
		i, el := local("i", depth), local("e", depth)
		e.p("%sfor %s, %s := range %s {", ind, i, el, expr)
		e.validate(t.Elem, el, schema.Constraints{}, extend(path, e.indexSeg(i)), depth+1, ind+"\t")
		e.p("%s}", ind)
	case schema.KindMap:
		k, el := local("k", depth), local("e", depth)
		e.use("fmt")
		seg := `"{" + fmt.Sprint(` + k + `) + "}"`
		if needsValidation(t.Elem, schema.Constraints{}) {
			e.p("%sfor %s, %s := range %s {", ind, k, el, expr)
		} else {
			e.p("%sfor %s := range %s {", ind, k, expr)
		}
		e.validate(t.Key, k, schema.Constraints{}, extend(path, seg), depth+1, ind+"\t")
		e.validate(t.Elem, el, schema.Constraints{}, extend(path, seg), depth+1, ind+"\t")
		e.p("%s}", ind)
	case schema.KindRef:
		if td := e.schema.Lookup(t.Ref); td != nil && td.Kind == schema.DefUnion {
			e.use(errorsImport)
			e.p("%sif %s == nil {", ind, expr)
			e.p("%s\treturn errors.NilPointer(errors.PhaseValidate, []string{%s}, %q)", ind, strings.Join(path, ", "), t.Ref)
			e.p("%s}", ind)
		}
		e.p("%sif err := %s.Validate(); err != nil {", ind, paren(expr))
		e.fail(ind, path)
		e.p("%s}", ind)
	default:
		for _, check := range e.checks(t, expr, c, true) {
			e.p("%sif err := %s; err != nil {", ind, check)
			e.fail(ind, path)
			e.p("%s}", ind)
		}
	}
}

func (e *emitter) union(td *schema.TypeDef) error {
	if err := e.claim(td.Name, td.Name); err != nil {
		return err
	}
	variants := make([]string, len(td.Variants))
	for i, v := range td.Variants {
		variants[i] = td.Name + v.Name
	}

	if td.Docs != "" {
		e.docs("", td.Docs)
	} else {
		e.p("// %s is one of %s.", td.Name, strings.Join(variants, ", "))
	}
	e.p("type %s interface {", td.Name)
	e.p("\tbytebridge.Marshaler")
	e.p("\tValidate() error")
	e.p("\tis%s()", td.Name)
	e.p("}\n")

	decode := "Decode" + td.Name
	if err := e.claim(decode, td.Name); err != nil {
		return err
	}
	e.use(errorsImport)
	e.p("// %s reads a %s discriminant and the fields of the selected variant.", decode, td.Name)
	e.p("func %s(src bytebridge.Source) (%s, error) {", decode, td.Name)
	e.p("\tdisc, err := src.ReadVariant()")
	e.p("\tif err != nil {")
	e.p("\t\treturn nil, err")
	e.p("\t}")
	e.p("\tswitch disc {")
	for i, v := range td.Variants {
		e.p("\tcase %d:", i)
		e.p("\t\tvar v %s", variants[i])
		e.p("\t\tif err = v.decodeFields(src); err != nil {")
		e.p("\t\t\treturn nil, errors.Prefix(err, %q)", v.Name)
		e.p("\t\t}")
		e.p("\t\treturn v, nil")
	}
	e.p("\t}")
	e.p("\treturn nil, errors.UnknownVariant(nil, %q, disc, %d)", td.Name, len(td.Variants))
	e.p("}\n")

	for i, v := range td.Variants {
		err := e.record(record{
			name:   variants[i],
			docs:   v.Docs,
			union:  td.Name,
			fields: v.Fields,
			disc:   i,
			count:  len(td.Variants),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
