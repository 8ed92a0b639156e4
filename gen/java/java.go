// Package java generates Java classes that mirror a schema's flat framing.
//
// Records become final classes with public fields, encode/decode methods
// and toBytes/fromBytes helpers. Unions become abstract classes with one
// nested static class per variant. Three support classes implement the
// framing on little-endian ByteBuffers: ByteBridgeWriter, ByteBridgeReader
// and ByteBridgeException.
//
// Field declaration order is the wire order. Reordering fields in the
// schema changes the fingerprint and breaks every existing reader.
package java

import (
	"bytes"
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/gen"
	"github.com/wippyai/bytebridge/internal/abi"
	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
)

var packageRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)*$`)

// Options configures the Java target.
type Options struct {
	// Package is the Java package, such as "com.example.demo". Defaults to
	// the schema package.
	Package string
}

type Target struct {
	opts Options
}

func New(opts Options) *Target {
	return &Target{opts: opts}
}

func (t *Target) Name() string { return "java" }

// Generate validates s and returns one file per type plus the support
// classes, laid out in package directories.
func (t *Target) Generate(s *schema.Schema) ([]gen.File, error) {
	if s == nil {
		return nil, errors.NilPointer(errors.PhaseGenerate, nil, "*schema.Schema")
	}
	pkg := t.opts.Package
	if pkg == "" {
		pkg = s.Package
	}
	if !packageRe.MatchString(pkg) {
		return nil, errors.Generation(errors.KindInvalidName, nil, "%q is not a valid Java package name", pkg)
	}
	for _, seg := range strings.Split(pkg, ".") {
		if javaKeywords[seg] {
			return nil, errors.Generation(errors.KindReservedName, nil, "Java package %s uses the keyword %s", pkg, seg)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	fp, err := s.Fingerprint()
	if err != nil {
		return nil, err
	}
	if err := checkVariantNames(s); err != nil {
		return nil, err
	}

	dir := strings.ReplaceAll(pkg, ".", "/")
	file := func(name string, content string) gen.File {
		return gen.File{Path: path.Join(dir, name+".java"), Content: []byte(content)}
	}
	files := []gen.File{
		file("ByteBridgeWriter", fmt.Sprintf(writerTemplate, pkg)),
		file("ByteBridgeReader", fmt.Sprintf(readerTemplate, pkg)),
		file("ByteBridgeException", fmt.Sprintf(exceptionTemplate, pkg)),
		file("SchemaFingerprint", fmt.Sprintf(fingerprintTemplate, pkg, fp.String())),
	}
	for _, td := range s.Types {
		c := newClass(s, pkg)
		if td.Kind == schema.DefUnion {
			err = c.union(td)
		} else {
			err = c.record(td.Name, td.Docs, td.Fields, "", -1, "")
		}
		if err != nil {
			return nil, err
		}
		files = append(files, file(td.Name, c.source()))
	}
	gen.Logger().Debug("rendered java sources", zap.String("package", pkg), zap.Int("files", len(files)))
	return files, nil
}

// checkVariantNames rejects a variant whose nested class name would shadow
// a top-level type inside its union's class body.
func checkVariantNames(s *schema.Schema) error {
	for _, td := range s.Types {
		for _, v := range td.Variants {
			if s.Lookup(v.Name) != nil {
				return errors.Generation(errors.KindDuplicateName, []string{td.Name, v.Name},
					"variant class %s.%s would shadow type %s", td.Name, v.Name, v.Name)
			}
		}
	}
	return nil
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// class renders one top-level Java source file.
type class struct {
	schema  *schema.Schema
	widths  *layout.Calculator
	pkg     string
	imports map[string]bool
	body    bytes.Buffer
}

func newClass(s *schema.Schema, pkg string) *class {
	return &class{
		schema:  s,
		widths:  layout.NewCalculator(s),
		pkg:     pkg,
		imports: make(map[string]bool),
	}
}

func (c *class) use(imp string) { c.imports[imp] = true }

func (c *class) p(format string, args ...any) {
	fmt.Fprintf(&c.body, format, args...)
	c.body.WriteByte('\n')
}

func (c *class) source() string {
	imports := make([]string, 0, len(c.imports))
	for imp := range c.imports {
		imports = append(imports, imp)
	}
	sort.Strings(imports)

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by bytebridge. DO NOT EDIT.\n\npackage %s;\n\n", c.pkg)
	for _, imp := range imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	if len(imports) > 0 {
		b.WriteByte('\n')
	}
	b.Write(c.body.Bytes())
	return b.String()
}

func (c *class) javadoc(ind, docs string, extra ...string) {
	var lines []string
	if docs != "" {
		lines = strings.Split(strings.ReplaceAll(docs, "*/", "*&#47;"), "\n")
	}
	if len(lines) > 0 && len(extra) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, extra...)
	if len(lines) == 0 {
		return
	}
	if len(lines) == 1 {
		c.p("%s/** %s */", ind, lines[0])
		return
	}
	c.p("%s/**", ind)
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			c.p("%s *", ind)
			continue
		}
		c.p("%s * %s", ind, l)
	}
	c.p("%s */", ind)
}

// fieldName converts snake_case to lowerCamelCase.
func fieldName(name string) string {
	camel := schema.CamelCase(name)
	if camel == "" {
		return camel
	}
	return strings.ToLower(camel[:1]) + camel[1:]
}

const orderNote = "<p>Field order is the wire order; reordering fields breaks compatibility."

// record emits a record class, or a variant class nested in its union when
// union is set.
func (c *class) record(name, docs string, fields []*schema.Field, union string, disc int, ind string) error {
	names := make([]string, len(fields))
	seen := make(map[string]string, len(fields))
	for i, f := range fields {
		names[i] = fieldName(f.Name)
		if prev, ok := seen[names[i]]; ok {
			return errors.Generation(errors.KindDuplicateName, []string{name, f.Name},
				"fields %s and %s both map to Java name %s", prev, f.Name, names[i])
		}
		seen[names[i]] = f.Name
	}

	if union == "" {
		c.javadoc(ind, docs, orderNote)
		c.p("%spublic final class %s {", ind, name)
	} else {
		c.javadoc(ind, docs)
		c.p("%spublic static final class %s extends %s {", ind, name, union)
	}
	in := ind + "    "
	for i, f := range fields {
		c.javadoc(in, f.Docs)
		if init := c.initializer(f); init != "" {
			c.p("%spublic %s %s = %s;", in, c.fieldType(f), names[i], init)
		} else {
			c.p("%spublic %s %s;", in, c.fieldType(f), names[i])
		}
	}
	if len(fields) > 0 {
		c.p("")
	}

	if union != "" {
		c.p("%s@Override", in)
	}
	c.p("%spublic void encode(ByteBridgeWriter writer) {", in)
	if union != "" {
		c.p("%s    writer.writeVariant(%d);", in, disc)
	}
	for i, f := range fields {
		c.encode(f.Type, f.Constraints, "this."+names[i], 0, in+"    ")
	}
	c.p("%s}", in)
	c.p("")

	if union == "" {
		c.p("%spublic static %s decode(ByteBridgeReader reader) {", in, name)
	} else {
		c.p("%sstatic %s decodeFields(ByteBridgeReader reader) {", in, name)
	}
	c.p("%s    %s out = new %s();", in, name, name)
	if len(fields) > 0 {
		c.p("%s    String at = %s;", in, javaString(fields[0].Name))
		c.p("%s    try {", in)
		for i, f := range fields {
			if i > 0 {
				c.p("%s        at = %s;", in, javaString(f.Name))
			}
			c.decode(f.Type, f.Constraints, "out."+names[i], 0, in+"        ")
		}
		c.p("%s    } catch (ByteBridgeException e) {", in)
		c.p("%s        throw e.prefix(at);", in)
		c.p("%s    }", in)
	}
	c.p("%s    return out;", in)
	c.p("%s}", in)

	if union == "" {
		c.p("")
		c.bytesHelpers(name, in, "decode")
	}
	c.p("%s}", ind)
	return nil
}

func (c *class) bytesHelpers(name, in, decode string) {
	c.p("%spublic byte[] toBytes() {", in)
	c.p("%s    ByteBridgeWriter writer = new ByteBridgeWriter();", in)
	c.p("%s    encode(writer);", in)
	c.p("%s    return writer.toByteArray();", in)
	c.p("%s}", in)
	c.p("")
	c.p("%spublic static %s fromBytes(byte[] data) {", in, name)
	c.p("%s    ByteBridgeReader reader = new ByteBridgeReader(data);", in)
	c.p("%s    %s out = %s(reader);", in, name, decode)
	c.p("%s    reader.finish();", in)
	c.p("%s    return out;", in)
	c.p("%s}", in)
}

func (c *class) union(td *schema.TypeDef) error {
	c.javadoc("", td.Docs, orderNote)
	c.p("public abstract class %s {", td.Name)
	in := "    "
	c.p("%s%s() {", in, td.Name)
	c.p("%s}", in)
	c.p("")
	c.p("%spublic abstract void encode(ByteBridgeWriter writer);", in)
	c.p("")
	c.p("%spublic static %s decode(ByteBridgeReader reader) {", in, td.Name)
	c.p("%s    int disc = reader.readVariant();", in)
	c.p("%s    switch (disc) {", in)
	for i, v := range td.Variants {
		c.p("%s        case %d:", in, i)
		c.p("%s            try {", in)
		c.p("%s                return %s.decodeFields(reader);", in, v.Name)
		c.p("%s            } catch (ByteBridgeException e) {", in)
		c.p("%s                throw e.prefix(%s);", in, javaString(v.Name))
		c.p("%s            }", in)
	}
	c.p("%s        default:", in)
	c.p("%s            throw ByteBridgeException.unknownVariant(%s, disc, %d);", in, javaString(td.Name), len(td.Variants))
	c.p("%s    }", in)
	c.p("%s}", in)
	c.p("")
	c.bytesHelpers(td.Name, in, "decode")

	for i, v := range td.Variants {
		c.p("")
		if err := c.record(v.Name, v.Docs, v.Fields, td.Name, i, in); err != nil {
			return err
		}
	}
	c.p("}")
	return nil
}

var scalarJava = map[schema.Kind][2]string{
	schema.KindBool:   {"boolean", "Boolean"},
	schema.KindU8:     {"short", "Short"},
	schema.KindU16:    {"int", "Integer"},
	schema.KindU32:    {"long", "Long"},
	schema.KindU64:    {"long", "Long"},
	schema.KindI8:     {"byte", "Byte"},
	schema.KindI16:    {"short", "Short"},
	schema.KindI32:    {"int", "Integer"},
	schema.KindI64:    {"long", "Long"},
	schema.KindF32:    {"float", "Float"},
	schema.KindF64:    {"double", "Double"},
	schema.KindIsize:  {"long", "Long"},
	schema.KindUsize:  {"long", "Long"},
	schema.KindString: {"String", "String"},
}

// unsignedArrays maps an unsigned element kind to its same-width primitive
// array and the reader/writer method suffix.
var unsignedArrays = map[schema.Kind][2]string{
	schema.KindU8:  {"byte[]", "ByteArray"},
	schema.KindU16: {"short[]", "ShortArray"},
	schema.KindU32: {"int[]", "IntArray"},
	schema.KindU64: {"long[]", "LongArray"},
}

func (c *class) fieldType(f *schema.Field) string {
	return c.javaType(f.Type, f.Constraints.UnsignedArray, false)
}

// javaType returns the Java spelling of t. unsigned selects primitive
// arrays for the list or array under any options.
func (c *class) javaType(t *schema.Type, unsigned, boxed bool) string {
	switch t.Kind {
	case schema.KindNonZero:
		return c.javaType(t.Elem, false, boxed)
	case schema.KindDuration:
		c.use("java.time.Duration")
		return "Duration"
	case schema.KindList, schema.KindArray:
		if unsigned {
			return unsignedArrays[t.Elem.Kind][0]
		}
		c.use("java.util.List")
		return "List<" + c.javaType(t.Elem, false, true) + ">"
	case schema.KindMap:
		c.use("java.util.Map")
		return "Map<" + c.javaType(t.Key, false, true) + ", " + c.javaType(t.Elem, false, true) + ">"
	case schema.KindOption:
		c.use("java.util.Optional")
		return "Optional<" + c.javaType(t.Elem, unsigned, true) + ">"
	case schema.KindRef:
		return t.Ref
	}
	if boxed {
		return scalarJava[t.Kind][1]
	}
	return scalarJava[t.Kind][0]
}

// initializer returns the field initializer: the declared default, or a
// non-null empty value for reference types.
func (c *class) initializer(f *schema.Field) string {
	if f.Default != nil && f.Default.Kind != schema.LitNull {
		return c.literal(f.Type, f.Default)
	}
	t := f.Type
	switch t.Kind {
	case schema.KindString:
		return `""`
	case schema.KindDuration:
		c.use("java.time.Duration")
		return "Duration.ZERO"
	case schema.KindList, schema.KindArray:
		if f.Constraints.UnsignedArray {
			n := 0
			if t.Kind == schema.KindArray {
				n = t.Len
			}
			return fmt.Sprintf("new %s[%d]", strings.TrimSuffix(unsignedArrays[t.Elem.Kind][0], "[]"), n)
		}
		c.use("java.util.ArrayList")
		return "new ArrayList<>()"
	case schema.KindMap:
		c.use("java.util.LinkedHashMap")
		return "new LinkedHashMap<>()"
	case schema.KindOption:
		c.use("java.util.Optional")
		return "Optional.empty()"
	case schema.KindRef:
		if td := c.schema.Lookup(t.Ref); td != nil && td.Kind == schema.DefRecord {
			return "new " + t.Ref + "()"
		}
	}
	return ""
}

// literal renders a validated default as a Java expression of the field's
// exact type, so boxing inside Optional.of picks the right wrapper.
func (c *class) literal(t *schema.Type, lit *schema.Literal) string {
	if t.Kind == schema.KindOption {
		c.use("java.util.Optional")
		return "Optional.of(" + c.literal(t.Elem, lit) + ")"
	}
	switch lit.Kind {
	case schema.LitString:
		return javaString(lit.Raw)
	case schema.LitBool:
		return lit.Raw
	}
	k := t.Scalar()
	switch {
	case k == schema.KindDuration:
		u, _ := strconv.ParseUint(lit.Raw, 0, 64)
		c.use("java.time.Duration")
		return fmt.Sprintf("Duration.ofSeconds(%dL)", int64(u))
	case k == schema.KindF32:
		f, _ := strconv.ParseFloat(lit.Raw, 32)
		return strconv.FormatFloat(f, 'g', -1, 32) + "f"
	case k == schema.KindF64:
		f, _ := strconv.ParseFloat(lit.Raw, 64)
		return strconv.FormatFloat(f, 'g', -1, 64) + "d"
	case k.IsUnsigned():
		u, _ := strconv.ParseUint(lit.Raw, 0, 64)
		return intLiteral(scalarJava[k][0], int64(u))
	}
	i, _ := strconv.ParseInt(lit.Raw, 0, 64)
	return intLiteral(scalarJava[k][0], i)
}

func intLiteral(javaType string, v int64) string {
	switch javaType {
	case "byte", "short":
		return fmt.Sprintf("(%s) %d", javaType, v)
	case "long":
		if v == math.MinInt64 {
			return "Long.MIN_VALUE"
		}
		return strconv.FormatInt(v, 10) + "L"
	}
	return strconv.FormatInt(v, 10)
}

// javaString quotes s as a Java string literal.
func javaString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			for _, u := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(&b, `\u%04x`, u)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

var writerMethod = map[schema.Kind]string{
	schema.KindBool:   "writeBool",
	schema.KindU8:     "writeU8",
	schema.KindU16:    "writeU16",
	schema.KindU32:    "writeU32",
	schema.KindU64:    "writeU64",
	schema.KindI8:     "writeI8",
	schema.KindI16:    "writeI16",
	schema.KindI32:    "writeI32",
	schema.KindI64:    "writeI64",
	schema.KindF32:    "writeF32",
	schema.KindF64:    "writeF64",
	schema.KindString: "writeString",
	schema.KindIsize:  "writeI64",
	schema.KindUsize:  "writeU64",
}

var readerMethod = map[schema.Kind]string{
	schema.KindBool:   "readBool",
	schema.KindU8:     "readU8",
	schema.KindU16:    "readU16",
	schema.KindU32:    "readU32",
	schema.KindU64:    "readU64",
	schema.KindI8:     "readI8",
	schema.KindI16:    "readI16",
	schema.KindI32:    "readI32",
	schema.KindI64:    "readI64",
	schema.KindF32:    "readF32",
	schema.KindF64:    "readF64",
	schema.KindString: "readString",
	schema.KindIsize:  "readI64",
	schema.KindUsize:  "readU64",
}

func local(name string, depth int) string { return name + strconv.Itoa(depth) }

func (c *class) keyOrder(k schema.Kind) string {
	switch {
	case k == schema.KindString:
		return "ByteBridgeWriter.UTF8_ORDER"
	case k == schema.KindU64 || k == schema.KindUsize:
		return "Long::compareUnsigned"
	}
	c.use("java.util.Comparator")
	return "Comparator.naturalOrder()"
}

func (c *class) encode(t *schema.Type, cons schema.Constraints, expr string, depth int, ind string) {
	switch t.Kind {
	case schema.KindNonZero:
		c.encode(t.Elem, cons, expr, depth, ind)
	case schema.KindDuration:
		c.p("%swriter.writeDuration(%s);", ind, expr)
	case schema.KindList, schema.KindArray:
		arity := -1
		if t.Kind == schema.KindArray {
			arity = t.Len
		}
		if cons.UnsignedArray {
			c.p("%swriter.write%s(%s, %d);", ind, unsignedArrays[t.Elem.Kind][1], expr, arity)
			return
		}
		if arity >= 0 {
			c.p("%swriter.writeArrayLen(%s.size(), %d);", ind, expr, arity)
		} else {
			c.p("%swriter.writeLen(%s.size());", ind, expr)
		}
		el := local("e", depth)
		c.p("%sfor (%s %s : %s) {", ind, c.javaType(t.Elem, false, true), el, expr)
		c.encode(t.Elem, schema.Constraints{}, el, depth+1, ind+"    ")
		c.p("%s}", ind)
	case schema.KindMap:
		k := local("k", depth)
		c.p("%swriter.writeMapLen(%s.size());", ind, expr)
		c.p("%sfor (%s %s : ByteBridgeWriter.sortedKeys(%s, %s)) {", ind,
			c.javaType(t.Key, false, true), k, expr, c.keyOrder(t.Key.Kind))
		c.encode(t.Key, schema.Constraints{}, k, depth+1, ind+"    ")
		c.encode(t.Elem, schema.Constraints{}, expr+".get("+k+")", depth+1, ind+"    ")
		c.p("%s}", ind)
	case schema.KindOption:
		c.p("%sif (%s.isPresent()) {", ind, expr)
		c.p("%s    writer.writeOptionTag(true);", ind)
		c.encode(t.Elem, cons, expr+".get()", depth+1, ind+"    ")
		c.p("%s} else {", ind)
		c.p("%s    writer.writeOptionTag(false);", ind)
		c.p("%s}", ind)
	case schema.KindRef:
		c.p("%s%s.encode(writer);", ind, expr)
	default:
		c.p("%swriter.%s(%s);", ind, writerMethod[t.Kind], expr)
	}
}

func (c *class) decode(t *schema.Type, cons schema.Constraints, target string, depth int, ind string) {
	switch t.Kind {
	case schema.KindList, schema.KindArray:
		arity := -1
		if t.Kind == schema.KindArray {
			arity = t.Len
		}
		if cons.UnsignedArray {
			c.p("%s%s = reader.read%s(%d);", ind, target, unsignedArrays[t.Elem.Kind][1], arity)
			return
		}
		c.use("java.util.ArrayList")
		c.use("java.util.List")
		n, l, i, el := local("n", depth), local("l", depth), local("i", depth), local("e", depth)
		c.p("%s{", ind)
		in := ind + "    "
		if arity >= 0 {
			c.p("%sreader.readArrayLen(%d);", in, arity)
			c.p("%sint %s = %d;", in, n, arity)
			c.p("%s%s %s = new ArrayList<>(%s);", in, c.javaType(t, false, false), l, n)
		} else {
			c.p("%sint %s = reader.readLen();", in, n)
			c.p("%s%s %s = new ArrayList<>(reader.capHint(%s, %d));", in, c.javaType(t, false, false), l, n, c.widths.MinWidth(t.Elem))
		}
		c.p("%sfor (int %s = 0; %s < %s; %s++) {", in, i, i, n, i)
		c.p("%s    %s %s;", in, c.javaType(t.Elem, false, false), el)
		c.decode(t.Elem, schema.Constraints{}, el, depth+1, in+"    ")
		c.p("%s    %s.add(%s);", in, l, el)
		c.p("%s}", in)
		c.p("%s%s = %s;", in, target, l)
		c.p("%s}", ind)
	case schema.KindMap:
		c.use("java.util.LinkedHashMap")
		c.use("java.util.Map")
		n, m, i, k, el := local("n", depth), local("m", depth), local("i", depth), local("k", depth), local("e", depth)
		width := abi.SaturatingAdd(c.widths.MinWidth(t.Key), c.widths.MinWidth(t.Elem))
		c.p("%s{", ind)
		in := ind + "    "
		c.p("%sint %s = reader.readMapLen();", in, n)
		c.p("%s%s %s = new LinkedHashMap<>(reader.capHint(%s, %d));", in, c.javaType(t, false, false), m, n, width)
		c.p("%sfor (int %s = 0; %s < %s; %s++) {", in, i, i, n, i)
		c.p("%s    %s %s;", in, c.javaType(t.Key, false, false), k)
		c.p("%s    %s %s;", in, c.javaType(t.Elem, false, false), el)
		c.decode(t.Key, schema.Constraints{}, k, depth+1, in+"    ")
		c.decode(t.Elem, schema.Constraints{}, el, depth+1, in+"    ")
		c.p("%s    %s.put(%s, %s);", in, m, k, el)
		c.p("%s}", in)
		c.p("%s%s = %s;", in, target, m)
		c.p("%s}", ind)
	case schema.KindOption:
		c.use("java.util.Optional")
		o := local("o", depth)
		c.p("%sif (reader.readOptionTag()) {", ind)
		c.p("%s    %s %s;", ind, c.javaType(t.Elem, cons.UnsignedArray, false), o)
		c.decode(t.Elem, cons, o, depth+1, ind+"    ")
		c.p("%s    %s = Optional.of(%s);", ind, target, o)
		c.p("%s} else {", ind)
		c.p("%s    %s = Optional.empty();", ind, target)
		c.p("%s}", ind)
	case schema.KindRef:
		c.p("%s%s = %s.decode(reader);", ind, target, t.Ref)
	case schema.KindNonZero:
		c.p("%s%s = reader.readNonZero%s();", ind, target, strings.ToUpper(t.Elem.Kind.String()))
		c.checks(t.Elem.Kind, cons, target, ind)
	case schema.KindDuration:
		c.p("%s%s = reader.readDuration();", ind, target)
	default:
		c.p("%s%s = reader.%s();", ind, target, readerMethod[t.Kind])
		c.checks(t.Kind, cons, target, ind)
	}
}

func (c *class) checks(k schema.Kind, cons schema.Constraints, target, ind string) {
	if cons.NonZero {
		c.p("%sByteBridgeReader.checkNonZero(%s);", ind, target)
	}
	if cons.Natural {
		c.p("%sByteBridgeReader.checkNatural(%s);", ind, target)
	}
	r := cons.Range
	if r == nil {
		return
	}
	switch {
	case k.IsFloat():
		c.p("%sByteBridgeReader.checkRange(%s, %sd, %sd);", ind, target,
			strconv.FormatFloat(r.Min, 'g', -1, 64), strconv.FormatFloat(r.Max, 'g', -1, 64))
	case k == schema.KindU64 || k == schema.KindUsize:
		lo := math.Max(math.Ceil(r.Min), 0)
		hi := math.Max(math.Floor(r.Max), 0)
		hiLit := "-1L"
		if hi < math.MaxUint64 {
			hiLit = strconv.FormatInt(int64(uint64(hi)), 10) + "L"
		}
		c.p("%sByteBridgeReader.checkRangeUnsigned(%s, %s, %s);", ind, target,
			strconv.FormatInt(int64(uint64(lo)), 10)+"L", hiLit)
	default:
		c.p("%sByteBridgeReader.checkRange(%s, %s, %s);", ind, target,
			longBound(math.Ceil(r.Min)), longBound(math.Floor(r.Max)))
	}
}

// longBound clamps a bound to the long domain.
func longBound(v float64) string {
	switch {
	case v <= math.MinInt64:
		return "Long.MIN_VALUE"
	case v >= math.MaxInt64:
		return "Long.MAX_VALUE"
	}
	return strconv.FormatInt(int64(v), 10) + "L"
}
