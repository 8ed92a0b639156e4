package schema

import "regexp"

var (
	typeNameRe  = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// reservedFields cannot be used as field or variant field names: they are
// keywords in a mirror language or identifiers the generators emit.
var reservedFields = map[string]bool{
	// Java keywords and literals
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
	"true": true, "false": true, "null": true, "var": true, "record": true,
	"yield": true, "sealed": true, "permits": true,

	// generated scaffolding
	"buf":                true,
	"buffer_size":        true,
	"tag":                true,
	"in":                 true,
	"out":                true,
	"writer":             true,
	"reader":             true,
	"validate":           true,
	"encode_byte_bridge": true,
	"decode_byte_bridge": true,
	"to_string":          true,
	"hash_code":          true,
	"equals":             true,
	"get_class":          true,
	"to_bytes":           true,
	"from_bytes":         true,
}

// reservedTypes cannot name a record, union or generated variant class.
var reservedTypes = map[string]bool{
	"ByteBridgeWriter":    true,
	"ByteBridgeReader":    true,
	"ByteBridgeException": true,
	"SchemaFingerprint":   true,
	"Object":              true,
	"String":              true,
	"List":                true,
	"Map":                 true,
	"Optional":            true,
	"Duration":            true,
	"Boolean":             true,
	"Byte":                true,
	"Short":               true,
	"Integer":             true,
	"Long":                true,
	"Float":               true,
	"Double":              true,
	"Character":           true,
	"Arrays":              true,
	"ArrayList":           true,
	"LinkedHashMap":       true,
	"Comparator":          true,
	"Math":                true,
	"StringBuilder":       true,
	"Throwable":           true,
	"RuntimeException":    true,
	"Objects":             true,
	"Override":            true,
	"Class":               true,
	"Error":               true,
}

// IsReservedField reports whether name collides with a keyword or generated identifier.
func IsReservedField(name string) bool { return reservedFields[name] }

// IsReservedType reports whether name collides with a generated or library class.
func IsReservedType(name string) bool { return reservedTypes[name] }
