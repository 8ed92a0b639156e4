package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGenerate Phase = "generate" // structural description validation
	PhaseCompile  Phase = "compile"  // binding a Go type to a description
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseValidate Phase = "validate" // constraint checks outside decode
	PhaseBoundary Phase = "boundary" // foreign boundary session
	PhaseParse    Phase = "parse"    // schema and config parsing
)

// Kind categorizes the error
type Kind string

// Decode kinds.
const (
	KindInsufficientData     Kind = "insufficient_data"
	KindInvalidMarker        Kind = "invalid_marker"
	KindInvalidMarkerForType Kind = "invalid_marker_for_type"
	KindNumericOverflow      Kind = "numeric_overflow"
	KindInvalidUTF8          Kind = "invalid_utf8"
	KindInvalidBool          Kind = "invalid_bool"
	KindInvalidOptionTag     Kind = "invalid_option_tag"
	KindUnknownVariant       Kind = "unknown_variant"
	KindArityMismatch        Kind = "arity_mismatch"
	KindConstraintViolation  Kind = "constraint_violation"
	KindTrailingData         Kind = "trailing_data"
	KindLimitExceeded        Kind = "limit_exceeded"
	KindUnknownFormat        Kind = "unknown_format"
)

// Generation kinds.
const (
	KindGenericParams     Kind = "generic_params"
	KindTupleField        Kind = "tuple_field"
	KindUnitType          Kind = "unit_type"
	KindPrivateField      Kind = "private_field"
	KindReservedName      Kind = "reserved_name"
	KindInvalidDefault    Kind = "invalid_default"
	KindDuplicateDefault  Kind = "duplicate_default"
	KindTooManyVariants   Kind = "too_many_variants"
	KindDuplicateName     Kind = "duplicate_name"
	KindUnknownType       Kind = "unknown_type"
	KindInvalidConstraint Kind = "invalid_constraint"
	KindInvalidMapKey     Kind = "invalid_map_key"
	KindRecursiveType     Kind = "recursive_type"
	KindInvalidName       Kind = "invalid_name"
)

// Shared kinds.
const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindNilPointer     Kind = "nil_pointer"
	KindInvalidInput   Kind = "invalid_input"
	KindAllocation     Kind = "allocation"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindSchemaMismatch Kind = "schema_mismatch"
	KindClosed         Kind = "closed"
)

// Error is the structured error type used throughout bytebridge
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithPrefix returns a copy of e whose path is prefixed by the given segments.
func (e *Error) WithPrefix(prefix ...string) *Error {
	out := *e
	out.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &out
}

// Prefix prepends path segments to err when it is an *Error.
// Other errors are returned unchanged.
func Prefix(err error, prefix ...string) error {
	if e, ok := err.(*Error); ok {
		return e.WithPrefix(prefix...)
	}
	return err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain holds an *Error of the given kind.
// For a List, any member may match.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var l List
	if stderrors.As(err, &l) {
		return l.Has(kind)
	}
	return KindOf(err) == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema type name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InsufficientData reports a read of need bytes with only have remaining.
func InsufficientData(path []string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInsufficientData,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
		Value:  need,
	}
}

// InvalidBool reports a boolean byte that is neither 0x00 nor 0x01.
func InvalidBool(path []string, b byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBool,
		Path:   path,
		Detail: fmt.Sprintf("invalid boolean value: %d", b),
		Value:  b,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
		Value:  append([]byte(nil), preview...),
	}
}

// UnknownVariant reports a union discriminant that names no declared variant.
func UnknownVariant(path []string, unionName string, disc uint8, count int) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindUnknownVariant,
		Path:       path,
		SchemaType: unionName,
		Detail:     fmt.Sprintf("unknown enum variant %d (%d declared)", disc, count),
		Value:      disc,
	}
}

// ArityMismatch reports a fixed array whose length prefix differs from its arity.
func ArityMismatch(path []string, want int, got uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindArityMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected array of length %d, got length %d", want, got),
		Value:  got,
	}
}

// ConstraintViolation reports a well-formed value outside its declared domain.
func ConstraintViolation(phase Phase, path []string, value any, constraint string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConstraintViolation,
		Path:   path,
		Detail: fmt.Sprintf("value %v violates %s", value, constraint),
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindNumericOverflow,
		Path:       path,
		SchemaType: targetType,
		Detail:     fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:      value,
	}
}

// Generation creates a generation-time error about a named type or field.
func Generation(kind Kind, path []string, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   kind,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// List collects several errors, e.g. every generation problem in one schema.
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, e := range l {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is/As.
func (l List) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Has reports whether any member has the given kind.
func (l List) Has(kind Kind) bool {
	for _, e := range l {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list and the list otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
