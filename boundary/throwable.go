package boundary

import (
	stderrors "errors"
	"fmt"

	"github.com/wippyai/bytebridge/errors"
)

// Foreign exception classes, as JNI class names. ClassDecode is the
// exception class emitted by the Java generator; hosts qualify it with the
// generated package.
const (
	ClassDecode          = "ByteBridgeException"
	ClassIllegalArgument = "java/lang/IllegalArgumentException"
	ClassIllegalState    = "java/lang/IllegalStateException"
	ClassIndexOutOfRange = "java/lang/IndexOutOfBoundsException"
	ClassOutOfMemory     = "java/lang/OutOfMemoryError"
	ClassRuntime         = "java/lang/RuntimeException"
)

// ForeignError is what a host layer raises on the foreign side for a Go
// error. Value is the offending byte or number, formatted, when the error
// carries one.
type ForeignError struct {
	Value   string
	Class   string
	Message string
	Kind    errors.Kind
}

var classByKind = map[errors.Kind]string{
	errors.KindInvalidInput:        ClassIllegalArgument,
	errors.KindTypeMismatch:        ClassIllegalArgument,
	errors.KindNilPointer:          ClassIllegalArgument,
	errors.KindConstraintViolation: ClassIllegalArgument,
	errors.KindUnsupported:         ClassIllegalArgument,
	errors.KindClosed:              ClassIllegalState,
	errors.KindOutOfBounds:         ClassIndexOutOfRange,
	errors.KindAllocation:          ClassOutOfMemory,
	errors.KindLimitExceeded:       ClassDecode,
	errors.KindSchemaMismatch:      ClassDecode,
}

// Throwable translates err for the foreign side. Every decode-phase error
// becomes ClassDecode with its kind and value preserved. A nil err yields
// the zero ForeignError.
func Throwable(err error) ForeignError {
	if err == nil {
		return ForeignError{}
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return ForeignError{Class: ClassRuntime, Message: err.Error()}
	}

	fe := ForeignError{
		Class:   ClassDecode,
		Message: err.Error(),
		Kind:    e.Kind,
	}
	if e.Phase != errors.PhaseDecode {
		if c, ok := classByKind[e.Kind]; ok {
			fe.Class = c
		} else {
			fe.Class = ClassRuntime
		}
	}
	if e.Value != nil {
		fe.Value = fmt.Sprint(e.Value)
	}
	return fe
}

func (f ForeignError) String() string {
	if f.Class == "" {
		return ""
	}
	return f.Class + ": " + f.Message
}
