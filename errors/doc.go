// Package errors provides structured error types for bytebridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the field path, the Go and schema type
// names, the offending value and an optional cause.
//
// Decode errors are plain values: they never abort the process and a foreign
// boundary layer can inspect them to raise its own exception type.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindUnknownVariant).
//		Path("shape").
//		SchemaType("Shape").
//		Value(uint8(13)).
//		Detail("unknown enum variant 13").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InsufficientData(path, 8, 3)
//	err := errors.Overflow(errors.PhaseDecode, path, 300, "u8")
//
// All errors implement the standard error interface and support errors.Is/As.
// KindOf and IsKind look through wrapped errors.
package errors
