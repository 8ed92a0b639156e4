package bytebridge

// Sink receives encoded primitives. Writes never fail; a sink backed by a
// growable buffer simply grows.
type Sink interface {
	WriteBool(v bool)
	WriteU8(v uint8)
	WriteU16(v uint16)
	WriteU32(v uint32)
	WriteU64(v uint64)
	WriteI8(v int8)
	WriteI16(v int16)
	WriteI32(v int32)
	WriteI64(v int64)
	WriteF32(v float32)
	WriteF64(v float64)
	WriteString(v string)

	// WriteLen starts a sequence of n elements.
	WriteLen(n int)
	// WriteMapLen starts a map of n key/value pairs.
	WriteMapLen(n int)
	// WriteVariant writes a union discriminant.
	WriteVariant(idx uint8)
	// WriteOptionTag writes the present/absent marker of an optional value.
	WriteOptionTag(present bool)
}

// Source reads encoded primitives from a cursor. Every read checks bounds
// before touching data. After an error the cursor position is unspecified
// and the source must be discarded.
type Source interface {
	ReadBool() (bool, error)
	ReadU8() (uint8, error)
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadU64() (uint64, error)
	ReadI8() (int8, error)
	ReadI16() (int16, error)
	ReadI32() (int32, error)
	ReadI64() (int64, error)
	ReadF32() (float32, error)
	ReadF64() (float64, error)

	// ReadString returns a copy of the string bytes; the result never
	// aliases the source buffer.
	ReadString() (string, error)

	ReadLen() (int, error)
	ReadMapLen() (int, error)
	ReadVariant() (uint8, error)
	ReadOptionTag() (bool, error)

	// Remaining reports the number of unread bytes.
	Remaining() int
	// Limits reports the decode limits in effect for this source.
	Limits() Limits
}

// Marshaler is implemented by types that encode themselves.
type Marshaler interface {
	EncodeByteBridge(s Sink)
}

// Unmarshaler is implemented by types that decode themselves.
// DecodeByteBridge must be called on a non-nil pointer.
type Unmarshaler interface {
	DecodeByteBridge(src Source) error
}

// MaxVariants is the number of variants a union may declare; the
// discriminant is a single byte.
const MaxVariants = 256

// Limits bound the work a decoder performs for a declared length.
type Limits struct {
	// MaxStringBytes caps a single string's declared byte length.
	MaxStringBytes int
	// MaxSequenceLength caps declared element counts whose elements
	// occupy no bytes on the wire.
	MaxSequenceLength int
}

const (
	DefaultMaxStringBytes    = 1 << 30
	DefaultMaxSequenceLength = 1 << 27
)

// DefaultLimits returns the limits sources use unless configured otherwise.
func DefaultLimits() Limits {
	return Limits{
		MaxStringBytes:    DefaultMaxStringBytes,
		MaxSequenceLength: DefaultMaxSequenceLength,
	}
}

// Normalize fills zero fields with defaults.
func (l Limits) Normalize() Limits {
	if l.MaxStringBytes <= 0 {
		l.MaxStringBytes = DefaultMaxStringBytes
	}
	if l.MaxSequenceLength <= 0 {
		l.MaxSequenceLength = DefaultMaxSequenceLength
	}
	return l
}
