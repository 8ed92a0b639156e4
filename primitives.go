package bytebridge

import (
	"math"
	"time"

	"github.com/wippyai/bytebridge/errors"
)

// Integer is any fixed or pointer-width integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed is any type that can hold a negative value.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Number is any integer or floating point type.
type Number interface {
	Integer | ~float32 | ~float64
}

// WriteInt writes a pointer-sized signed integer as a fixed 8-byte value.
func WriteInt(s Sink, v int) {
	s.WriteI64(int64(v))
}

// ReadInt reads an 8-byte signed integer into the host int.
func ReadInt(src Source) (int, error) {
	v, err := src.ReadI64()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, errors.Overflow(errors.PhaseDecode, nil, v, "isize")
	}
	return int(v), nil
}

// WriteUint writes a pointer-sized unsigned integer as a fixed 8-byte value.
func WriteUint(s Sink, v uint) {
	s.WriteU64(uint64(v))
}

// ReadUint reads an 8-byte unsigned integer into the host uint.
func ReadUint(src Source) (uint, error) {
	v, err := src.ReadU64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint {
		return 0, errors.Overflow(errors.PhaseDecode, nil, v, "usize")
	}
	return uint(v), nil
}

const maxDurationSeconds = uint64(math.MaxInt64 / int64(time.Second))

// WriteDuration writes d as whole seconds. Sub-second precision is dropped
// and negative durations are written as zero.
func WriteDuration(s Sink, d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.WriteU64(uint64(d / time.Second))
}

// ReadDuration reads whole seconds.
func ReadDuration(src Source) (time.Duration, error) {
	v, err := src.ReadU64()
	if err != nil {
		return 0, err
	}
	if v > maxDurationSeconds {
		return 0, errors.Overflow(errors.PhaseDecode, nil, v, "duration")
	}
	return time.Duration(v) * time.Second, nil
}

func ReadNonZeroU8(src Source) (uint8, error) {
	v, err := src.ReadU8()
	if err != nil {
		return 0, err
	}
	return v, CheckNonZero(v)
}

func ReadNonZeroU16(src Source) (uint16, error) {
	v, err := src.ReadU16()
	if err != nil {
		return 0, err
	}
	return v, CheckNonZero(v)
}

func ReadNonZeroU32(src Source) (uint32, error) {
	v, err := src.ReadU32()
	if err != nil {
		return 0, err
	}
	return v, CheckNonZero(v)
}

func ReadNonZeroU64(src Source) (uint64, error) {
	v, err := src.ReadU64()
	if err != nil {
		return 0, err
	}
	return v, CheckNonZero(v)
}

// CheckNonZero reports a constraint violation for a zero value.
func CheckNonZero[T Integer](v T) error {
	if v == 0 {
		return errors.ConstraintViolation(errors.PhaseValidate, nil, v, "nonzero")
	}
	return nil
}

// CheckNatural reports a constraint violation for a negative value.
func CheckNatural[T Signed](v T) error {
	if v < 0 {
		return errors.ConstraintViolation(errors.PhaseValidate, nil, v, "natural")
	}
	return nil
}

// CheckRange reports a constraint violation when v is outside [lo, hi].
func CheckRange[T Number](v, lo, hi T) error {
	if v < lo || v > hi {
		return errors.New(errors.PhaseValidate, errors.KindConstraintViolation).
			Value(v).
			Detail("value %v outside range %v..%v", v, lo, hi).
			Build()
	}
	return nil
}

// ReadSeqLen reads a sequence length and returns a capacity hint that is
// never larger than the remaining input could hold. Elements that occupy no
// bytes are bounded by the source's MaxSequenceLength instead.
func ReadSeqLen(src Source, minWidth int) (n, capHint int, err error) {
	n, err = src.ReadLen()
	if err != nil {
		return 0, 0, err
	}
	capHint, err = CapHint(src, n, minWidth)
	return n, capHint, err
}

// ReadMapLen reads a map pair count and a capacity hint, as ReadSeqLen.
func ReadMapLen(src Source, minPairWidth int) (n, capHint int, err error) {
	n, err = src.ReadMapLen()
	if err != nil {
		return 0, 0, err
	}
	capHint, err = CapHint(src, n, minPairWidth)
	return n, capHint, err
}

// ReadArrayLen reads a fixed array's length prefix and checks it against
// the declared arity.
func ReadArrayLen(src Source, arity int) error {
	n, err := src.ReadLen()
	if err != nil {
		return err
	}
	if n != arity {
		return errors.ArityMismatch(nil, arity, uint64(n))
	}
	return nil
}

// CapHint bounds a declared element count for preallocation.
func CapHint(src Source, n, minWidth int) (int, error) {
	if minWidth <= 0 {
		if limit := src.Limits().MaxSequenceLength; n > limit {
			return 0, errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
				Value(n).
				Detail("declared length %d exceeds limit %d", n, limit).
				Build()
		}
		return n, nil
	}
	if most := src.Remaining() / minWidth; n > most {
		return most, nil
	}
	return n, nil
}

// Ptr returns a pointer to a copy of v. Generated constructors use it for
// optional defaults.
func Ptr[T any](v T) *T {
	return &v
}
