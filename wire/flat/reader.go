package flat

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

// Reader decodes the flat framing from a byte slice. It implements
// bytebridge.Source.
type Reader struct {
	data   []byte
	offset int
	limits bytebridge.Limits
}

// NewReader wraps data for decoding with the default limits.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, limits: bytebridge.DefaultLimits()}
}

// WithLimits replaces the reader's limits and returns the reader.
func (r *Reader) WithLimits(l bytebridge.Limits) *Reader {
	r.limits = l.Normalize()
	return r
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

func (r *Reader) Limits() bytebridge.Limits {
	return r.limits
}

// need checks that at least n bytes remain and returns the current offset.
func (r *Reader) need(n int) (int, error) {
	if n < 0 || n > len(r.data)-r.offset {
		return 0, errors.InsufficientData(nil, n, r.Remaining())
	}
	off := r.offset
	r.offset += n
	return off, nil
}

// ReadBool accepts only 0x00 and 0x01.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidBool(nil, v)
}

func (r *Reader) ReadU8() (uint8, error) {
	off, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return r.data[off], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	off, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.data[off:]), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	off, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	off, err := r.need(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.data[off:]), nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadString reads a u64-length-prefixed UTF-8 string. The returned string
// holds its own copy of the data.
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadU64()
	if err != nil {
		return "", err
	}
	if length > uint64(r.limits.MaxStringBytes) {
		return "", errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
			Value(length).
			Detail("string length %d exceeds limit %d", length, r.limits.MaxStringBytes).
			Build()
	}
	if length > uint64(r.Remaining()) {
		return "", errors.InsufficientData(nil, int(length), r.Remaining())
	}
	off, err := r.need(int(length))
	if err != nil {
		return "", err
	}
	raw := r.data[off : off+int(length)]
	if !utf8.Valid(raw) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, raw)
	}
	return string(raw), nil
}

// ReadLen reads a u64 element count that must fit the host int.
func (r *Reader) ReadLen() (int, error) {
	return r.readCount("sequence length")
}

// ReadMapLen reads a u64 pair count that must fit the host int.
func (r *Reader) ReadMapLen() (int, error) {
	return r.readCount("map length")
}

func (r *Reader) readCount(what string) (int, error) {
	n, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt {
		return 0, errors.Overflow(errors.PhaseDecode, nil, n, what)
	}
	return int(n), nil
}

func (r *Reader) ReadVariant() (uint8, error) {
	return r.ReadU8()
}

// ReadOptionTag accepts only 0x00 (absent) and 0x01 (present).
func (r *Reader) ReadOptionTag() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.New(errors.PhaseDecode, errors.KindInvalidOptionTag).
		Value(v).
		Detail("invalid option tag: %d", v).
		Build()
}

// Done returns a trailing_data error if unread bytes remain.
func (r *Reader) Done() error {
	if n := r.Remaining(); n > 0 {
		return errors.New(errors.PhaseDecode, errors.KindTrailingData).
			Value(n).
			Detail("%d bytes left after value", n).
			Build()
	}
	return nil
}
