package msgpack

import (
	"bytes"
	"io"
	"math"
	"unicode/utf8"

	mp "github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

// Reader implements bytebridge.Source over MessagePack data. Integer reads
// accept every integer marker and narrow with a range check.
type Reader struct {
	r      *bytes.Reader
	dec    *mp.Decoder
	limits bytebridge.Limits
}

// NewReader wraps data for decoding with the default limits.
func NewReader(data []byte) *Reader {
	r := bytes.NewReader(data)
	return &Reader{
		r:      r,
		dec:    mp.NewDecoder(r),
		limits: bytebridge.DefaultLimits(),
	}
}

// WithLimits replaces the reader's limits and returns the reader.
func (r *Reader) WithLimits(l bytebridge.Limits) *Reader {
	r.limits = l.Normalize()
	return r
}

func (r *Reader) Remaining() int {
	return r.r.Len()
}

func (r *Reader) Limits() bytebridge.Limits {
	return r.limits
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

func (r *Reader) peek() (byte, family, error) {
	c, err := r.dec.PeekCode()
	if err != nil {
		return 0, famInvalid, r.ioErr(err)
	}
	return c, classify(c), nil
}

func (r *Reader) ioErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.New(errors.PhaseDecode, errors.KindInsufficientData).
			Cause(err).
			Detail("input ended mid-value, %d bytes remaining", r.Remaining()).
			Build()
	}
	return errors.Wrap(errors.PhaseDecode, errors.KindInvalidMarker, err, "malformed msgpack value")
}

// unexpected reports a marker that cannot start a value of the wanted type.
func (r *Reader) unexpected(c byte, fam family, want string) error {
	if fam == famInvalid || fam == famExt {
		return errors.New(errors.PhaseDecode, errors.KindInvalidMarker).
			Value(c).
			Detail("unrecognized marker %s", markerName(c)).
			Build()
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidMarkerForType).
		SchemaType(want).
		Value(c).
		Detail("unexpected marker %s", markerName(c)).
		Build()
}

func (r *Reader) readUnsigned(want string, limit uint64) (uint64, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	switch fam {
	case famUint:
		v, err := r.dec.DecodeUint64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		if v > limit {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, want)
		}
		return v, nil
	case famInt:
		v, err := r.dec.DecodeInt64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		if v < 0 || uint64(v) > limit {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, want)
		}
		return uint64(v), nil
	}
	return 0, r.unexpected(c, fam, want)
}

func (r *Reader) readSigned(want string, lo, hi int64) (int64, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	switch fam {
	case famUint:
		v, err := r.dec.DecodeUint64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		if v > uint64(hi) {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, want)
		}
		return int64(v), nil
	case famInt:
		v, err := r.dec.DecodeInt64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		if v < lo || v > hi {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, want)
		}
		return v, nil
	}
	return 0, r.unexpected(c, fam, want)
}

func (r *Reader) ReadBool() (bool, error) {
	c, fam, err := r.peek()
	if err != nil {
		return false, err
	}
	if fam != famBool {
		return false, r.unexpected(c, fam, "bool")
	}
	v, err := r.dec.DecodeBool()
	if err != nil {
		return false, r.ioErr(err)
	}
	return v, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	v, err := r.readUnsigned("u8", math.MaxUint8)
	return uint8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	v, err := r.readUnsigned("u16", math.MaxUint16)
	return uint16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.readUnsigned("u32", math.MaxUint32)
	return uint32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	return r.readUnsigned("u64", math.MaxUint64)
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.readSigned("i8", math.MinInt8, math.MaxInt8)
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.readSigned("i16", math.MinInt16, math.MaxInt16)
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.readSigned("i32", math.MinInt32, math.MaxInt32)
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	return r.readSigned("i64", math.MinInt64, math.MaxInt64)
}

// ReadF32 accepts float32 markers, float64 markers holding a value exactly
// representable as float32, and integer markers.
func (r *Reader) ReadF32() (float32, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	switch fam {
	case famFloat:
		if c == msgpcode.Float {
			v, err := r.dec.DecodeFloat32()
			if err != nil {
				return 0, r.ioErr(err)
			}
			return v, nil
		}
		v, err := r.dec.DecodeFloat64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		if f := float32(v); float64(f) != v && !math.IsNaN(v) {
			return 0, errors.Overflow(errors.PhaseDecode, nil, v, "f32")
		}
		return float32(v), nil
	case famUint, famInt:
		v, err := r.readSigned("f32", math.MinInt64, math.MaxInt64)
		return float32(v), err
	}
	return 0, r.unexpected(c, fam, "f32")
}

// ReadF64 accepts float and integer markers.
func (r *Reader) ReadF64() (float64, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	switch fam {
	case famFloat:
		v, err := r.dec.DecodeFloat64()
		if err != nil {
			return 0, r.ioErr(err)
		}
		return v, nil
	case famUint, famInt:
		v, err := r.readSigned("f64", math.MinInt64, math.MaxInt64)
		return float64(v), err
	}
	return 0, r.unexpected(c, fam, "f64")
}

// ReadString accepts only str markers. The result is validated UTF-8 and
// never aliases the input.
func (r *Reader) ReadString() (string, error) {
	c, fam, err := r.peek()
	if err != nil {
		return "", err
	}
	if fam != famStr {
		return "", r.unexpected(c, fam, "string")
	}
	n, err := r.dec.DecodeBytesLen()
	if err != nil {
		return "", r.ioErr(err)
	}
	if n > r.limits.MaxStringBytes {
		return "", errors.New(errors.PhaseDecode, errors.KindLimitExceeded).
			Value(n).
			Detail("string length %d exceeds limit %d", n, r.limits.MaxStringBytes).
			Build()
	}
	if n > r.Remaining() {
		return "", errors.InsufficientData(nil, n, r.Remaining())
	}
	raw := make([]byte, n)
	if err := r.dec.ReadFull(raw); err != nil {
		return "", r.ioErr(err)
	}
	if !utf8.Valid(raw) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, raw)
	}
	return string(raw), nil
}

func (r *Reader) ReadLen() (int, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	if fam != famArray {
		return 0, r.unexpected(c, fam, "sequence")
	}
	n, err := r.dec.DecodeArrayLen()
	if err != nil {
		return 0, r.ioErr(err)
	}
	return n, nil
}

func (r *Reader) ReadMapLen() (int, error) {
	c, fam, err := r.peek()
	if err != nil {
		return 0, err
	}
	if fam != famMap {
		return 0, r.unexpected(c, fam, "map")
	}
	n, err := r.dec.DecodeMapLen()
	if err != nil {
		return 0, r.ioErr(err)
	}
	return n, nil
}

func (r *Reader) ReadVariant() (uint8, error) {
	v, err := r.readUnsigned("variant", math.MaxUint8)
	return uint8(v), err
}

// ReadOptionTag accepts nil (absent) and true (present).
func (r *Reader) ReadOptionTag() (bool, error) {
	c, fam, err := r.peek()
	if err != nil {
		return false, err
	}
	switch c {
	case msgpcode.Nil:
		if err := r.dec.DecodeNil(); err != nil {
			return false, r.ioErr(err)
		}
		return false, nil
	case msgpcode.True:
		if _, err := r.dec.DecodeBool(); err != nil {
			return false, r.ioErr(err)
		}
		return true, nil
	}
	return false, r.unexpected(c, fam, "option")
}
