package msgpack

import (
	"bytes"

	mp "github.com/vmihailenco/msgpack/v5"
)

// Writer implements bytebridge.Sink with MessagePack markers. Integers are
// written with the smallest marker that holds the value.
type Writer struct {
	buf bytes.Buffer
	enc *mp.Encoder
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.enc = mp.NewEncoder(&w.buf)
	return w
}

// Bytes returns the accumulated encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.err = nil
}

// Err returns the first error reported by the underlying encoder.
// Writes into memory do not fail, so this is nil in practice.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) keep(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

func (w *Writer) WriteBool(v bool) { w.keep(w.enc.EncodeBool(v)) }
func (w *Writer) WriteU8(v uint8) { w.keep(w.enc.EncodeUint(uint64(v))) }
func (w *Writer) WriteU16(v uint16) { w.keep(w.enc.EncodeUint(uint64(v))) }
func (w *Writer) WriteU32(v uint32) { w.keep(w.enc.EncodeUint(uint64(v))) }
func (w *Writer) WriteU64(v uint64) { w.keep(w.enc.EncodeUint(v)) }
func (w *Writer) WriteI8(v int8) { w.keep(w.enc.EncodeInt(int64(v))) }
func (w *Writer) WriteI16(v int16) { w.keep(w.enc.EncodeInt(int64(v))) }
func (w *Writer) WriteI32(v int32) { w.keep(w.enc.EncodeInt(int64(v))) }
func (w *Writer) WriteI64(v int64) { w.keep(w.enc.EncodeInt(v)) }
func (w *Writer) WriteF32(v float32) { w.keep(w.enc.EncodeFloat32(v)) }
func (w *Writer) WriteF64(v float64) { w.keep(w.enc.EncodeFloat64(v)) }
func (w *Writer) WriteString(v string) { w.keep(w.enc.EncodeString(v)) }
func (w *Writer) WriteLen(n int) { w.keep(w.enc.EncodeArrayLen(n)) }
func (w *Writer) WriteMapLen(n int) { w.keep(w.enc.EncodeMapLen(n)) }

// WriteVariant writes the discriminant as an unsigned integer.
func (w *Writer) WriteVariant(idx uint8) {
	w.keep(w.enc.EncodeUint(uint64(idx)))
}

// WriteOptionTag writes nil for an absent value and true before a present one.
func (w *Writer) WriteOptionTag(present bool) {
	if present {
		w.keep(w.enc.EncodeBool(true))
		return
	}
	w.keep(w.enc.EncodeNil())
}
