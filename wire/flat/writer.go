package flat

import (
	"encoding/binary"
	"math"
)

// Writer is a growable buffer implementing bytebridge.Sink with the flat
// fixed-width framing. All multi-byte values are little-endian.
type Writer struct {
	data []byte
}

// NewWriter returns a Writer pre-allocated with the given capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{data: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.data)
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.data = w.data[:0]
}

// grow ensures room for n additional bytes, returning the write offset.
func (w *Writer) grow(n int) int {
	off := len(w.data)
	need := off + n
	if need <= cap(w.data) {
		w.data = w.data[:need]
		return off
	}
	newCap := cap(w.data) * 2
	if newCap < need {
		newCap = need
	}
	tmp := make([]byte, need, newCap)
	copy(tmp, w.data)
	w.data = tmp
	return off
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

func (w *Writer) WriteU8(v uint8) {
	off := w.grow(1)
	w.data[off] = v
}

func (w *Writer) WriteU16(v uint16) {
	off := w.grow(2)
	binary.LittleEndian.PutUint16(w.data[off:], v)
}

func (w *Writer) WriteU32(v uint32) {
	off := w.grow(4)
	binary.LittleEndian.PutUint32(w.data[off:], v)
}

func (w *Writer) WriteU64(v uint64) {
	off := w.grow(8)
	binary.LittleEndian.PutUint64(w.data[off:], v)
}

func (w *Writer) WriteI8(v int8)   { w.WriteU8(uint8(v)) }
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteF32 appends the IEEE 754 bit pattern of v.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 appends the IEEE 754 bit pattern of v.
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteString appends a u64 byte count followed by the string bytes.
func (w *Writer) WriteString(s string) {
	w.WriteU64(uint64(len(s)))
	off := w.grow(len(s))
	copy(w.data[off:], s)
}

// WriteLen writes a u64 element count. The caller encodes each element
// immediately after.
func (w *Writer) WriteLen(n int) {
	w.WriteU64(uint64(n))
}

// WriteMapLen writes a u64 pair count.
func (w *Writer) WriteMapLen(n int) {
	w.WriteU64(uint64(n))
}

func (w *Writer) WriteVariant(idx uint8) {
	w.WriteU8(idx)
}

func (w *Writer) WriteOptionTag(present bool) {
	w.WriteBool(present)
}
