package flat

import (
	"bytes"
	"math"
	"testing"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

var _ bytebridge.Sink = (*Writer)(nil)
var _ bytebridge.Source = (*Reader)(nil)

func TestWriter_Widths(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  []byte
	}{
		{"bool false", func(w *Writer) { w.WriteBool(false) }, []byte{0}},
		{"bool true", func(w *Writer) { w.WriteBool(true) }, []byte{1}},
		{"u8", func(w *Writer) { w.WriteU8(0xab) }, []byte{0xab}},
		{"i8", func(w *Writer) { w.WriteI8(-1) }, []byte{0xff}},
		{"u16", func(w *Writer) { w.WriteU16(0x0102) }, []byte{0x02, 0x01}},
		{"i32", func(w *Writer) { w.WriteI32(1) }, []byte{1, 0, 0, 0}},
		{"u64", func(w *Writer) { w.WriteU64(1) }, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"f32", func(w *Writer) { w.WriteF32(1) }, []byte{0, 0, 0x80, 0x3f}},
		{"string", func(w *Writer) { w.WriteString("hi") }, []byte{2, 0, 0, 0, 0, 0, 0, 0, 'h', 'i'}},
		{"empty string", func(w *Writer) { w.WriteString("") }, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"len", func(w *Writer) { w.WriteLen(3) }, []byte{3, 0, 0, 0, 0, 0, 0, 0}},
		{"variant", func(w *Writer) { w.WriteVariant(7) }, []byte{7}},
		{"option", func(w *Writer) { w.WriteOptionTag(true) }, []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(0)
			tt.write(w)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("got %x, want %x", w.Bytes(), tt.want)
			}
		})
	}
}

func TestWriter_GrowAndReset(t *testing.T) {
	w := NewWriter(1)
	for i := 0; i < 100; i++ {
		w.WriteU64(uint64(i))
	}
	if w.Len() != 800 {
		t.Fatalf("Len = %d, want 800", w.Len())
	}
	w.Reset()
	if w.Len() != 0 {
		t.Fatalf("Len after Reset = %d", w.Len())
	}
}

func TestReader_RoundTrip(t *testing.T) {
	w := NewWriter(64)
	w.WriteBool(true)
	w.WriteI8(math.MinInt8)
	w.WriteU16(math.MaxUint16)
	w.WriteI32(-42)
	w.WriteU64(math.MaxUint64)
	w.WriteI64(math.MinInt64)
	w.WriteF64(math.Pi)
	w.WriteString("héllo")
	w.WriteLen(5)

	r := NewReader(w.Bytes())
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := r.ReadI8(); err != nil || v != math.MinInt8 {
		t.Fatalf("ReadI8 = %v, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != math.MaxUint16 {
		t.Fatalf("ReadU16 = %v, %v", v, err)
	}
	if v, err := r.ReadI32(); err != nil || v != -42 {
		t.Fatalf("ReadI32 = %v, %v", v, err)
	}
	if v, err := r.ReadU64(); err != nil || v != math.MaxUint64 {
		t.Fatalf("ReadU64 = %v, %v", v, err)
	}
	if v, err := r.ReadI64(); err != nil || v != math.MinInt64 {
		t.Fatalf("ReadI64 = %v, %v", v, err)
	}
	if v, err := r.ReadF64(); err != nil || v != math.Pi {
		t.Fatalf("ReadF64 = %v, %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "héllo" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
	if v, err := r.ReadLen(); err != nil || v != 5 {
		t.Fatalf("ReadLen = %v, %v", v, err)
	}
	if err := r.Done(); err != nil {
		t.Fatalf("Done = %v", err)
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		read  func(r *Reader) error
		kind  errors.Kind
		value any
	}{
		{
			name:  "bool 3",
			data:  []byte{3},
			read:  func(r *Reader) error { _, err := r.ReadBool(); return err },
			kind:  errors.KindInvalidBool,
			value: byte(3),
		},
		{
			name: "short u32",
			data: []byte{1, 2},
			read: func(r *Reader) error { _, err := r.ReadU32(); return err },
			kind: errors.KindInsufficientData,
		},
		{
			name: "empty u8",
			data: nil,
			read: func(r *Reader) error { _, err := r.ReadU8(); return err },
			kind: errors.KindInsufficientData,
		},
		{
			name: "invalid utf8",
			data: []byte{4, 0, 0, 0, 0, 0, 0, 0, 0, 159, 146, 150},
			read: func(r *Reader) error { _, err := r.ReadString(); return err },
			kind: errors.KindInvalidUTF8,
		},
		{
			name: "string longer than buffer",
			data: []byte{9, 0, 0, 0, 0, 0, 0, 0, 'a'},
			read: func(r *Reader) error { _, err := r.ReadString(); return err },
			kind: errors.KindInsufficientData,
		},
		{
			name: "huge string length",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			read: func(r *Reader) error { _, err := r.ReadString(); return err },
			kind: errors.KindLimitExceeded,
		},
		{
			name: "length above int",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			read: func(r *Reader) error { _, err := r.ReadLen(); return err },
			kind: errors.KindNumericOverflow,
		},
		{
			name:  "option tag 2",
			data:  []byte{2},
			read:  func(r *Reader) error { _, err := r.ReadOptionTag(); return err },
			kind:  errors.KindInvalidOptionTag,
			value: byte(2),
		},
		{
			name: "trailing data",
			data: []byte{1, 2},
			read: func(r *Reader) error {
				if _, err := r.ReadU8(); err != nil {
					return err
				}
				return r.Done()
			},
			kind: errors.KindTrailingData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(tt.data))
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
			if tt.value != nil {
				e, ok := err.(*errors.Error)
				if !ok {
					t.Fatalf("err is %T, want *errors.Error", err)
				}
				if e.Value != tt.value {
					t.Errorf("Value = %v (%T), want %v (%T)", e.Value, e.Value, tt.value, tt.value)
				}
			}
		})
	}
}

func TestReader_StringDoesNotAlias(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("abc")
	data := w.Bytes()

	s, err := NewReader(data).ReadString()
	if err != nil {
		t.Fatal(err)
	}
	data[8] = 'z'
	if s != "abc" {
		t.Errorf("string aliases source buffer: %q", s)
	}
}

func TestReader_Limits(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("abcdef")

	r := NewReader(w.Bytes()).WithLimits(bytebridge.Limits{MaxStringBytes: 4})
	if _, err := r.ReadString(); !errors.IsKind(err, errors.KindLimitExceeded) {
		t.Fatalf("err = %v, want limit_exceeded", err)
	}
	if r.Limits().MaxSequenceLength != bytebridge.DefaultMaxSequenceLength {
		t.Errorf("zero limit not normalized: %d", r.Limits().MaxSequenceLength)
	}
}
