package wire

import (
	"bytes"
	"testing"

	"github.com/wippyai/bytebridge/errors"
)

func TestFrameUnframe(t *testing.T) {
	for _, f := range []Format{FormatFlat, FormatMsgpack} {
		t.Run(f.String(), func(t *testing.T) {
			sink, err := NewSink(f)
			if err != nil {
				t.Fatal(err)
			}
			sink.WriteI32(-7)
			sink.WriteString("ok")

			framed := Frame(f, sink.Bytes())
			if framed[0] != byte(f) {
				t.Fatalf("first byte = %#x, want %#x", framed[0], byte(f))
			}

			got, payload, err := Unframe(framed)
			if err != nil {
				t.Fatal(err)
			}
			if got != f {
				t.Fatalf("format = %v, want %v", got, f)
			}
			if !bytes.Equal(payload, sink.Bytes()) {
				t.Fatalf("payload = %x, want %x", payload, sink.Bytes())
			}

			src, err := NewSource(got, payload)
			if err != nil {
				t.Fatal(err)
			}
			if v, err := src.ReadI32(); err != nil || v != -7 {
				t.Fatalf("ReadI32 = %v, %v", v, err)
			}
			if v, err := src.ReadString(); err != nil || v != "ok" {
				t.Fatalf("ReadString = %q, %v", v, err)
			}
			if err := src.Done(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestUnframeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"empty", nil, errors.KindInsufficientData},
		{"zero byte", []byte{0x00, 1, 2}, errors.KindUnknownFormat},
		{"unassigned byte", []byte{0x7f}, errors.KindUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unframe(tt.data)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"flat", FormatFlat, true},
		{"MsgPack", FormatMsgpack, true},
		{"", FormatFlat, true},
		{"cbor", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, ok = %v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnknownFormatConstructors(t *testing.T) {
	if _, err := NewSink(Format(9)); !errors.IsKind(err, errors.KindUnknownFormat) {
		t.Errorf("NewSink err = %v", err)
	}
	if _, err := NewSource(Format(9), nil); !errors.IsKind(err, errors.KindUnknownFormat) {
		t.Errorf("NewSource err = %v", err)
	}
}
