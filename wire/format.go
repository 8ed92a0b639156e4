// Package wire names the supported framings and implements the framed
// envelope, a single leading format byte followed by the payload.
//
// The flat framing is the primary wire format. The envelope exists so that a
// receiver can accept either framing without guessing from the payload.
package wire

import (
	"strings"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/wire/flat"
	"github.com/wippyai/bytebridge/wire/msgpack"
)

// Format identifies a framing. The value is the envelope's first byte.
type Format uint8

const (
	FormatFlat    Format = 0x01
	FormatMsgpack Format = 0x02
)

func (f Format) String() string {
	switch f {
	case FormatFlat:
		return "flat"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// Valid reports whether f names a supported framing.
func (f Format) Valid() bool {
	return f == FormatFlat || f == FormatMsgpack
}

// ParseFormat maps a format name to its identifier.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "flat", "":
		return FormatFlat, nil
	case "msgpack", "messagepack":
		return FormatMsgpack, nil
	}
	return 0, errors.New(errors.PhaseParse, errors.KindUnknownFormat).
		Value(name).
		Detail("unknown format %q", name).
		Build()
}

// Sink is a bytebridge.Sink that collects its output in memory.
type Sink interface {
	bytebridge.Sink
	Bytes() []byte
	Len() int
	Reset()
}

// Source is a bytebridge.Source that can report unread trailing bytes.
type Source interface {
	bytebridge.Source
	Done() error
}

// NewSink returns an empty sink for the format.
func NewSink(f Format) (Sink, error) {
	switch f {
	case FormatFlat:
		return flat.NewWriter(64), nil
	case FormatMsgpack:
		return msgpack.NewWriter(), nil
	}
	return nil, unknownFormat(byte(f))
}

// NewSource returns a source reading data in the format.
func NewSource(f Format, data []byte) (Source, error) {
	return NewSourceLimits(f, data, bytebridge.DefaultLimits())
}

// NewSourceLimits is NewSource with explicit decode limits.
func NewSourceLimits(f Format, data []byte, limits bytebridge.Limits) (Source, error) {
	switch f {
	case FormatFlat:
		return flat.NewReader(data).WithLimits(limits), nil
	case FormatMsgpack:
		return msgpack.NewReader(data).WithLimits(limits), nil
	}
	return nil, unknownFormat(byte(f))
}

// Frame prepends the format byte to payload.
func Frame(f Format, payload []byte) []byte {
	out := make([]byte, 1+len(payload))
	out[0] = byte(f)
	copy(out[1:], payload)
	return out
}

// Unframe splits an envelope into its format and payload. The payload
// aliases data.
func Unframe(data []byte) (Format, []byte, error) {
	if len(data) == 0 {
		return 0, nil, errors.InsufficientData([]string{"format"}, 1, 0)
	}
	f := Format(data[0])
	if !f.Valid() {
		return 0, nil, unknownFormat(data[0])
	}
	return f, data[1:], nil
}

func unknownFormat(b byte) error {
	return errors.New(errors.PhaseDecode, errors.KindUnknownFormat).
		Value(b).
		Detail("unknown format identifier 0x%02x", b).
		Build()
}
