package codec

import (
	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

// Codec encodes and decodes Go values. It owns a Compiler, so codecs built
// for one Codec are never visible to another. A Codec is safe for
// concurrent use.
type Codec struct {
	compiler *Compiler
	registry *schema.Registry
	enc      *Encoder
	dec      *Decoder
	limits   bytebridge.Limits
}

// New returns a Codec with default limits and an empty union registry.
func New(opts ...Option) *Codec {
	c := &Codec{limits: bytebridge.DefaultLimits()}
	for _, opt := range opts {
		opt(c)
	}
	if c.compiler == nil {
		c.compiler = NewCompiler(c.registry)
	}
	c.enc = NewEncoder(c.compiler)
	c.dec = NewDecoder(c.compiler)
	return c
}

func (c *Codec) Compiler() *Compiler {
	return c.compiler
}

func (c *Codec) Limits() bytebridge.Limits {
	return c.limits
}

// Encode writes v to any sink.
func (c *Codec) Encode(s bytebridge.Sink, v any) error {
	return c.enc.Encode(s, v)
}

// Decode reads one value from src into out without checking for trailing
// bytes, so several values can be read from one source.
func (c *Codec) Decode(src bytebridge.Source, out any) error {
	return c.dec.Decode(src, out)
}

// Marshal encodes v with the flat framing.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return c.MarshalFormat(wire.FormatFlat, v)
}

// Unmarshal decodes exactly one flat value from data. Unread bytes are a
// trailing_data error.
func (c *Codec) Unmarshal(data []byte, out any) error {
	return c.UnmarshalFormat(wire.FormatFlat, data, out)
}

// MarshalFormat encodes v with the given framing.
func (c *Codec) MarshalFormat(f wire.Format, v any) ([]byte, error) {
	s, err := getSink(f)
	if err != nil {
		return nil, err
	}
	defer putSink(f, s)

	if err := c.enc.Encode(s, v); err != nil {
		return nil, err
	}
	if ew, ok := s.(interface{ Err() error }); ok && ew.Err() != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, ew.Err(), "sink failed")
	}
	out := make([]byte, s.Len())
	copy(out, s.Bytes())
	return out, nil
}

// UnmarshalFormat decodes exactly one value with the given framing.
func (c *Codec) UnmarshalFormat(f wire.Format, data []byte, out any) error {
	src, err := wire.NewSourceLimits(f, data, c.limits)
	if err != nil {
		return err
	}
	if err := c.dec.Decode(src, out); err != nil {
		return err
	}
	return src.Done()
}

// MarshalFramed encodes v with the given framing and prepends the format
// byte.
func (c *Codec) MarshalFramed(f wire.Format, v any) ([]byte, error) {
	payload, err := c.MarshalFormat(f, v)
	if err != nil {
		return nil, err
	}
	return wire.Frame(f, payload), nil
}

// UnmarshalFramed reads the format byte and decodes the payload with it.
func (c *Codec) UnmarshalFramed(data []byte, out any) error {
	f, payload, err := wire.Unframe(data)
	if err != nil {
		return err
	}
	return c.UnmarshalFormat(f, payload, out)
}

// MarshalValue encodes a dynamic value described by t.
func (c *Codec) MarshalValue(f wire.Format, sch *schema.Schema, t *schema.Type, v any) ([]byte, error) {
	s, err := getSink(f)
	if err != nil {
		return nil, err
	}
	defer putSink(f, s)

	if err := EncodeValue(s, sch, t, v); err != nil {
		return nil, err
	}
	if ew, ok := s.(interface{ Err() error }); ok && ew.Err() != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, ew.Err(), "sink failed")
	}
	out := make([]byte, s.Len())
	copy(out, s.Bytes())
	return out, nil
}

// UnmarshalValue decodes exactly one dynamic value described by t.
func (c *Codec) UnmarshalValue(f wire.Format, data []byte, sch *schema.Schema, t *schema.Type) (any, error) {
	src, err := wire.NewSourceLimits(f, data, c.limits)
	if err != nil {
		return nil, err
	}
	v, err := DecodeValue(src, sch, t)
	if err != nil {
		return nil, err
	}
	if err := src.Done(); err != nil {
		return nil, err
	}
	return v, nil
}

// Marshal encodes v with the flat framing using a throwaway Codec. Unions
// need a registry; use New(WithRegistry(...)) for those.
func Marshal(v any) ([]byte, error) {
	return New().Marshal(v)
}

// Unmarshal decodes one flat value using a throwaway Codec.
func Unmarshal(data []byte, out any) error {
	return New().Unmarshal(data, out)
}

// MarshalFormat is Codec.MarshalFormat on a throwaway Codec.
func MarshalFormat(f wire.Format, v any) ([]byte, error) {
	return New().MarshalFormat(f, v)
}

// UnmarshalFormat is Codec.UnmarshalFormat on a throwaway Codec.
func UnmarshalFormat(f wire.Format, data []byte, out any) error {
	return New().UnmarshalFormat(f, data, out)
}

// MarshalFramed is Codec.MarshalFramed on a throwaway Codec.
func MarshalFramed(f wire.Format, v any) ([]byte, error) {
	return New().MarshalFramed(f, v)
}

// UnmarshalFramed is Codec.UnmarshalFramed on a throwaway Codec.
func UnmarshalFramed(data []byte, out any) error {
	return New().UnmarshalFramed(data, out)
}

// MarshalTyped encodes v as T. Passing &v lets an interface T select its
// registered union instead of the dynamic variant's record.
func MarshalTyped[T any](c *Codec, v T) ([]byte, error) {
	return c.Marshal(&v)
}

// UnmarshalTyped decodes one flat value as T.
func UnmarshalTyped[T any](c *Codec, data []byte) (T, error) {
	var v T
	err := c.Unmarshal(data, &v)
	return v, err
}
