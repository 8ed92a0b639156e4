package boundary

import (
	"context"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bytebridge/codec"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/schema"
)

// Handle locates an encoded value in foreign memory.
type Handle struct {
	Ptr uint32
	Len uint32
}

// Session passes values to and from one foreign runtime. Its codec and
// compiled type cache live as long as the session. A Session is safe for
// concurrent use.
type Session struct {
	mem         Memory
	alloc       Allocator
	codec       *codec.Codec
	log         *zap.Logger
	live        *AllocationList
	fingerprint schema.Fingerprint
	mu          sync.Mutex
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithFingerprint sets the schema fingerprint Handshake expects from the
// foreign side.
func WithFingerprint(fp schema.Fingerprint) Option {
	return func(s *Session) {
		s.fingerprint = fp
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithCodec uses c instead of a fresh codec.Codec. Use it to share a union
// registry or decode limits.
func WithCodec(c *codec.Codec) Option {
	return func(s *Session) {
		s.codec = c
	}
}

// NewSession creates a session over mem, allocating with alloc.
func NewSession(mem Memory, alloc Allocator, opts ...Option) *Session {
	s := &Session{
		mem:   mem,
		alloc: alloc,
		live:  NewAllocationList(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = codec.New()
	}
	if s.log == nil {
		s.log = Logger()
	}
	return s
}

// NewWazeroSession creates a session over an instantiated guest module.
// The module must export a memory and an allocator.
func NewWazeroSession(mod api.Module, opts ...Option) (*Session, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseBoundary, errors.KindUnsupported).
			Detail("guest module %q exports no memory", mod.Name()).
			Build()
	}
	alloc, err := NewExportedAllocator(mod)
	if err != nil {
		return nil, err
	}
	return NewSession(NewWazeroMemory(mem), alloc, opts...), nil
}

// Codec returns the session's codec.
func (s *Session) Codec() *codec.Codec {
	return s.codec
}

// Handshake compares the foreign side's schema fingerprint with the one
// given to WithFingerprint. Without WithFingerprint every remote
// fingerprint is accepted.
func (s *Session) Handshake(remote [32]byte) error {
	if s.fingerprint.IsZero() {
		return nil
	}
	if schema.Fingerprint(remote) != s.fingerprint {
		s.log.Warn("schema fingerprint mismatch",
			zap.Stringer("local", s.fingerprint),
			zap.Stringer("remote", schema.Fingerprint(remote)))
		return errors.New(errors.PhaseBoundary, errors.KindSchemaMismatch).
			Value(schema.Fingerprint(remote).String()).
			Detail("remote schema %s, local schema %s", schema.Fingerprint(remote), s.fingerprint).
			Build()
	}
	return nil
}

// Pass encodes v with the flat framing into freshly allocated foreign
// memory. The region stays allocated until Release or Close. An empty
// encoding allocates nothing and yields the zero Handle.
func (s *Session) Pass(ctx context.Context, v any) (Handle, error) {
	if err := s.enter(ctx); err != nil {
		return Handle{}, err
	}
	defer s.mu.Unlock()

	data, err := s.codec.Marshal(v)
	if err != nil {
		return Handle{}, err
	}
	if len(data) == 0 {
		return Handle{}, nil
	}
	if uint64(len(data)) > math.MaxUint32 {
		return Handle{}, errors.New(errors.PhaseBoundary, errors.KindLimitExceeded).
			Value(len(data)).
			Detail("encoded value does not fit 32-bit foreign memory").
			Build()
	}

	size := uint32(len(data))
	ptr, err := s.alloc.Alloc(ctx, size, 1)
	if err != nil {
		return Handle{}, err
	}
	if err := s.mem.Write(ptr, data); err != nil {
		s.alloc.Free(ctx, ptr, size, 1)
		return Handle{}, err
	}
	s.live.Add(ptr, size, 1)

	s.log.Debug("passed value",
		zap.Uint32("ptr", ptr),
		zap.Uint32("len", size))
	return Handle{Ptr: ptr, Len: size}, nil
}

// Receive copies the bytes at h out of foreign memory and decodes exactly
// one flat value into out. Decode failures are *errors.Error values; the
// session stays usable.
func (s *Session) Receive(ctx context.Context, h Handle, out any) error {
	if err := s.enter(ctx); err != nil {
		return err
	}
	var data []byte
	if h.Len > 0 {
		view, err := s.mem.Read(h.Ptr, h.Len)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		data = make([]byte, len(view))
		copy(data, view)
	}
	s.mu.Unlock()

	if err := s.codec.Unmarshal(data, out); err != nil {
		s.log.Debug("decode failed",
			zap.Uint32("ptr", h.Ptr),
			zap.Uint32("len", h.Len),
			zap.String("kind", string(errors.KindOf(err))))
		return err
	}
	return nil
}

// Release frees a region returned by Pass. Unknown handles are ignored.
func (s *Session) Release(ctx context.Context, h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || h.Len == 0 {
		return
	}
	if a, ok := s.live.Remove(h.Ptr); ok {
		s.alloc.Free(ctx, a.Ptr, a.Size, a.Align)
	}
}

// Outstanding returns the number of regions passed and not yet released.
func (s *Session) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.live.Count()
}

// Close frees every outstanding region. Later calls fail with a closed
// error; Close itself is idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	n := s.live.Count()
	s.live.FreeAndRelease(ctx, s.alloc)
	s.live = nil
	s.log.Debug("session closed", zap.Int("freed", n))
	return nil
}

// enter locks the session. On success the caller must unlock.
func (s *Session) enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.PhaseBoundary, errors.KindClosed, err, "context done")
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New(errors.PhaseBoundary, errors.KindClosed).Detail("session is closed").Build()
	}
	return nil
}
