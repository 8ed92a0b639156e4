package codec

import (
	"sync"

	"github.com/wippyai/bytebridge/wire"
)

const (
	// Writers that grew past this are dropped instead of pooled.
	poolMaxBytes = 64 << 10
)

var sinkPools = [...]sync.Pool{
	wire.FormatFlat: {New: func() any {
		s, _ := wire.NewSink(wire.FormatFlat)
		return s
	}},
	wire.FormatMsgpack: {New: func() any {
		s, _ := wire.NewSink(wire.FormatMsgpack)
		return s
	}},
}

func getSink(f wire.Format) (wire.Sink, error) {
	if !f.Valid() {
		return wire.NewSink(f)
	}
	return sinkPools[f].Get().(wire.Sink), nil
}

func putSink(f wire.Format, s wire.Sink) {
	if s.Len() > poolMaxBytes {
		return
	}
	s.Reset()
	sinkPools[f].Put(s)
}
