// Package bytebridge is a length-framed binary codec for passing structured
// values across a foreign function boundary where the two sides share no
// runtime, garbage collector or type system.
//
// # Architecture Overview
//
//	bytebridge/          Sink and Source interfaces, primitive helpers, limits
//	├── wire/            Format identifiers and the framed envelope
//	│   ├── flat/        Fixed-width little-endian framing (primary wire format)
//	│   └── msgpack/     Self-describing MessagePack framing
//	├── schema/          Structural descriptions: YAML, Go reflection, WIT import
//	├── codec/           Reflection-driven encoder and decoder
//	├── gen/             Source generators for Go and Java
//	├── boundary/        Sessions that pass values through wazero guest memory
//	├── errors/          Structured error types
//	└── cmd/bytebridge/  Command line tool
//
// # Wire Format
//
// The flat framing writes every multi-byte number little-endian with a fixed
// width. Strings are a u64 byte count followed by UTF-8 bytes. Sequences and
// maps are a u64 element count followed by the elements. A tagged union is a
// single discriminant byte, the zero-based declaration index of the active
// variant, followed by the variant's fields. A record is the concatenation of
// its fields in declaration order with no names, header or checksum.
//
// Field declaration order is part of the wire contract: reordering fields in a
// shared description is a breaking change.
//
// Pointer-sized integers (Go int and uint) are always 8 bytes. Durations are
// whole seconds as u64; sub-second precision is not preserved.
//
// # Quick Start
//
//	type Point struct {
//	    X int32
//	    Y int32
//	}
//
//	data, err := codec.Marshal(Point{X: 1, Y: 2})
//	var p Point
//	err = codec.Unmarshal(data, &p)
//
// Generated types implement Marshaler and Unmarshaler directly and need no
// reflection:
//
//	w := flat.NewWriter(0)
//	pt.EncodeByteBridge(w)
//	err := pt.DecodeByteBridge(flat.NewReader(w.Bytes()))
package bytebridge
