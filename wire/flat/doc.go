// Package flat implements the fixed-width little-endian framing.
//
// Widths on the wire:
//
//	bool              1 byte, 0x00 or 0x01
//	u8, i8            1 byte
//	u16, i16          2 bytes
//	u32, i32, f32     4 bytes
//	u64, i64, f64     8 bytes
//	isize, usize      8 bytes
//	duration          8 bytes, whole seconds
//	string            u64 byte count + UTF-8 bytes
//	list, array       u64 element count + elements
//	map               u64 pair count + key, value pairs
//	option            1 byte tag (0 absent, 1 present) + payload
//	union             1 byte discriminant + variant fields
//
// There is no magic number, version byte or checksum. Every read checks that
// enough bytes remain before touching the buffer.
package flat
