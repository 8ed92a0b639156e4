// Package layout computes minimum flat wire widths for schema types.
//
// The decoder uses the minimum width of an element type to bound how much
// memory a declared sequence length may preallocate: a length prefix can
// never describe more elements than the remaining bytes could hold.
//
// # Width Rules
//
//	Type                 Min width
//	────────────────────────────────────
//	bool, u8, i8         1
//	u16, i16             2
//	u32, i32, f32        4
//	u64, i64, f64        8
//	isize, usize         8
//	duration             8
//	string, list, map    8 (length prefix)
//	array<T,N>           8 + N*width(T)
//	option<T>            1 (absent tag)
//	record               sum of fields
//	union                1 + narrowest variant
//
// This package is internal to the codec.
package layout
