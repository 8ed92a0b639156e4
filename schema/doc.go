// Package schema is the structural description shared by the runtime codec
// and the source generators.
//
// A Schema is an ordered list of named records and tagged unions. Each
// field has a Type built from primitives, list, map, array, option and
// references to other definitions:
//
//	Type expression      Wire (flat)
//	──────────────────────────────────────────────
//	bool                 1 byte, 0x00 or 0x01
//	u8..u64, i8..i64     1/2/4/8 bytes little-endian
//	f32, f64             IEEE 754 little-endian
//	isize, usize         8 bytes
//	duration             u64 whole seconds
//	nonzero<uN>          as uN, zero rejected on decode
//	string               u64 length + UTF-8 bytes
//	list<T>              u64 count + elements
//	map<K,V>             u64 count + key/value pairs
//	array<T,N>           u64 count (must equal N) + elements
//	option<T>            1 byte tag + T when present
//	Record               fields in declaration order
//	Union                1 byte discriminant + variant fields
//
// # Sources
//
// Descriptions come from three places:
//
//	Parse / Load   - YAML schema files
//	Describe       - annotated Go types and a union Registry
//	FromWIT        - WIT records and variants
//
// Validate applies every generation-time rule and returns all violations
// at once. Fingerprint hashes the canonical form so two peers can detect
// schema skew before exchanging data.
package schema
