// Package abi provides internal helpers shared by the codec's typed and
// dynamic paths.
//
// # Contents
//
//   - coerce.go: loose numeric input (YAML and JSON numbers, other Go
//     integer widths) narrowed to fixed-width wire integers with range checks
//   - helpers.go: saturating arithmetic for width calculations, type names
//     for error messages
//
// This package is internal to the codec.
package abi
