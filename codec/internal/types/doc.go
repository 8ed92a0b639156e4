// Package types defines the compiled type representation used by the codec.
//
// A CompiledType binds one Go type to one schema type. It carries everything
// the encoder and decoder need at run time (field offsets, union cases,
// element types, constraint checks and minimum wire widths) so that no
// reflection over struct tags or schema lookups happen per value.
//
// This package is internal to the codec.
package types
