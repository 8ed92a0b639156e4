package codec

import (
	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/schema"
)

// Option configures a Codec during construction.
type Option func(*Codec)

// WithLimits sets the decode limits. Zero fields keep their defaults.
func WithLimits(l bytebridge.Limits) Option {
	return func(c *Codec) {
		c.limits = l.Normalize()
	}
}

// WithRegistry resolves unions through reg. Ignored when WithCompiler is
// also given.
func WithRegistry(reg *schema.Registry) Option {
	return func(c *Codec) {
		c.registry = reg
	}
}

// WithCompiler shares an existing compiler and its cache.
func WithCompiler(comp *Compiler) Option {
	return func(c *Codec) {
		c.compiler = comp
	}
}
