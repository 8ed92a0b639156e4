// Package boundary moves codec values across a foreign runtime boundary.
//
// The foreign side here is a WebAssembly guest run by wazero: a Session
// encodes values with the flat framing into guest linear memory and
// decodes values the guest wrote back. Bytes are always copied out of
// guest memory before decoding, so the decoded value never aliases memory
// the guest may reuse.
//
// A Session owns its codec.Compiler. Compiled type descriptors are cached
// per session and dropped with it; there is no process-wide cache.
//
// Decode failures are returned as *errors.Error values. Throwable
// translates them into the class/message pair a host layer raises on the
// foreign side.
package boundary
