// Package codec derives flat and MessagePack codecs for Go types at run
// time.
//
// A Compiler describes a Go type with schema.Describe, validates the
// description and binds it to the type's memory layout. Encoding walks the
// bound type with unsafe pointers; decoding builds a fresh value and stores
// it into the target only when every field decoded.
//
// Records are fields in declaration order. Unions are sealed interfaces
// registered with schema.RegisterUnion and encode as a discriminant byte
// followed by the variant record. Pointers are options. Maps are written in
// sorted key order.
//
//	c := codec.New(codec.WithRegistry(reg))
//	data, err := c.Marshal(&v)
//	err = c.Unmarshal(data, &out)
//
// Types implementing bytebridge.Marshaler and bytebridge.Unmarshaler, such
// as generated code, use their own methods.
//
// The dynamic path (EncodeValue, DecodeValue) works from a schema.Schema
// alone and represents records as *Record and unions as *VariantValue.
package codec
