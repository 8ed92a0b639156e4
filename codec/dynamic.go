package codec

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/codec/internal/types"
	"github.com/wippyai/bytebridge/errors"
	"github.com/wippyai/bytebridge/internal/abi"
	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
)

// Record is a decoded record without a Go type. Fields keep declaration
// order.
type Record struct {
	Name   string
	Fields []FieldValue
}

type FieldValue struct {
	Value any
	Name  string
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalYAML renders the record as a mapping in field order.
func (r *Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r.Fields {
		var val yaml.Node
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}, &val)
	}
	return n, nil
}

// VariantValue is a decoded union value without a Go type.
type VariantValue struct {
	Fields *Record
	Union  string
	Name   string
	Index  int
}

// MarshalYAML renders the variant as a single-key mapping.
func (v *VariantValue) MarshalYAML() (any, error) {
	var body yaml.Node
	if err := body.Encode(v.Fields); err != nil {
		return nil, err
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Name},
			&body,
		},
	}, nil
}

// EncodeValue writes a dynamic value of type t. Records accept *Record or a
// string-keyed map; unions accept *VariantValue or a map with the variant
// name as its single key. Numbers are narrowed with range checks, and a
// record field missing from a map takes its declared default.
func EncodeValue(s bytebridge.Sink, sch *schema.Schema, t *schema.Type, v any) error {
	d := dynamic{schema: sch, widths: layout.NewCalculator(sch)}
	return d.encode(s, t, types.Check{}, v)
}

// DecodeValue reads a dynamic value of type t.
func DecodeValue(src bytebridge.Source, sch *schema.Schema, t *schema.Type) (any, error) {
	d := dynamic{schema: sch, widths: layout.NewCalculator(sch)}
	return d.decode(src, t, types.Check{})
}

type dynamic struct {
	schema *schema.Schema
	widths *layout.Calculator
}

func mismatch(v any, t *schema.Type) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), t.String())
}

func overflow(v any, t *schema.Type) error {
	return errors.Overflow(errors.PhaseEncode, nil, v, t.String())
}

var unsignedLimits = map[schema.Kind]uint64{
	schema.KindU8:    math.MaxUint8,
	schema.KindU16:   math.MaxUint16,
	schema.KindU32:   math.MaxUint32,
	schema.KindU64:   math.MaxUint64,
	schema.KindUsize: math.MaxUint64,
}

var signedLimits = map[schema.Kind][2]int64{
	schema.KindI8:    {math.MinInt8, math.MaxInt8},
	schema.KindI16:   {math.MinInt16, math.MaxInt16},
	schema.KindI32:   {math.MinInt32, math.MaxInt32},
	schema.KindI64:   {math.MinInt64, math.MaxInt64},
	schema.KindIsize: {math.MinInt64, math.MaxInt64},
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func (d *dynamic) encode(s bytebridge.Sink, t *schema.Type, c types.Check, v any) error {
	k := t.Kind
	if k == schema.KindNonZero {
		c.NonZero = true
		k = t.Elem.Kind
	}

	if limit, ok := unsignedLimits[k]; ok {
		u, ok := abi.CoerceUnsigned(v, limit)
		if !ok {
			if isNumber(v) {
				return overflow(v, t)
			}
			return mismatch(v, t)
		}
		if err := checkUnsigned(errors.PhaseEncode, c, u); err != nil {
			return err
		}
		switch k {
		case schema.KindU8:
			s.WriteU8(uint8(u))
		case schema.KindU16:
			s.WriteU16(uint16(u))
		case schema.KindU32:
			s.WriteU32(uint32(u))
		default:
			s.WriteU64(u)
		}
		return nil
	}
	if lim, ok := signedLimits[k]; ok {
		i, ok := abi.CoerceSigned(v, lim[0], lim[1])
		if !ok {
			if isNumber(v) {
				return overflow(v, t)
			}
			return mismatch(v, t)
		}
		if err := checkSigned(errors.PhaseEncode, c, i); err != nil {
			return err
		}
		switch k {
		case schema.KindI8:
			s.WriteI8(int8(i))
		case schema.KindI16:
			s.WriteI16(int16(i))
		case schema.KindI32:
			s.WriteI32(int32(i))
		default:
			s.WriteI64(i)
		}
		return nil
	}

	switch k {
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(v, t)
		}
		s.WriteBool(b)

	case schema.KindF32:
		f, ok := abi.CoerceToFloat32(v)
		if !ok {
			return mismatch(v, t)
		}
		if err := checkFloat(errors.PhaseEncode, c, float64(f)); err != nil {
			return err
		}
		s.WriteF32(f)

	case schema.KindF64:
		f, ok := abi.CoerceToFloat64(v)
		if !ok {
			return mismatch(v, t)
		}
		if err := checkFloat(errors.PhaseEncode, c, f); err != nil {
			return err
		}
		s.WriteF64(f)

	case schema.KindString:
		str, ok := v.(string)
		if !ok {
			return mismatch(v, t)
		}
		s.WriteString(str)

	case schema.KindDuration:
		dur, err := toDuration(v)
		if err != nil {
			return err
		}
		bytebridge.WriteDuration(s, dur)

	case schema.KindList, schema.KindArray:
		items, ok := toSlice(v)
		if !ok {
			return mismatch(v, t)
		}
		if k == schema.KindArray && len(items) != t.Len {
			return errors.New(errors.PhaseEncode, errors.KindArityMismatch).
				Value(len(items)).
				Detail("expected array of length %d, got length %d", t.Len, len(items)).
				Build()
		}
		s.WriteLen(len(items))
		for i, item := range items {
			if err := d.encode(s, t.Elem, types.Check{}, item); err != nil {
				return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
			}
		}

	case schema.KindMap:
		return d.encodeMap(s, t, v)

	case schema.KindOption:
		s.WriteOptionTag(v != nil)
		if v != nil {
			return d.encode(s, t.Elem, c, v)
		}

	case schema.KindRef:
		td := d.schema.Lookup(t.Ref)
		if td == nil {
			return errors.New(errors.PhaseEncode, errors.KindUnknownType).SchemaType(t.Ref).Build()
		}
		if td.Kind == schema.DefUnion {
			return d.encodeUnion(s, td, v)
		}
		return d.encodeRecord(s, td.Name, td.Fields, v)

	default:
		return errors.Unsupported(errors.PhaseEncode, t.String())
	}
	return nil
}

func toDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case string:
		dur, err := time.ParseDuration(x)
		if err != nil {
			return 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Value(x).
				Cause(err).
				Detail("invalid duration %q", x).
				Build()
		}
		return dur, nil
	}
	secs, ok := abi.CoerceUnsigned(v, uint64(math.MaxInt64/int64(time.Second)))
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), "duration")
	}
	return time.Duration(secs) * time.Second, nil
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

type pair struct {
	key, val any
}

func (d *dynamic) encodeMap(s bytebridge.Sink, t *schema.Type, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return mismatch(v, t)
	}
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{key: iter.Key().Interface(), val: iter.Value().Interface()})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return keyOrder(pairs[i].key) < keyOrder(pairs[j].key)
	})

	s.WriteMapLen(len(pairs))
	for _, p := range pairs {
		seg := "{" + keyOrder(p.key) + "}"
		if err := d.encode(s, t.Key, types.Check{}, p.key); err != nil {
			return errors.Prefix(err, seg)
		}
		if err := d.encode(s, t.Elem, types.Check{}, p.val); err != nil {
			return errors.Prefix(err, seg)
		}
	}
	return nil
}

func keyOrder(k any) string {
	rv := reflect.ValueOf(k)
	if !rv.IsValid() {
		return ""
	}
	return keyString(rv)
}

func (d *dynamic) encodeRecord(s bytebridge.Sink, name string, fields []*schema.Field, v any) error {
	switch rec := v.(type) {
	case *Record:
		if len(rec.Fields) != len(fields) {
			return errors.New(errors.PhaseEncode, errors.KindSchemaMismatch).
				SchemaType(name).
				Detail("record has %d fields, %s declares %d", len(rec.Fields), name, len(fields)).
				Build()
		}
		for i, f := range fields {
			if err := d.encode(s, f.Type, fieldCheck(f), rec.Fields[i].Value); err != nil {
				return errors.Prefix(err, f.Name)
			}
		}
		return nil

	case map[string]any:
		for key := range rec {
			if !hasField(fields, key) {
				return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
					Path(key).
					SchemaType(name).
					Detail("unknown field %q", key).
					Build()
			}
		}
		for _, f := range fields {
			val, ok := rec[f.Name]
			if !ok {
				var err error
				if val, err = missingField(name, f); err != nil {
					return err
				}
			}
			if err := d.encode(s, f.Type, fieldCheck(f), val); err != nil {
				return errors.Prefix(err, f.Name)
			}
		}
		return nil
	}
	return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), name)
}

func hasField(fields []*schema.Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// missingField supplies the declared default, or nil for an option.
func missingField(record string, f *schema.Field) (any, error) {
	if f.Default != nil {
		return literalValue(f.Default), nil
	}
	if f.Type != nil && f.Type.Kind == schema.KindOption {
		return nil, nil
	}
	return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
		Path(f.Name).
		SchemaType(record).
		Detail("missing field %q", f.Name).
		Build()
}

func literalValue(l *schema.Literal) any {
	switch l.Kind {
	case schema.LitNull:
		return nil
	case schema.LitBool:
		return l.Raw == "true"
	case schema.LitNumber:
		if i, err := strconv.ParseInt(l.Raw, 0, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(l.Raw, 0, 64); err == nil {
			return u
		}
		if f, err := strconv.ParseFloat(l.Raw, 64); err == nil {
			return f
		}
	}
	return l.Raw
}

func fieldCheck(f *schema.Field) types.Check {
	return types.Check{
		Range:   f.Constraints.Range,
		NonZero: f.Constraints.NonZero,
		Natural: f.Constraints.Natural,
	}
}

func (d *dynamic) encodeUnion(s bytebridge.Sink, td *schema.TypeDef, v any) error {
	var (
		name string
		body any
	)
	switch u := v.(type) {
	case *VariantValue:
		if u == nil {
			return errors.NilPointer(errors.PhaseEncode, nil, td.Name)
		}
		name, body = u.Name, u.Fields
		if u.Fields == nil {
			body = &Record{Name: td.Name + u.Name}
		}
	case map[string]any:
		if len(u) != 1 {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				SchemaType(td.Name).
				Detail("union value must have exactly one variant key, got %d", len(u)).
				Build()
		}
		for k, val := range u {
			name, body = k, val
		}
		if body == nil {
			body = map[string]any{}
		}
	default:
		return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), td.Name)
	}

	for i, variant := range td.Variants {
		if variant.Name != name {
			continue
		}
		s.WriteVariant(uint8(i))
		if err := d.encodeRecord(s, td.Name+variant.Name, variant.Fields, body); err != nil {
			return errors.Prefix(err, variant.Name)
		}
		return nil
	}
	return errors.New(errors.PhaseEncode, errors.KindUnknownVariant).
		SchemaType(td.Name).
		Value(name).
		Detail("%s has no variant %q", td.Name, name).
		Build()
}

func (d *dynamic) decode(src bytebridge.Source, t *schema.Type, c types.Check) (any, error) {
	k := t.Kind
	if k == schema.KindNonZero {
		c.NonZero = true
		k = t.Elem.Kind
	}

	switch k {
	case schema.KindBool:
		return src.ReadBool()
	case schema.KindU8:
		v, err := src.ReadU8()
		if err != nil {
			return nil, err
		}
		return v, checkUnsigned(errors.PhaseDecode, c, uint64(v))
	case schema.KindU16:
		v, err := src.ReadU16()
		if err != nil {
			return nil, err
		}
		return v, checkUnsigned(errors.PhaseDecode, c, uint64(v))
	case schema.KindU32:
		v, err := src.ReadU32()
		if err != nil {
			return nil, err
		}
		return v, checkUnsigned(errors.PhaseDecode, c, uint64(v))
	case schema.KindU64, schema.KindUsize:
		v, err := src.ReadU64()
		if err != nil {
			return nil, err
		}
		return v, checkUnsigned(errors.PhaseDecode, c, v)
	case schema.KindI8:
		v, err := src.ReadI8()
		if err != nil {
			return nil, err
		}
		return v, checkSigned(errors.PhaseDecode, c, int64(v))
	case schema.KindI16:
		v, err := src.ReadI16()
		if err != nil {
			return nil, err
		}
		return v, checkSigned(errors.PhaseDecode, c, int64(v))
	case schema.KindI32:
		v, err := src.ReadI32()
		if err != nil {
			return nil, err
		}
		return v, checkSigned(errors.PhaseDecode, c, int64(v))
	case schema.KindI64, schema.KindIsize:
		v, err := src.ReadI64()
		if err != nil {
			return nil, err
		}
		return v, checkSigned(errors.PhaseDecode, c, v)
	case schema.KindF32:
		v, err := src.ReadF32()
		if err != nil {
			return nil, err
		}
		return v, checkFloat(errors.PhaseDecode, c, float64(v))
	case schema.KindF64:
		v, err := src.ReadF64()
		if err != nil {
			return nil, err
		}
		return v, checkFloat(errors.PhaseDecode, c, v)
	case schema.KindString:
		return src.ReadString()
	case schema.KindDuration:
		return bytebridge.ReadDuration(src)

	case schema.KindList:
		n, capHint, err := bytebridge.ReadSeqLen(src, d.widths.MinWidth(t.Elem))
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, capHint)
		for i := 0; i < n; i++ {
			item, err := d.decode(src, t.Elem, types.Check{})
			if err != nil {
				return nil, errors.Prefix(err, "["+strconv.Itoa(i)+"]")
			}
			items = append(items, item)
		}
		return items, nil

	case schema.KindArray:
		if err := bytebridge.ReadArrayLen(src, t.Len); err != nil {
			return nil, err
		}
		items := make([]any, t.Len)
		for i := range items {
			item, err := d.decode(src, t.Elem, types.Check{})
			if err != nil {
				return nil, errors.Prefix(err, "["+strconv.Itoa(i)+"]")
			}
			items[i] = item
		}
		return items, nil

	case schema.KindMap:
		n, capHint, err := bytebridge.ReadMapLen(src, d.widths.MinWidth(t.Key)+d.widths.MinWidth(t.Elem))
		if err != nil {
			return nil, err
		}
		m := make(map[any]any, capHint)
		for i := 0; i < n; i++ {
			key, err := d.decode(src, t.Key, types.Check{})
			if err != nil {
				return nil, errors.Prefix(err, "{"+strconv.Itoa(i)+"}")
			}
			val, err := d.decode(src, t.Elem, types.Check{})
			if err != nil {
				return nil, errors.Prefix(err, "{"+keyOrder(key)+"}")
			}
			m[key] = val
		}
		return m, nil

	case schema.KindOption:
		present, err := src.ReadOptionTag()
		if err != nil || !present {
			return nil, err
		}
		return d.decode(src, t.Elem, c)

	case schema.KindRef:
		td := d.schema.Lookup(t.Ref)
		if td == nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindUnknownType).SchemaType(t.Ref).Build()
		}
		if td.Kind == schema.DefUnion {
			return d.decodeUnion(src, td)
		}
		return d.decodeRecord(src, td.Name, td.Fields)
	}
	return nil, errors.Unsupported(errors.PhaseDecode, t.String())
}

func (d *dynamic) decodeRecord(src bytebridge.Source, name string, fields []*schema.Field) (*Record, error) {
	rec := &Record{Name: name, Fields: make([]FieldValue, len(fields))}
	for i, f := range fields {
		v, err := d.decode(src, f.Type, fieldCheck(f))
		if err != nil {
			return nil, errors.Prefix(err, f.Name)
		}
		rec.Fields[i] = FieldValue{Name: f.Name, Value: v}
	}
	return rec, nil
}

func (d *dynamic) decodeUnion(src bytebridge.Source, td *schema.TypeDef) (*VariantValue, error) {
	disc, err := src.ReadVariant()
	if err != nil {
		return nil, err
	}
	if int(disc) >= len(td.Variants) {
		return nil, errors.UnknownVariant(nil, td.Name, disc, len(td.Variants))
	}
	v := td.Variants[disc]
	rec, err := d.decodeRecord(src, td.Name+v.Name, v.Fields)
	if err != nil {
		return nil, errors.Prefix(err, v.Name)
	}
	return &VariantValue{Union: td.Name, Name: v.Name, Index: int(disc), Fields: rec}, nil
}
