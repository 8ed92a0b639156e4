package codec

import (
	"reflect"
	"strconv"
	"time"
	"unsafe"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

// Encoder writes Go values through compiled types.
type Encoder struct {
	compiler *Compiler
}

func NewEncoder(c *Compiler) *Encoder {
	if c == nil {
		c = NewCompiler(nil)
	}
	return &Encoder{compiler: c}
}

// Encode writes v to s. v may be a value or a pointer to one; a pointer to
// an interface selects the union registered for that interface.
func (e *Encoder) Encode(s bytebridge.Sink, v any) error {
	if v == nil {
		return errors.NilPointer(errors.PhaseEncode, nil, "<nil>")
	}
	if m, ok := v.(bytebridge.Marshaler); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return errors.NilPointer(errors.PhaseEncode, nil, rv.Type().String())
		}
		m.EncodeByteBridge(s)
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errors.NilPointer(errors.PhaseEncode, nil, rv.Type().String())
		}
		// *T is encoded as T unless T itself is described as an option
		rv = rv.Elem()
	}

	ct, err := e.compiler.Compile(rv.Type())
	if err != nil {
		return err
	}
	if rv.CanAddr() {
		return encodeAt(s, ct, unsafe.Pointer(rv.UnsafeAddr()))
	}
	tmp := reflect.New(rv.Type())
	tmp.Elem().Set(rv)
	return encodeAt(s, ct, tmp.UnsafePointer())
}

// EncodeCompiled writes the value at ptr, which must point to ct.GoType.
func EncodeCompiled(s bytebridge.Sink, ct *CompiledType, ptr unsafe.Pointer) error {
	return encodeAt(s, ct, ptr)
}

func encodeAt(s bytebridge.Sink, ct *CompiledType, ptr unsafe.Pointer) error {
	switch ct.Kind {
	case KindBool:
		s.WriteBool(*(*bool)(ptr))
	case KindU8:
		s.WriteU8(*(*uint8)(ptr))
	case KindU16:
		s.WriteU16(*(*uint16)(ptr))
	case KindU32:
		s.WriteU32(*(*uint32)(ptr))
	case KindU64:
		s.WriteU64(*(*uint64)(ptr))
	case KindI8:
		s.WriteI8(*(*int8)(ptr))
	case KindI16:
		s.WriteI16(*(*int16)(ptr))
	case KindI32:
		s.WriteI32(*(*int32)(ptr))
	case KindI64:
		s.WriteI64(*(*int64)(ptr))
	case KindF32:
		s.WriteF32(*(*float32)(ptr))
	case KindF64:
		s.WriteF64(*(*float64)(ptr))
	case KindString:
		s.WriteString(*(*string)(ptr))
	case KindDuration:
		bytebridge.WriteDuration(s, *(*time.Duration)(ptr))
	case KindIsize:
		bytebridge.WriteInt(s, *(*int)(ptr))
	case KindUsize:
		bytebridge.WriteUint(s, *(*uint)(ptr))

	case KindRecord:
		for i := range ct.Fields {
			f := &ct.Fields[i]
			if err := encodeAt(s, f.Type, unsafe.Add(ptr, f.GoOffset)); err != nil {
				return errors.Prefix(err, f.Name)
			}
		}

	case KindList:
		sv := reflect.NewAt(ct.GoType, ptr).Elem()
		n := sv.Len()
		s.WriteLen(n)
		return encodeElems(s, ct.Elem, sv, n)

	case KindArray:
		s.WriteLen(ct.Len)
		size := ct.Elem.GoSize
		for i := 0; i < ct.Len; i++ {
			if err := encodeAt(s, ct.Elem, unsafe.Add(ptr, uintptr(i)*size)); err != nil {
				return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
			}
		}

	case KindMap:
		return encodeMap(s, ct, reflect.NewAt(ct.GoType, ptr).Elem())

	case KindOption:
		p := *(*unsafe.Pointer)(ptr)
		s.WriteOptionTag(p != nil)
		if p != nil {
			return encodeAt(s, ct.Elem, p)
		}

	case KindUnion:
		return encodeUnion(s, ct, reflect.NewAt(ct.GoType, ptr).Elem())

	case KindCustom:
		m := reflect.NewAt(ct.GoType, ptr).Elem().Interface().(bytebridge.Marshaler)
		m.EncodeByteBridge(s)

	default:
		return errors.Unsupported(errors.PhaseEncode, ct.Kind.String())
	}
	return nil
}

func encodeElems(s bytebridge.Sink, elem *CompiledType, sv reflect.Value, n int) error {
	if n == 0 {
		return nil
	}
	base := sv.Index(0).Addr().UnsafePointer()
	for i := 0; i < n; i++ {
		if err := encodeAt(s, elem, unsafe.Add(base, uintptr(i)*elem.GoSize)); err != nil {
			return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

// encodeMap writes pairs in sorted key order so equal maps produce equal
// bytes. Order is not part of the wire contract.
func encodeMap(s bytebridge.Sink, ct *CompiledType, m reflect.Value) error {
	s.WriteMapLen(m.Len())
	if m.Len() == 0 {
		return nil
	}
	keys := m.MapKeys()
	sortKeys(keys)

	key := reflect.New(ct.Key.GoType)
	val := reflect.New(ct.Elem.GoType)
	for _, k := range keys {
		key.Elem().Set(k)
		val.Elem().Set(m.MapIndex(k))
		if err := encodeAt(s, ct.Key, key.UnsafePointer()); err != nil {
			return errors.Prefix(err, "{"+keyString(k)+"}")
		}
		if err := encodeAt(s, ct.Elem, val.UnsafePointer()); err != nil {
			return errors.Prefix(err, "{"+keyString(k)+"}")
		}
	}
	return nil
}

func encodeUnion(s bytebridge.Sink, ct *CompiledType, iv reflect.Value) error {
	if iv.IsNil() {
		return errors.NilPointer(errors.PhaseEncode, nil, ct.GoType.String())
	}
	dyn := iv.Elem()
	if dyn.Kind() == reflect.Pointer {
		if dyn.IsNil() {
			return errors.NilPointer(errors.PhaseEncode, nil, dyn.Type().String())
		}
		dyn = dyn.Elem()
	}
	idx, ok := ct.CaseIndex(dyn.Type())
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, nil, dyn.Type().String(), ct.Name)
	}
	c := &ct.Cases[idx]
	s.WriteVariant(uint8(idx))

	tmp := reflect.New(dyn.Type())
	tmp.Elem().Set(dyn)
	if err := encodeAt(s, c.Type, tmp.UnsafePointer()); err != nil {
		return errors.Prefix(err, c.Name)
	}
	return nil
}
