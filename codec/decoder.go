package codec

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/wippyai/bytebridge"
	"github.com/wippyai/bytebridge/errors"
)

// Decoder reads Go values through compiled types.
type Decoder struct {
	compiler *Compiler
}

func NewDecoder(c *Compiler) *Decoder {
	if c == nil {
		c = NewCompiler(nil)
	}
	return &Decoder{compiler: c}
}

// Decode reads one value from src into out, which must be a non-nil
// pointer. The value is built in a temporary and stored into out only when
// decoding succeeds, so out is never partially written. Types implementing
// bytebridge.Unmarshaler decode themselves.
func (d *Decoder) Decode(src bytebridge.Source, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer {
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Detail("decode target must be a pointer, got %T", out).
			Build()
	}
	if rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, nil, rv.Type().String())
	}
	if u, ok := out.(bytebridge.Unmarshaler); ok {
		return u.DecodeByteBridge(src)
	}

	target := rv.Elem()
	ct, err := d.compiler.Compile(target.Type())
	if err != nil {
		return err
	}
	tmp := reflect.New(target.Type())
	if err := decodeAt(src, ct, tmp.UnsafePointer()); err != nil {
		return err
	}
	target.Set(tmp.Elem())
	return nil
}

// DecodeCompiled reads into ptr, which must point to ct.GoType. Unlike
// Decoder.Decode it writes in place.
func DecodeCompiled(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	return decodeAt(src, ct, ptr)
}

func decodeAt(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	switch ct.Kind {
	case KindBool:
		v, err := src.ReadBool()
		if err != nil {
			return err
		}
		*(*bool)(ptr) = v

	case KindU8:
		v, err := src.ReadU8()
		if err != nil {
			return err
		}
		if err := checkUnsigned(errors.PhaseDecode, ct.Check, uint64(v)); err != nil {
			return err
		}
		*(*uint8)(ptr) = v

	case KindU16:
		v, err := src.ReadU16()
		if err != nil {
			return err
		}
		if err := checkUnsigned(errors.PhaseDecode, ct.Check, uint64(v)); err != nil {
			return err
		}
		*(*uint16)(ptr) = v

	case KindU32:
		v, err := src.ReadU32()
		if err != nil {
			return err
		}
		if err := checkUnsigned(errors.PhaseDecode, ct.Check, uint64(v)); err != nil {
			return err
		}
		*(*uint32)(ptr) = v

	case KindU64:
		v, err := src.ReadU64()
		if err != nil {
			return err
		}
		if err := checkUnsigned(errors.PhaseDecode, ct.Check, v); err != nil {
			return err
		}
		*(*uint64)(ptr) = v

	case KindI8:
		v, err := src.ReadI8()
		if err != nil {
			return err
		}
		if err := checkSigned(errors.PhaseDecode, ct.Check, int64(v)); err != nil {
			return err
		}
		*(*int8)(ptr) = v

	case KindI16:
		v, err := src.ReadI16()
		if err != nil {
			return err
		}
		if err := checkSigned(errors.PhaseDecode, ct.Check, int64(v)); err != nil {
			return err
		}
		*(*int16)(ptr) = v

	case KindI32:
		v, err := src.ReadI32()
		if err != nil {
			return err
		}
		if err := checkSigned(errors.PhaseDecode, ct.Check, int64(v)); err != nil {
			return err
		}
		*(*int32)(ptr) = v

	case KindI64:
		v, err := src.ReadI64()
		if err != nil {
			return err
		}
		if err := checkSigned(errors.PhaseDecode, ct.Check, v); err != nil {
			return err
		}
		*(*int64)(ptr) = v

	case KindF32:
		v, err := src.ReadF32()
		if err != nil {
			return err
		}
		if err := checkFloat(errors.PhaseDecode, ct.Check, float64(v)); err != nil {
			return err
		}
		*(*float32)(ptr) = v

	case KindF64:
		v, err := src.ReadF64()
		if err != nil {
			return err
		}
		if err := checkFloat(errors.PhaseDecode, ct.Check, v); err != nil {
			return err
		}
		*(*float64)(ptr) = v

	case KindString:
		v, err := src.ReadString()
		if err != nil {
			return err
		}
		*(*string)(ptr) = v

	case KindDuration:
		v, err := bytebridge.ReadDuration(src)
		if err != nil {
			return err
		}
		reflect.NewAt(ct.GoType, ptr).Elem().SetInt(int64(v))

	case KindIsize:
		v, err := bytebridge.ReadInt(src)
		if err != nil {
			return err
		}
		if err := checkSigned(errors.PhaseDecode, ct.Check, int64(v)); err != nil {
			return err
		}
		*(*int)(ptr) = v

	case KindUsize:
		v, err := bytebridge.ReadUint(src)
		if err != nil {
			return err
		}
		if err := checkUnsigned(errors.PhaseDecode, ct.Check, uint64(v)); err != nil {
			return err
		}
		*(*uint)(ptr) = v

	case KindRecord:
		for i := range ct.Fields {
			f := &ct.Fields[i]
			if err := decodeAt(src, f.Type, unsafe.Add(ptr, f.GoOffset)); err != nil {
				return errors.Prefix(err, f.Name)
			}
		}

	case KindList:
		return decodeList(src, ct, ptr)

	case KindArray:
		return decodeArray(src, ct, ptr)

	case KindMap:
		return decodeMap(src, ct, ptr)

	case KindOption:
		present, err := src.ReadOptionTag()
		if err != nil {
			return err
		}
		if !present {
			*(*unsafe.Pointer)(ptr) = nil
			return nil
		}
		elem := reflect.New(ct.Elem.GoType)
		if err := decodeAt(src, ct.Elem, elem.UnsafePointer()); err != nil {
			return err
		}
		reflect.NewAt(ct.GoType, ptr).Elem().Set(elem)

	case KindUnion:
		return decodeUnion(src, ct, ptr)

	case KindCustom:
		u := reflect.NewAt(ct.GoType, ptr).Interface().(bytebridge.Unmarshaler)
		return u.DecodeByteBridge(src)

	default:
		return errors.Unsupported(errors.PhaseDecode, ct.Kind.String())
	}
	return nil
}

func decodeList(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	n, capHint, err := bytebridge.ReadSeqLen(src, ct.Elem.MinWidth)
	if err != nil {
		return err
	}
	s := reflect.MakeSlice(ct.GoType, 0, capHint)
	for i := 0; i < n; i++ {
		if i == s.Cap() {
			grown := reflect.MakeSlice(ct.GoType, i, growCap(i, n))
			reflect.Copy(grown, s)
			s = grown
		}
		s = s.Slice(0, i+1)
		if err := decodeAt(src, ct.Elem, s.Index(i).Addr().UnsafePointer()); err != nil {
			return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
		}
	}
	reflect.NewAt(ct.GoType, ptr).Elem().Set(s)
	return nil
}

func growCap(have, want int) int {
	next := have * 2
	if next < 8 {
		next = 8
	}
	if next > want {
		next = want
	}
	return next
}

// decodeArray fills a temporary and copies it into place only after all
// elements decode.
func decodeArray(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	if err := bytebridge.ReadArrayLen(src, ct.Len); err != nil {
		return err
	}
	tmp := reflect.New(ct.GoType)
	base := tmp.UnsafePointer()
	for i := 0; i < ct.Len; i++ {
		if err := decodeAt(src, ct.Elem, unsafe.Add(base, uintptr(i)*ct.Elem.GoSize)); err != nil {
			return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
		}
	}
	reflect.NewAt(ct.GoType, ptr).Elem().Set(tmp.Elem())
	return nil
}

// decodeMap inserts pairs into a fresh map. A repeated key overwrites the
// earlier value.
func decodeMap(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	n, capHint, err := bytebridge.ReadMapLen(src, ct.Key.MinWidth+ct.Elem.MinWidth)
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(ct.GoType, capHint)
	for i := 0; i < n; i++ {
		key := reflect.New(ct.Key.GoType)
		if err := decodeAt(src, ct.Key, key.UnsafePointer()); err != nil {
			return errors.Prefix(err, "{"+strconv.Itoa(i)+"}")
		}
		val := reflect.New(ct.Elem.GoType)
		if err := decodeAt(src, ct.Elem, val.UnsafePointer()); err != nil {
			return errors.Prefix(err, "{"+keyString(key.Elem())+"}")
		}
		m.SetMapIndex(key.Elem(), val.Elem())
	}
	reflect.NewAt(ct.GoType, ptr).Elem().Set(m)
	return nil
}

func decodeUnion(src bytebridge.Source, ct *CompiledType, ptr unsafe.Pointer) error {
	disc, err := src.ReadVariant()
	if err != nil {
		return err
	}
	if int(disc) >= len(ct.Cases) {
		return errors.UnknownVariant(nil, ct.Name, disc, len(ct.Cases))
	}
	c := &ct.Cases[disc]
	v := reflect.New(c.Type.GoType)
	if err := decodeAt(src, c.Type, v.UnsafePointer()); err != nil {
		return errors.Prefix(err, c.Name)
	}
	reflect.NewAt(ct.GoType, ptr).Elem().Set(v.Elem())
	return nil
}
