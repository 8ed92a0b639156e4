package types

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindDuration
	KindIsize
	KindUsize
	KindRecord
	KindUnion
	KindList
	KindMap
	KindArray
	KindOption
	KindCustom
)

var kindNames = [...]string{
	KindBool:     "bool",
	KindU8:       "u8",
	KindU16:      "u16",
	KindU32:      "u32",
	KindU64:      "u64",
	KindI8:       "i8",
	KindI16:      "i16",
	KindI32:      "i32",
	KindI64:      "i64",
	KindF32:      "f32",
	KindF64:      "f64",
	KindString:   "string",
	KindDuration: "duration",
	KindIsize:    "isize",
	KindUsize:    "usize",
	KindRecord:   "record",
	KindUnion:    "union",
	KindList:     "list",
	KindMap:      "map",
	KindArray:    "array",
	KindOption:   "option",
	KindCustom:   "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindUsize
}
