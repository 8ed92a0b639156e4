package msgpack

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

type family uint8

const (
	famInvalid family = iota
	famNil
	famBool
	famUint
	famInt
	famFloat
	famStr
	famBin
	famArray
	famMap
	famExt
)

func classify(c byte) family {
	switch {
	case c <= msgpcode.PosFixedNumHigh:
		return famUint
	case c >= msgpcode.NegFixedNumLow:
		return famInt
	case msgpcode.IsFixedMap(c):
		return famMap
	case msgpcode.IsFixedArray(c):
		return famArray
	case msgpcode.IsString(c):
		return famStr
	case msgpcode.IsBin(c):
		return famBin
	case msgpcode.IsExt(c):
		return famExt
	}
	switch c {
	case msgpcode.Nil:
		return famNil
	case msgpcode.False, msgpcode.True:
		return famBool
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64:
		return famUint
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return famInt
	case msgpcode.Float, msgpcode.Double:
		return famFloat
	case msgpcode.Array16, msgpcode.Array32:
		return famArray
	case msgpcode.Map16, msgpcode.Map32:
		return famMap
	}
	return famInvalid
}

var markerNames = map[byte]string{
	msgpcode.Nil:     "nil",
	msgpcode.False:   "false",
	msgpcode.True:    "true",
	msgpcode.Float:   "float32",
	msgpcode.Double:  "float64",
	msgpcode.Uint8:   "uint8",
	msgpcode.Uint16:  "uint16",
	msgpcode.Uint32:  "uint32",
	msgpcode.Uint64:  "uint64",
	msgpcode.Int8:    "int8",
	msgpcode.Int16:   "int16",
	msgpcode.Int32:   "int32",
	msgpcode.Int64:   "int64",
	msgpcode.Str8:    "str8",
	msgpcode.Str16:   "str16",
	msgpcode.Str32:   "str32",
	msgpcode.Bin8:    "bin8",
	msgpcode.Bin16:   "bin16",
	msgpcode.Bin32:   "bin32",
	msgpcode.Array16: "array16",
	msgpcode.Array32: "array32",
	msgpcode.Map16:   "map16",
	msgpcode.Map32:   "map32",
}

// markerName describes a marker byte for error messages.
func markerName(c byte) string {
	if name, ok := markerNames[c]; ok {
		return name
	}
	switch classify(c) {
	case famUint:
		return "positive fixint"
	case famInt:
		return "negative fixint"
	case famStr:
		return "fixstr"
	case famArray:
		return "fixarray"
	case famMap:
		return "fixmap"
	case famExt:
		return "ext"
	}
	return fmt.Sprintf("0x%02x", c)
}
