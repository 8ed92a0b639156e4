package codec

import (
	"github.com/wippyai/bytebridge/codec/internal/types"
)

type TypeKind = types.Kind

const (
	KindBool     = types.KindBool
	KindU8       = types.KindU8
	KindU16      = types.KindU16
	KindU32      = types.KindU32
	KindU64      = types.KindU64
	KindI8       = types.KindI8
	KindI16      = types.KindI16
	KindI32      = types.KindI32
	KindI64      = types.KindI64
	KindF32      = types.KindF32
	KindF64      = types.KindF64
	KindString   = types.KindString
	KindDuration = types.KindDuration
	KindIsize    = types.KindIsize
	KindUsize    = types.KindUsize
	KindRecord   = types.KindRecord
	KindUnion    = types.KindUnion
	KindList     = types.KindList
	KindMap      = types.KindMap
	KindArray    = types.KindArray
	KindOption   = types.KindOption
	KindCustom   = types.KindCustom
)

type CompiledType = types.CompiledType
type CompiledField = types.Field
type CompiledCase = types.Case
