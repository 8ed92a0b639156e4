package golang

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wippyai/bytebridge/schema"
)

var scalarGo = map[schema.Kind]string{
	schema.KindBool:   "bool",
	schema.KindU8:     "uint8",
	schema.KindU16:    "uint16",
	schema.KindU32:    "uint32",
	schema.KindU64:    "uint64",
	schema.KindI8:     "int8",
	schema.KindI16:    "int16",
	schema.KindI32:    "int32",
	schema.KindI64:    "int64",
	schema.KindF32:    "float32",
	schema.KindF64:    "float64",
	schema.KindString: "string",
	schema.KindIsize:  "int",
	schema.KindUsize:  "uint",
}

// sinkMethod and sourceMethod name the Sink/Source calls for scalars that
// map directly onto one primitive.
var sinkMethod = map[schema.Kind]string{
	schema.KindBool:   "WriteBool",
	schema.KindU8:     "WriteU8",
	schema.KindU16:    "WriteU16",
	schema.KindU32:    "WriteU32",
	schema.KindU64:    "WriteU64",
	schema.KindI8:     "WriteI8",
	schema.KindI16:    "WriteI16",
	schema.KindI32:    "WriteI32",
	schema.KindI64:    "WriteI64",
	schema.KindF32:    "WriteF32",
	schema.KindF64:    "WriteF64",
	schema.KindString: "WriteString",
}

var sourceMethod = map[schema.Kind]string{
	schema.KindBool:   "ReadBool",
	schema.KindU8:     "ReadU8",
	schema.KindU16:    "ReadU16",
	schema.KindU32:    "ReadU32",
	schema.KindU64:    "ReadU64",
	schema.KindI8:     "ReadI8",
	schema.KindI16:    "ReadI16",
	schema.KindI32:    "ReadI32",
	schema.KindI64:    "ReadI64",
	schema.KindF32:    "ReadF32",
	schema.KindF64:    "ReadF64",
	schema.KindString: "ReadString",
}

var nonZeroReader = map[schema.Kind]string{
	schema.KindU8:  "ReadNonZeroU8",
	schema.KindU16: "ReadNonZeroU16",
	schema.KindU32: "ReadNonZeroU32",
	schema.KindU64: "ReadNonZeroU64",
}

type bounds struct {
	min, max       float64
	minLit, maxLit string
}

var intBounds = map[schema.Kind]bounds{
	schema.KindU8:    {0, math.MaxUint8, "0", "255"},
	schema.KindU16:   {0, math.MaxUint16, "0", "65535"},
	schema.KindU32:   {0, math.MaxUint32, "0", "4294967295"},
	schema.KindU64:   {0, math.MaxUint64, "0", "18446744073709551615"},
	schema.KindUsize: {0, math.MaxUint64, "0", "18446744073709551615"},
	schema.KindI8:    {math.MinInt8, math.MaxInt8, "-128", "127"},
	schema.KindI16:   {math.MinInt16, math.MaxInt16, "-32768", "32767"},
	schema.KindI32:   {math.MinInt32, math.MaxInt32, "-2147483648", "2147483647"},
	schema.KindI64:   {math.MinInt64, math.MaxInt64, "-9223372036854775808", "9223372036854775807"},
	schema.KindIsize: {math.MinInt64, math.MaxInt64, "-9223372036854775808", "9223372036854775807"},
}

// boundLiteral renders a range bound as a constant of kind k. Integer
// bounds are rounded inward and clamped to the kind's domain so the
// constant always converts.
func boundLiteral(k schema.Kind, v float64, upper bool) string {
	if b, ok := intBounds[k]; ok {
		if upper {
			v = math.Floor(v)
		} else {
			v = math.Ceil(v)
		}
		switch {
		case v <= b.min:
			return b.minLit
		case v >= b.max:
			return b.maxLit
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	if k == schema.KindF32 {
		v = math.Max(-math.MaxFloat32, math.Min(math.MaxFloat32, v))
		return strconv.FormatFloat(v, 'g', -1, 32)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// goType returns the Go spelling of t.
func (e *emitter) goType(t *schema.Type) string {
	switch t.Kind {
	case schema.KindNonZero:
		return e.goType(t.Elem)
	case schema.KindDuration:
		e.use("time")
		return "time.Duration"
	case schema.KindList:
		return "[]" + e.goType(t.Elem)
	case schema.KindArray:
		return fmt.Sprintf("[%d]%s", t.Len, e.goType(t.Elem))
	case schema.KindMap:
		return fmt.Sprintf("map[%s]%s", e.goType(t.Key), e.goType(t.Elem))
	case schema.KindOption:
		return "*" + e.goType(t.Elem)
	case schema.KindRef:
		return t.Ref
	}
	return scalarGo[t.Kind]
}

// paren wraps a dereference so a selector can follow it.
func paren(expr string) string {
	if len(expr) > 0 && expr[0] == '*' {
		return "(" + expr + ")"
	}
	return expr
}
