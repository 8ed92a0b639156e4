package abi

import (
	"math"
	"testing"
)

func TestCoerceToUint64(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   uint64
		wantOK bool
	}{
		{uint64(math.MaxUint64), "uint64 max", math.MaxUint64, true},
		{uint8(7), "uint8", 7, true},
		{int(42), "int", 42, true},
		{int(-1), "int negative", 0, false},
		{int64(-5), "int64 negative", 0, false},
		{float64(1e6), "float64 integral", 1e6, true},
		{float64(3.5), "float64 fractional", 0, false},
		{float64(-1), "float64 negative", 0, false},
		{float64(math.MaxUint64), "float64 2^64", 0, false},
		{float32(100), "float32", 100, true},
		{"12", "string", 0, false},
		{nil, "nil", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceToUint64(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CoerceToUint64(%v) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCoerceToInt64(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   int64
		wantOK bool
	}{
		{int64(math.MinInt64), "int64 min", math.MinInt64, true},
		{int8(-3), "int8", -3, true},
		{uint32(math.MaxUint32), "uint32 max", math.MaxUint32, true},
		{uint64(math.MaxInt64 + 1), "uint64 too large", 0, false},
		{float64(-2), "float64", -2, true},
		{float64(0.25), "float64 fractional", 0, false},
		{float64(math.MaxInt64), "float64 2^63", 0, false},
		{true, "bool", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceToInt64(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CoerceToInt64(%v) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCoerceNarrowing(t *testing.T) {
	if _, ok := CoerceUnsigned(300, math.MaxUint8); ok {
		t.Error("300 should not fit u8")
	}
	if v, ok := CoerceUnsigned(255, math.MaxUint8); !ok || v != 255 {
		t.Errorf("255 into u8 = %d, %v", v, ok)
	}
	if _, ok := CoerceSigned(-129, math.MinInt8, math.MaxInt8); ok {
		t.Error("-129 should not fit i8")
	}
	if v, ok := CoerceSigned(float64(-128), math.MinInt8, math.MaxInt8); !ok || v != -128 {
		t.Errorf("-128 into i8 = %d, %v", v, ok)
	}
}

func TestCoerceFloats(t *testing.T) {
	if v, ok := CoerceToFloat64(3); !ok || v != 3 {
		t.Errorf("int 3 = %v, %v", v, ok)
	}
	if v, ok := CoerceToFloat64(uint64(math.MaxUint64)); !ok || v != float64(math.MaxUint64) {
		t.Errorf("max uint64 = %v, %v", v, ok)
	}
	if _, ok := CoerceToFloat64("1.5"); ok {
		t.Error("string should not coerce")
	}
	if _, ok := CoerceToFloat32(1e300); ok {
		t.Error("1e300 should not fit f32")
	}
	if v, ok := CoerceToFloat32(math.Inf(1)); !ok || !math.IsInf(float64(v), 1) {
		t.Errorf("+Inf = %v, %v", v, ok)
	}
}
