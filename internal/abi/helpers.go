package abi

import (
	"math"
	"reflect"
)

// SaturatingAdd adds non-negative widths, clamping at MaxInt.
func SaturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// SaturatingMul multiplies non-negative widths, clamping at MaxInt.
func SaturatingMul(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
