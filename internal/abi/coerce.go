package abi

import "math"

// CoerceToUint64 handles YAML/JSON decoded numbers (int, float64) and other
// numeric types. Fractional or negative values are rejected.
func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		// 2^64 itself is representable as float64 but not as uint64
		if v >= 0 && v < float64(math.MaxUint64) && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		if v >= 0 && float64(v) < float64(math.MaxUint64) && float64(v) == math.Trunc(float64(v)) {
			return uint64(v), true
		}
	}
	return 0, false
}

func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(v), true
		}
	}
	return 0, false
}

// CoerceUnsigned narrows value to [0, limit].
func CoerceUnsigned(value any, limit uint64) (uint64, bool) {
	u, ok := CoerceToUint64(value)
	if !ok || u > limit {
		return 0, false
	}
	return u, true
}

// CoerceSigned narrows value to [lo, hi].
func CoerceSigned(value any, lo, hi int64) (int64, bool) {
	i, ok := CoerceToInt64(value)
	if !ok || i < lo || i > hi {
		return 0, false
	}
	return i, true
}

// CoerceToFloat64 accepts any Go number.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if i, ok := CoerceToInt64(value); ok {
		return float64(i), true
	}
	if u, ok := CoerceToUint64(value); ok {
		return float64(u), true
	}
	return 0, false
}

// CoerceToFloat32 accepts numbers that survive the conversion to float32
// without leaving its range.
func CoerceToFloat32(value any) (float32, bool) {
	f, ok := CoerceToFloat64(value)
	if !ok {
		return 0, false
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return float32(f), true
}
