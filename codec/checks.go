package codec

import (
	"github.com/wippyai/bytebridge/codec/internal/types"
	"github.com/wippyai/bytebridge/errors"
)

func checkUnsigned(phase errors.Phase, c types.Check, v uint64) error {
	if c.NonZero && v == 0 {
		return errors.ConstraintViolation(phase, nil, v, "nonzero")
	}
	if r := c.Range; r != nil && (float64(v) < r.Min || float64(v) > r.Max) {
		return errors.ConstraintViolation(phase, nil, v, "range "+r.String())
	}
	return nil
}

func checkSigned(phase errors.Phase, c types.Check, v int64) error {
	if c.Natural && v < 0 {
		return errors.ConstraintViolation(phase, nil, v, "natural")
	}
	if r := c.Range; r != nil && (float64(v) < r.Min || float64(v) > r.Max) {
		return errors.ConstraintViolation(phase, nil, v, "range "+r.String())
	}
	return nil
}

// checkFloat rejects NaN against a range.
func checkFloat(phase errors.Phase, c types.Check, v float64) error {
	if c.Natural && v < 0 {
		return errors.ConstraintViolation(phase, nil, v, "natural")
	}
	if r := c.Range; r != nil && !(v >= r.Min && v <= r.Max) {
		return errors.ConstraintViolation(phase, nil, v, "range "+r.String())
	}
	return nil
}
