package estimator

import (
	"fmt"
	"math"
)

// Truncate drops the fractional part of v, rounding toward zero.
// NaN and infinities fail with ErrNotANumber; values outside the int64
// range fail with ErrOutOfRange.
func Truncate(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotANumber, v)
	}
	t := math.Trunc(v)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}
	return int64(t), nil
}
