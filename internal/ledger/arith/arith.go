// Package arith provides overflow-checked integer arithmetic. Counters and
// accumulators in this system are audit data: an overflow aborts the whole
// operation instead of wrapping or saturating.
package arith

import (
	"math"

	dErrors "humanproof/pkg/domain-errors"
)

// AddU64 returns a+b or a NumericalOverflow domain error.
func AddU64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, dErrors.New(dErrors.CodeNumericalOverflow, "uint64 addition overflow")
	}
	return a + b, nil
}

// AddU32 returns a+b or a NumericalOverflow domain error.
func AddU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, dErrors.New(dErrors.CodeNumericalOverflow, "uint32 addition overflow")
	}
	return a + b, nil
}

// AddI64 returns a+b or a NumericalOverflow domain error. Both signs are
// checked; session extensions pass caller-supplied signed durations.
func AddI64(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, dErrors.New(dErrors.CodeNumericalOverflow, "int64 addition overflow")
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, dErrors.New(dErrors.CodeNumericalOverflow, "int64 addition underflow")
	}
	return a + b, nil
}

// MulI64 returns a*b or a NumericalOverflow domain error.
func MulI64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a {
		return 0, dErrors.New(dErrors.CodeNumericalOverflow, "int64 multiplication overflow")
	}
	return r, nil
}
