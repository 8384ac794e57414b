// Package validation provides small hyperparameter checking helpers shared by
// the estimators and optimizer configurations.
//
// The helpers return typed ValidationErrors from pkg/errors so callers can
// surface which parameter failed and why.
package validation

import (
	"fmt"
	"strings"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// CheckString validates that value is one of the supported options.
// The comparison is case-insensitive; the canonical (lowercased) value is
// returned on success.
func CheckString(name, value string, supported []string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(value))
	for _, option := range supported {
		if canonical == strings.ToLower(option) {
			return canonical, nil
		}
	}
	return "", errors.NewValidationError(name,
		fmt.Sprintf("must be one of [%s]", strings.Join(supported, ", ")), value)
}

// CheckInt validates that value lies in the inclusive range [lo, hi].
func CheckInt(name string, value, lo, hi int) (int, error) {
	if value < lo || value > hi {
		return 0, errors.NewValidationError(name,
			fmt.Sprintf("must be in range [%d, %d]", lo, hi), value)
	}
	return value, nil
}

// CheckFloat validates that value lies in the inclusive range [lo, hi].
func CheckFloat(name string, value, lo, hi float64) (float64, error) {
	if value < lo || value > hi {
		return 0, errors.NewValidationError(name,
			fmt.Sprintf("must be in range [%g, %g]", lo, hi), value)
	}
	return value, nil
}

// CheckPositiveInts validates that every element of values is >= 1.
// Used for hidden layer sizes and population sizes.
func CheckPositiveInts(name string, values []int) ([]int, error) {
	if len(values) == 0 {
		return nil, errors.NewValidationError(name, "must not be empty", values)
	}
	for _, v := range values {
		if v < 1 {
			return nil, errors.NewValidationError(name, "all elements must be >= 1", values)
		}
	}
	return values, nil
}

// CheckBounds validates and expands lower/upper bounds to problem size.
// Bounds of length 1 are broadcast; otherwise their length must equal size.
func CheckBounds(lb, ub []float64, size int) ([]float64, []float64, error) {
	if len(lb) == 0 || len(ub) == 0 {
		return nil, nil, errors.NewValidationError("bounds", "lb and ub must not be empty", nil)
	}
	if len(lb) != len(ub) {
		return nil, nil, errors.NewValidationError("bounds",
			"lb and ub must have the same length", fmt.Sprintf("len(lb)=%d len(ub)=%d", len(lb), len(ub)))
	}

	expand := func(b []float64) []float64 {
		if len(b) == 1 {
			out := make([]float64, size)
			for i := range out {
				out[i] = b[0]
			}
			return out
		}
		return b
	}

	if len(lb) != 1 && len(lb) != size {
		return nil, nil, errors.NewValidationError("bounds",
			fmt.Sprintf("length must be 1 or problem size %d", size), len(lb))
	}

	lbFull, ubFull := expand(lb), expand(ub)
	for i := range lbFull {
		if lbFull[i] >= ubFull[i] {
			return nil, nil, errors.NewValidationError("bounds",
				fmt.Sprintf("lb must be strictly less than ub at dimension %d", i),
				fmt.Sprintf("lb=%g ub=%g", lbFull[i], ubFull[i]))
		}
	}
	return lbFull, ubFull, nil
}
