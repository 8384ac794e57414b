package errors

import (
	"math"
)

// Numerical guards for the solve and fitness paths. The ELM pipeline has two
// spots where NaN/Inf sneak in: an ill-conditioned hidden matrix feeding the
// pseudo-inverse, and unbounded candidate weights blowing up the activations
// during a metaheuristic search. These helpers detect both early, with the
// offending values preserved for the error message.

func nonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// CheckScalar returns a NumericalInstabilityError when value is NaN or Inf.
// Pass a negative epoch for operations outside an optimizer loop.
func CheckScalar(operation string, value float64, epoch int) error {
	if nonFinite(value) {
		return NewNumericalInstabilityError(operation, []float64{value}, epoch)
	}
	return nil
}

// CheckNumericalStability scans a slice for NaN or Inf values.
func CheckNumericalStability(operation string, values []float64, epoch int) error {
	for _, v := range values {
		if nonFinite(v) {
			return NewNumericalInstabilityError(operation, values, epoch)
		}
	}
	return nil
}

// CheckMatrix scans a matrix for NaN or Inf entries. At most ten offending
// values are collected into the error, all taken from the first bad row.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, epoch int) error {
	for i := 0; i < rows; i++ {
		var bad []float64
		for j := 0; j < cols; j++ {
			if v := matrix.At(i, j); nonFinite(v) {
				bad = append(bad, v)
				if len(bad) >= 10 {
					break
				}
			}
		}
		if len(bad) > 0 {
			return NewNumericalInstabilityError(operation, bad, epoch)
		}
	}
	return nil
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is
// within 1e-10 of zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}

// ClipValue bounds value to [min, max].
func ClipValue(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// StabilizeLog returns log(max(value, 1e-10)), guarding log(0).
func StabilizeLog(value float64) float64 {
	const eps = 1e-10
	return math.Log(math.Max(value, eps))
}

// StabilizeExp returns exp(value) with the argument clipped to ±700 so the
// result stays finite. Used by the sigmoid family of activations.
func StabilizeExp(value float64) float64 {
	const maxExp = 700.0
	if value > maxExp {
		return math.Exp(maxExp)
	}
	if value < -maxExp {
		return 0
	}
	return math.Exp(value)
}

// LogSumExp computes log(sum(exp(values))) with the max-shift trick, for the
// log-softmax activation and the cross-entropy loss.
func LogSumExp(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(maxVal, -1) {
		return math.Inf(-1)
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Exp(v - maxVal)
	}
	return maxVal + math.Log(sum)
}
