// Package mha implements population-based metaheuristic optimizers used to
// tune the hidden weights of ELM networks. The optimizers operate on a plain
// continuous search problem, so they can also be used standalone.
package mha

import (
	"fmt"
	"math/rand"

	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/validation"
)

// Objective evaluates a candidate solution and returns its cost.
// Optimizers minimize; callers with a maximization target negate inside.
type Objective func(x []float64) float64

// Problem describes a bound-constrained continuous minimization problem.
type Problem struct {
	// Objective is the cost function to minimize.
	Objective Objective

	// LB and UB are the per-dimension bounds. A single-element slice is
	// broadcast to all dimensions.
	LB []float64
	UB []float64

	// NDim is the dimensionality of the search space.
	NDim int

	// Parallel enables concurrent objective evaluation across the
	// population. The objective must then be safe for concurrent use.
	Parallel bool
}

// Validate checks the problem definition and expands broadcast bounds so that
// len(LB) == len(UB) == NDim afterwards.
func (p *Problem) Validate() error {
	if p.Objective == nil {
		return errors.NewValueError("mha.Problem", "objective function is required")
	}
	if p.NDim < 1 {
		return errors.NewValueError("mha.Problem", fmt.Sprintf("NDim must be >= 1, got %d", p.NDim))
	}
	lb, ub, err := validation.CheckBounds(p.LB, p.UB, p.NDim)
	if err != nil {
		return err
	}
	p.LB, p.UB = lb, ub
	return nil
}

// clip forces x back into [lb, ub] componentwise.
func (p *Problem) clip(x []float64) {
	for i := range x {
		if x[i] < p.LB[i] {
			x[i] = p.LB[i]
		} else if x[i] > p.UB[i] {
			x[i] = p.UB[i]
		}
	}
}

// randomSolution draws a uniform point inside the bounds.
func (p *Problem) randomSolution(rng *rand.Rand) []float64 {
	x := make([]float64, p.NDim)
	for i := range x {
		x[i] = p.LB[i] + rng.Float64()*(p.UB[i]-p.LB[i])
	}
	return x
}
