package mha

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/elmgo-ml/elmgo/core/parallel"
	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Result holds the outcome of a metaheuristic run.
type Result struct {
	// Solution is the best candidate found.
	Solution []float64

	// Best is the objective value of Solution.
	Best float64

	// History records the global best objective value after each epoch.
	History []float64

	// Epochs is the number of epochs actually executed. It is smaller than
	// the configured epoch count when early stopping triggered.
	Epochs int
}

// Optimizer is a population-based metaheuristic search.
type Optimizer interface {
	// Name returns the short algorithm code, e.g. "GA".
	Name() string

	// Solve minimizes the problem and returns the best solution found.
	// The context is checked between epochs so long runs can be cancelled.
	Solve(ctx context.Context, p *Problem) (*Result, error)
}

// Config holds the knobs shared by all optimizers in this package.
type Config struct {
	// Epochs is the number of generations to run.
	Epochs int

	// PopSize is the population size.
	PopSize int

	// Seed seeds the optimizer's random source for reproducible runs.
	Seed int64

	// Patience stops the search after this many epochs without improvement
	// of the global best. Zero disables early stopping.
	Patience int

	// Tol is the minimum decrease of the global best that counts as an
	// improvement for early stopping.
	Tol float64
}

// DefaultConfig returns 1000 epochs with a population of 50 and no early
// stopping.
func DefaultConfig() Config {
	return Config{Epochs: 1000, PopSize: 50, Tol: 1e-10}
}

func (c Config) validate(name string) error {
	if c.Epochs < 1 {
		return errors.NewValidationError(name+".epochs", "must be >= 1", c.Epochs)
	}
	if c.PopSize < 4 {
		return errors.NewValidationError(name+".pop_size", "must be >= 4", c.PopSize)
	}
	return nil
}

// evaluate computes the objective for every member of the population,
// concurrently when the problem allows it.
func evaluate(p *Problem, pop [][]float64) []float64 {
	if p.Parallel {
		return parallel.MapFloat64(len(pop), func(i int) float64 {
			return p.Objective(pop[i])
		})
	}
	fitness := make([]float64, len(pop))
	for i, x := range pop {
		fitness[i] = p.Objective(x)
	}
	return fitness
}

// checkCancelled reports a context error wrapped with the running algorithm.
func checkCancelled(ctx context.Context, name string, epoch int) error {
	select {
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "%s cancelled at epoch %d", name, epoch)
	default:
		return nil
	}
}

// tracker maintains the global best and the early stopping counter.
type tracker struct {
	cfg      Config
	name     string
	best     []float64
	bestCost float64
	history  []float64
	stale    int
}

func newTracker(cfg Config, name string) *tracker {
	return &tracker{
		cfg:      cfg,
		name:     name,
		bestCost: inf,
		history:  make([]float64, 0, cfg.Epochs),
	}
}

const inf = 1e308

// observe updates the global best from one population snapshot. It returns
// true when the early stopping patience is exhausted.
func (t *tracker) observe(pop [][]float64, fitness []float64) bool {
	improved := false
	for i, f := range fitness {
		if f < t.bestCost-t.cfg.Tol {
			t.bestCost = f
			t.best = append(t.best[:0], pop[i]...)
			improved = true
		}
	}
	t.history = append(t.history, t.bestCost)
	if t.cfg.Patience <= 0 {
		return false
	}
	if improved {
		t.stale = 0
		return false
	}
	t.stale++
	if t.stale >= t.cfg.Patience {
		errors.Warn(errors.NewConvergenceWarning(t.name, len(t.history),
			fmt.Sprintf("no improvement for %d epochs, stopping early", t.stale)))
		return true
	}
	return false
}

func (t *tracker) result() *Result {
	return &Result{
		Solution: t.best,
		Best:     t.bestCost,
		History:  t.history,
		Epochs:   len(t.history),
	}
}

// NewByName constructs an optimizer from its short algorithm code.
// Supported codes: "GA", "PSO", "DE" (case-insensitive).
func NewByName(name string, cfg Config) (Optimizer, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GA":
		return NewGA(cfg), nil
	case "PSO":
		return NewPSO(cfg), nil
	case "DE":
		return NewDE(cfg), nil
	default:
		return nil, errors.NewValueError("mha.NewByName",
			fmt.Sprintf("unknown optimizer %q, supported: %s", name, strings.Join(Names(), ", ")))
	}
}

// Names returns the supported optimizer codes in sorted order.
func Names() []string {
	names := []string{"DE", "GA", "PSO"}
	sort.Strings(names)
	return names
}
