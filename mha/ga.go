package mha

import (
	"context"
	"math/rand"
)

// GA is a real-coded genetic algorithm with tournament selection, uniform
// crossover and gaussian mutation. Elitism keeps the best individual alive
// across generations.
type GA struct {
	cfg Config

	// CrossoverRate is the probability that a pair of parents recombines.
	CrossoverRate float64

	// MutationRate is the per-gene probability of gaussian perturbation.
	MutationRate float64

	// TournamentSize is the number of contestants per selection tournament.
	TournamentSize int
}

// NewGA returns a GA with commonly used rates
// (crossover 0.9, mutation 0.05, tournaments of 3).
func NewGA(cfg Config) *GA {
	return &GA{
		cfg:            cfg,
		CrossoverRate:  0.9,
		MutationRate:   0.05,
		TournamentSize: 3,
	}
}

// Name returns "GA".
func (g *GA) Name() string { return "GA" }

// Solve runs the evolution loop.
func (g *GA) Solve(ctx context.Context, p *Problem) (*Result, error) {
	if err := g.cfg.validate("GA"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.cfg.Seed))
	pop := make([][]float64, g.cfg.PopSize)
	for i := range pop {
		pop[i] = p.randomSolution(rng)
	}
	fitness := evaluate(p, pop)

	track := newTracker(g.cfg, g.Name())
	if track.observe(pop, fitness) {
		return track.result(), nil
	}

	for epoch := 1; epoch < g.cfg.Epochs; epoch++ {
		if err := checkCancelled(ctx, g.Name(), epoch); err != nil {
			return nil, err
		}

		next := make([][]float64, 0, g.cfg.PopSize)

		// Elitism: carry the current best over unchanged.
		elite := make([]float64, p.NDim)
		copy(elite, track.best)
		next = append(next, elite)

		for len(next) < g.cfg.PopSize {
			a := g.tournament(rng, pop, fitness)
			b := g.tournament(rng, pop, fitness)
			c1, c2 := g.crossover(rng, a, b)
			g.mutate(rng, p, c1)
			g.mutate(rng, p, c2)
			p.clip(c1)
			next = append(next, c1)
			if len(next) < g.cfg.PopSize {
				p.clip(c2)
				next = append(next, c2)
			}
		}

		pop = next
		fitness = evaluate(p, pop)
		if track.observe(pop, fitness) {
			break
		}
	}

	return track.result(), nil
}

// tournament picks the fittest of TournamentSize random individuals.
func (g *GA) tournament(rng *rand.Rand, pop [][]float64, fitness []float64) []float64 {
	best := rng.Intn(len(pop))
	for k := 1; k < g.TournamentSize; k++ {
		i := rng.Intn(len(pop))
		if fitness[i] < fitness[best] {
			best = i
		}
	}
	return pop[best]
}

// crossover performs uniform crossover, producing two children.
func (g *GA) crossover(rng *rand.Rand, a, b []float64) ([]float64, []float64) {
	c1 := make([]float64, len(a))
	c2 := make([]float64, len(a))
	copy(c1, a)
	copy(c2, b)
	if rng.Float64() >= g.CrossoverRate {
		return c1, c2
	}
	for i := range c1 {
		if rng.Float64() < 0.5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return c1, c2
}

// mutate applies gaussian noise scaled to a tenth of the dimension range.
func (g *GA) mutate(rng *rand.Rand, p *Problem, x []float64) {
	for i := range x {
		if rng.Float64() < g.MutationRate {
			sigma := (p.UB[i] - p.LB[i]) * 0.1
			x[i] += rng.NormFloat64() * sigma
		}
	}
}
