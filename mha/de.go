package mha

import (
	"context"
	"math/rand"
)

// DE is differential evolution using the classic DE/rand/1/bin scheme.
type DE struct {
	cfg Config

	// F is the differential weight applied to the difference vector.
	F float64

	// CR is the binomial crossover rate.
	CR float64
}

// NewDE returns a DE with the canonical parameters F = 0.8, CR = 0.9.
func NewDE(cfg Config) *DE {
	return &DE{cfg: cfg, F: 0.8, CR: 0.9}
}

// Name returns "DE".
func (d *DE) Name() string { return "DE" }

// Solve runs the evolution loop.
func (d *DE) Solve(ctx context.Context, p *Problem) (*Result, error) {
	if err := d.cfg.validate("DE"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(d.cfg.Seed))
	n := d.cfg.PopSize

	pop := make([][]float64, n)
	for i := range pop {
		pop[i] = p.randomSolution(rng)
	}
	fitness := evaluate(p, pop)

	track := newTracker(d.cfg, d.Name())
	if track.observe(pop, fitness) {
		return track.result(), nil
	}

	trials := make([][]float64, n)
	for i := range trials {
		trials[i] = make([]float64, p.NDim)
	}

	for epoch := 1; epoch < d.cfg.Epochs; epoch++ {
		if err := checkCancelled(ctx, d.Name(), epoch); err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			a, b, c := d.distinctIndices(rng, n, i)
			jRand := rng.Intn(p.NDim)
			trial := trials[i]
			for j := 0; j < p.NDim; j++ {
				if rng.Float64() < d.CR || j == jRand {
					trial[j] = pop[a][j] + d.F*(pop[b][j]-pop[c][j])
				} else {
					trial[j] = pop[i][j]
				}
			}
			p.clip(trial)
		}

		trialFitness := evaluate(p, trials)
		for i := 0; i < n; i++ {
			if trialFitness[i] <= fitness[i] {
				pop[i], trials[i] = trials[i], pop[i]
				fitness[i] = trialFitness[i]
			}
		}

		if track.observe(pop, fitness) {
			break
		}
	}

	return track.result(), nil
}

// distinctIndices draws three distinct indices, all different from i.
func (d *DE) distinctIndices(rng *rand.Rand, n, i int) (int, int, int) {
	pick := func(taken ...int) int {
	retry:
		for {
			k := rng.Intn(n)
			if k == i {
				continue
			}
			for _, t := range taken {
				if k == t {
					continue retry
				}
			}
			return k
		}
	}
	a := pick()
	b := pick(a)
	c := pick(a, b)
	return a, b, c
}
