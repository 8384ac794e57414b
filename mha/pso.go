package mha

import (
	"context"
	"math/rand"
)

// PSO is particle swarm optimization with a linearly decreasing inertia
// weight and standard cognitive/social acceleration terms.
type PSO struct {
	cfg Config

	// C1 and C2 are the cognitive and social acceleration coefficients.
	C1 float64
	C2 float64

	// WMax and WMin bound the inertia weight, which decays linearly from
	// WMax to WMin over the configured epochs.
	WMax float64
	WMin float64
}

// NewPSO returns a PSO with the standard constriction coefficients
// (c1 = c2 = 2.05, inertia decaying from 0.9 to 0.4).
func NewPSO(cfg Config) *PSO {
	return &PSO{
		cfg:  cfg,
		C1:   2.05,
		C2:   2.05,
		WMax: 0.9,
		WMin: 0.4,
	}
}

// Name returns "PSO".
func (s *PSO) Name() string { return "PSO" }

// Solve runs the swarm loop.
func (s *PSO) Solve(ctx context.Context, p *Problem) (*Result, error) {
	if err := s.cfg.validate("PSO"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	n := s.cfg.PopSize

	pos := make([][]float64, n)
	vel := make([][]float64, n)
	pBest := make([][]float64, n)
	for i := 0; i < n; i++ {
		pos[i] = p.randomSolution(rng)
		vel[i] = make([]float64, p.NDim)
		for j := range vel[i] {
			span := p.UB[j] - p.LB[j]
			vel[i][j] = (rng.Float64()*2 - 1) * 0.1 * span
		}
		pBest[i] = append([]float64(nil), pos[i]...)
	}

	fitness := evaluate(p, pos)
	pBestCost := append([]float64(nil), fitness...)

	track := newTracker(s.cfg, s.Name())
	if track.observe(pos, fitness) {
		return track.result(), nil
	}

	for epoch := 1; epoch < s.cfg.Epochs; epoch++ {
		if err := checkCancelled(ctx, s.Name(), epoch); err != nil {
			return nil, err
		}

		w := s.WMax - (s.WMax-s.WMin)*float64(epoch)/float64(s.cfg.Epochs)

		for i := 0; i < n; i++ {
			for j := 0; j < p.NDim; j++ {
				r1, r2 := rng.Float64(), rng.Float64()
				vel[i][j] = w*vel[i][j] +
					s.C1*r1*(pBest[i][j]-pos[i][j]) +
					s.C2*r2*(track.best[j]-pos[i][j])
				pos[i][j] += vel[i][j]
			}
			p.clip(pos[i])
		}

		fitness = evaluate(p, pos)
		for i, f := range fitness {
			if f < pBestCost[i] {
				pBestCost[i] = f
				copy(pBest[i], pos[i])
			}
		}

		if track.observe(pos, fitness) {
			break
		}
	}

	return track.result(), nil
}
