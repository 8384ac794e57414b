package elm

import (
	"github.com/elmgo-ml/elmgo/mha"
)

// config collects the hyperparameters shared by all ELM estimators.
type config struct {
	layerSizes []int
	activation string
	seed       int64

	// Metaheuristic training knobs, used by the Mha estimators only.
	optimizer string
	optConfig mha.Config
	// optConfigSet records an explicit WithOptimizerConfig call; without
	// one the estimator seed also drives the optimizer.
	optConfigSet bool
	objective    string
	lb           []float64
	ub           []float64
	parallel     bool
}

func defaultConfig() config {
	return config{
		layerSizes: []int{10},
		activation: "sigmoid",
		seed:       1,
		optimizer:  "GA",
		optConfig:  mha.DefaultConfig(),
		lb:         []float64{-10},
		ub:         []float64{10},
	}
}

// Option configures an ELM estimator at construction time.
type Option func(*config)

// WithLayerSizes sets the hidden layer sizes. One entry per hidden layer.
func WithLayerSizes(sizes ...int) Option {
	return func(c *config) { c.layerSizes = sizes }
}

// WithActivation sets the hidden activation function by name, e.g. "relu".
// See activation.Names for the supported set.
func WithActivation(name string) Option {
	return func(c *config) { c.activation = name }
}

// WithSeed sets the random seed used for hidden weight initialization and,
// for the Mha estimators, the optimizer's random source.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithOptimizer selects the metaheuristic by its short code ("GA", "PSO",
// "DE"). Ignored by the plain estimators.
func WithOptimizer(name string) Option {
	return func(c *config) { c.optimizer = name }
}

// WithOptimizerConfig overrides the epoch count, population size, seed and
// early stopping of the metaheuristic search. Without this option the
// optimizer's random source is seeded from WithSeed.
func WithOptimizerConfig(cfg mha.Config) Option {
	return func(c *config) {
		c.optConfig = cfg
		c.optConfigSet = true
	}
}

// WithObjective sets the training objective metric by its short code,
// e.g. "RMSE" for regression or "AS" for classification.
func WithObjective(code string) Option {
	return func(c *config) { c.objective = code }
}

// WithBounds sets the search bounds for the hidden weights. Single-element
// slices are broadcast to every dimension.
func WithBounds(lb, ub []float64) Option {
	return func(c *config) { c.lb, c.ub = lb, ub }
}

// WithParallelFitness evaluates the population fitness concurrently.
func WithParallelFitness(enabled bool) Option {
	return func(c *config) { c.parallel = enabled }
}
