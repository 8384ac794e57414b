// Package config provides hierarchical configuration for the elmgo CLI using
// koanf. Values are loaded with priority: environment variables (ELMGO_*) >
// config file (--config) > defaults.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/elmgo-ml/elmgo/metrics"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/validation"
)

// Config holds every knob of the train and predict commands.
type Config struct {
	// Task selects the estimator family: "regression" or "classification".
	Task string `koanf:"task"`

	// Data is the path of the training or prediction CSV.
	Data string `koanf:"data"`

	// TargetColumn selects the target by header name. Empty means the last
	// column.
	TargetColumn string `koanf:"target_column"`

	// HasHeader indicates the CSV carries a header row.
	HasHeader bool `koanf:"has_header"`

	// TestSize reserves this fraction of the data for evaluation.
	// Zero trains on the full dataset.
	TestSize float64 `koanf:"test_size"`

	// LayerSizes are the hidden layer sizes of the network.
	LayerSizes []int `koanf:"layer_sizes"`

	// Activation is the hidden activation function name.
	Activation string `koanf:"activation"`

	// Seed makes runs reproducible.
	Seed int64 `koanf:"seed"`

	// Tuned enables metaheuristic training of the hidden weights.
	Tuned bool `koanf:"tuned"`

	// Optimizer is the metaheuristic short code ("GA", "PSO", "DE").
	Optimizer string `koanf:"optimizer"`

	// Objective is the training metric short code, e.g. "RMSE" or "AS".
	Objective string `koanf:"objective"`

	// Epochs and PopSize bound the metaheuristic search.
	Epochs  int `koanf:"epochs"`
	PopSize int `koanf:"pop_size"`

	// LowerBound and UpperBound constrain the tuned hidden weights.
	LowerBound float64 `koanf:"lower_bound"`
	UpperBound float64 `koanf:"upper_bound"`

	// Parallel evaluates population fitness concurrently.
	Parallel bool `koanf:"parallel"`

	// Model is the path the fitted model is saved to or loaded from.
	Model string `koanf:"model"`

	// LossCSV, when set, receives the per-epoch loss history.
	LossCSV string `koanf:"loss_csv"`

	// ConvergencePNG, when set, receives a convergence chart.
	ConvergencePNG string `koanf:"convergence_png"`

	// Output is where predict writes its CSV. Empty means stdout.
	Output string `koanf:"output"`

	// LogLevel controls the CLI's structured log output.
	LogLevel string `koanf:"log_level"`
}

// Defaults mirrors the library defaults: a single hidden layer of 10 sigmoid
// neurons and a GA search over (-10, 10).
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"task":        "regression",
		"has_header":  true,
		"test_size":   0.0,
		"layer_sizes": []int{10},
		"activation":  "sigmoid",
		"seed":        int64(1),
		"optimizer":   "GA",
		"epochs":      1000,
		"pop_size":    50,
		"lower_bound": -10.0,
		"upper_bound": 10.0,
		"model":       "elmgo-model.bin",
		"log_level":   "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and ELMGO_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrap(err, "setting defaults")
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading config file %s", path)
		}
	}

	if err := k.Load(env.Provider("ELMGO_", ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment config")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field consistency.
func (c *Config) Validate() error {
	task, err := validation.CheckString("task", c.Task, []string{"regression", "classification"})
	if err != nil {
		return err
	}
	c.Task = task

	if _, err := validation.CheckPositiveInts("layer_sizes", c.LayerSizes); err != nil {
		return err
	}
	if c.TestSize != 0 {
		if _, err := validation.CheckFloat("test_size", c.TestSize, 0.05, 0.95); err != nil {
			return err
		}
	}

	if c.Objective != "" {
		if _, err := metrics.ObjectiveDirection(c.Objective); err != nil {
			return err
		}
	}

	if c.Tuned {
		if _, err := validation.CheckInt("epochs", c.Epochs, 1, 1_000_000); err != nil {
			return err
		}
		if _, err := validation.CheckInt("pop_size", c.PopSize, 4, 100_000); err != nil {
			return err
		}
		if c.LowerBound >= c.UpperBound {
			return errors.NewValidationError("bounds", "lower_bound must be below upper_bound", c.LowerBound)
		}
	}
	return nil
}

// DefaultObjective returns the task-appropriate objective when none is set.
func (c *Config) DefaultObjective() string {
	if c.Objective != "" {
		return c.Objective
	}
	if c.Task == "classification" {
		return "AS"
	}
	return "RMSE"
}

// envTransform converts ELMGO_LAYER_SIZES to layer_sizes.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "ELMGO_"))
}
