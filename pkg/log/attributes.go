// Attribute keys for structured logging. Keys use a dotted hierarchy
// ("data.samples", "optim.epoch") so log pipelines can filter by prefix.
// Every package logs through these constants rather than ad-hoc strings,
// which keeps field names identical across estimators.

package log

// Model and operation context.
const (
	// ModelNameKey names the estimator type, e.g. "ELMRegressor".
	ModelNameKey = "model.name"

	// OperationKey names the estimator operation, one of the Operation*
	// constants below.
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work, e.g. "elm", "mha".
	ComponentKey = "ml.component"

	// PhaseKey marks the lifecycle phase, one of the Phase* constants.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the row count of the data being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the feature column count.
	FeaturesKey = "data.features"

	// TargetsKey is the target column count (above 1 for multi-output).
	TargetsKey = "data.targets"

	// ClassesKey is the distinct class count for classification.
	ClassesKey = "data.classes"
)

// Metaheuristic search state.
const (
	// OptimizerKey names the search algorithm: "GA", "PSO" or "DE".
	OptimizerKey = "optim.name"

	// EpochKey is the current generation of the search.
	EpochKey = "optim.epoch"

	// PopSizeKey is the population size.
	PopSizeKey = "optim.pop_size"

	// ObjectiveKey is the metric short code being optimized, e.g. "RMSE".
	ObjectiveKey = "optim.objective"

	// BestFitnessKey is the global best objective value so far.
	BestFitnessKey = "optim.best_fitness"

	// ProblemSizeKey is the search-space dimension, i.e. the number of
	// hidden weights and biases being tuned.
	ProblemSizeKey = "optim.problem_size"
)

// Evaluation results and timing.
const (
	// AccuracyKey is classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey is the regression coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// PredsKey is the number of predictions produced.
	PredsKey = "preds.count"

	// DurationMsKey is wall-clock time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Hyperparameters.
const (
	// LayerSizesKey is the hidden layer width list of the network.
	LayerSizesKey = "hyperparams.layer_sizes"

	// ActivationKey is the hidden activation function name.
	ActivationKey = "hyperparams.activation"

	// RandomSeedKey is the seed driving weight init and the optimizer rng.
	RandomSeedKey = "config.random_seed"
)

// Values for OperationKey and PhaseKey.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining = "training"
	PhaseTesting  = "testing"
)
