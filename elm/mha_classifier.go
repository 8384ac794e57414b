package elm

import (
	"context"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/activation"
	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/metrics"
	"github.com/elmgo-ml/elmgo/mha"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/pkg/log"
	"github.com/elmgo-ml/elmgo/preprocessing"
)

// MhaELMClassifier is an ELM classifier whose hidden weights are tuned by a
// metaheuristic. Fitness is measured on the decoded class predictions with
// the configured classification metric.
type MhaELMClassifier struct {
	state  *model.StateManager
	cfg    config
	net    *MultiLayerELM
	logger log.Logger

	encoder *preprocessing.LabelEncoder
	onehot  *preprocessing.OneHotEncoder
	result  *mha.Result
}

// NewMhaELMClassifier builds a metaheuristic-trained classifier.
// Defaults: GA optimizer, accuracy ("AS") objective, bounds (-10, 10).
func NewMhaELMClassifier(opts ...Option) (*MhaELMClassifier, error) {
	cfg := defaultConfig()
	cfg.objective = "AS"
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.optConfigSet {
		cfg.optConfig.Seed = cfg.seed
	}
	if _, _, err := metrics.GetClassification(cfg.objective); err != nil {
		return nil, err
	}
	net, err := NewMultiLayerELM(cfg.layerSizes, cfg.activation, cfg.seed)
	if err != nil {
		return nil, err
	}
	return &MhaELMClassifier{
		state: model.NewStateManager("MhaELMClassifier"),
		cfg:   cfg,
		net:   net,
		logger: log.GetLoggerWithName("elm").With(
			log.ModelNameKey, "MhaELMClassifier",
			log.OptimizerKey, cfg.optimizer,
			log.ObjectiveKey, cfg.objective,
		),
		encoder: preprocessing.NewLabelEncoder(),
	}, nil
}

// Fit tunes the hidden weights against the objective metric on (X, y).
func (c *MhaELMClassifier) Fit(ctx context.Context, X mat.Matrix, y []int) (err error) {
	defer errors.Recover(&err, "MhaELMClassifier.Fit")

	xd, err := toDense(X)
	if err != nil {
		return err
	}
	rows, cols := xd.Dims()
	if rows == 0 {
		return errors.NewModelError("MhaELMClassifier.Fit", "empty input", errors.ErrEmptyData)
	}
	if rows != len(y) {
		return errors.NewDimensionError("MhaELMClassifier.Fit", rows, len(y), 0)
	}

	indices, err := c.encoder.FitTransform(y)
	if err != nil {
		return err
	}
	c.onehot, err = preprocessing.NewOneHotEncoder(c.encoder.NClasses())
	if err != nil {
		return err
	}
	targets, err := c.onehot.Transform(indices)
	if err != nil {
		return err
	}

	metric, direction, err := metrics.GetClassification(c.cfg.objective)
	if err != nil {
		return err
	}

	c.net.InitWeights(cols)

	// Cross-entropy scores the softmax probabilities; the label-based
	// metrics score hard predictions.
	useProba := strings.EqualFold(c.cfg.objective, "CEL")

	yTrue := labelVector(indices)
	fitness := func(solution []float64) float64 {
		net := c.net
		if c.cfg.parallel {
			// Decode mutates the network, so concurrent evaluations
			// each work on their own copy.
			net = c.net.CloneStructure()
		}
		if useProba {
			return crossEntropyFitness(net, solution, xd, targets, yTrue)
		}
		return classificationFitness(net, c.onehot, solution, xd, targets, yTrue, metric, direction)
	}

	problem := &mha.Problem{
		Objective: fitness,
		LB:        c.cfg.lb,
		UB:        c.cfg.ub,
		NDim:      c.net.NDim(),
		Parallel:  c.cfg.parallel,
	}

	optimizer, err := mha.NewByName(c.cfg.optimizer, c.cfg.optConfig)
	if err != nil {
		return err
	}

	c.logger.Info("training started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, c.encoder.NClasses(),
		log.ProblemSizeKey, problem.NDim,
		log.PopSizeKey, c.cfg.optConfig.PopSize,
	)

	result, err := optimizer.Solve(ctx, problem)
	if err != nil {
		return err
	}

	if err := c.net.Decode(result.Solution); err != nil {
		return err
	}
	if err := c.net.SolveOutput(xd, targets); err != nil {
		return err
	}

	c.result = result
	c.state.SetDimensions(cols, rows)
	c.state.SetFitted()

	c.logger.Info("training finished",
		log.EpochKey, result.Epochs,
		log.BestFitnessKey, result.Best,
	)
	return nil
}

// classificationFitness solves the output layer for one candidate, decodes
// the class predictions and scores them. Maximized metrics are negated so the
// optimizers always minimize.
func classificationFitness(net *MultiLayerELM, onehot *preprocessing.OneHotEncoder, solution []float64, X, targets *mat.Dense, yTrue *mat.VecDense, metric metrics.VecMetric, direction metrics.Direction) float64 {
	const penalty = 1e10

	if err := net.Decode(solution); err != nil {
		return penalty
	}
	if err := net.SolveOutput(X, targets); err != nil {
		return penalty
	}
	raw, err := net.Predict(X)
	if err != nil {
		return penalty
	}
	indices, err := onehot.InverseTransform(raw)
	if err != nil {
		return penalty
	}
	score, err := metric(yTrue, labelVector(indices))
	if err != nil {
		return penalty
	}
	if err := errors.CheckScalar("fitness", score, -1); err != nil {
		return penalty
	}
	if direction == metrics.Maximize {
		return -score
	}
	return score
}

// crossEntropyFitness scores one candidate with the multiclass log loss of
// its softmax probabilities, the loss counterpart of classificationFitness.
func crossEntropyFitness(net *MultiLayerELM, solution []float64, X, targets *mat.Dense, yTrue *mat.VecDense) float64 {
	const penalty = 1e10

	if err := net.Decode(solution); err != nil {
		return penalty
	}
	if err := net.SolveOutput(X, targets); err != nil {
		return penalty
	}
	raw, err := net.Predict(X)
	if err != nil {
		return penalty
	}
	activation.Softmax(raw)
	loss, err := metrics.LogLoss(yTrue, raw)
	if err != nil {
		return penalty
	}
	if err := errors.CheckScalar("fitness", loss, -1); err != nil {
		return penalty
	}
	return loss
}

// PredictProba returns per-class probabilities, columns ordered like Classes.
func (c *MhaELMClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := c.state.RequireFitted("PredictProba"); err != nil {
		return nil, err
	}
	xd, err := toDense(X)
	if err != nil {
		return nil, err
	}
	raw, err := c.net.Predict(xd)
	if err != nil {
		return nil, err
	}
	activation.Softmax(raw)
	return raw, nil
}

// Predict returns the predicted class label for each row of X.
func (c *MhaELMClassifier) Predict(X mat.Matrix) ([]int, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	indices, err := c.onehot.InverseTransform(proba)
	if err != nil {
		return nil, err
	}
	return c.encoder.InverseTransform(indices)
}

// Classes returns the distinct class labels in ascending order.
func (c *MhaELMClassifier) Classes() []int {
	return append([]int(nil), c.encoder.ClassLabels...)
}

// Score returns the accuracy on (X, y).
func (c *MhaELMClassifier) Score(X mat.Matrix, y []int) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return labelAccuracy(y, pred)
}

// Scores evaluates the named classification metrics on (X, y) in one pass.
func (c *MhaELMClassifier) Scores(X mat.Matrix, y []int, names []string) (map[string]float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return nil, err
	}
	return metrics.EvaluateClassification(names, labelVector(y), labelVector(pred))
}

// LossCurve returns the objective value of the global best after each epoch.
// Maximized metrics appear negated, matching what the optimizer minimized.
func (c *MhaELMClassifier) LossCurve() []float64 {
	if c.result == nil {
		return nil
	}
	return append([]float64(nil), c.result.History...)
}

// BestFitness returns the final objective value of the search.
func (c *MhaELMClassifier) BestFitness() (float64, error) {
	if c.result == nil {
		return 0, errors.NewNotFittedError("MhaELMClassifier", "BestFitness")
	}
	return c.result.Best, nil
}

// IsFitted reports whether Fit completed successfully.
func (c *MhaELMClassifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Reset returns the estimator to its unfitted state.
func (c *MhaELMClassifier) Reset() {
	c.state.Reset()
	c.net.beta = nil
	c.net.layers = nil
	c.encoder = preprocessing.NewLabelEncoder()
	c.onehot = nil
	c.result = nil
}

// GetParams returns the hyperparameters, sklearn style.
func (c *MhaELMClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"layer_sizes": c.net.LayerSizes(),
		"activation":  c.cfg.activation,
		"seed":        c.cfg.seed,
		"optimizer":   c.cfg.optimizer,
		"objective":   c.cfg.objective,
		"epochs":      c.cfg.optConfig.Epochs,
		"pop_size":    c.cfg.optConfig.PopSize,
	}
}

// GobEncode serializes the fitted network and the label mapping.
func (c *MhaELMClassifier) GobEncode() ([]byte, error) {
	nw := c.net.Snapshot("MhaELMClassifier", c.GetParams())
	if c.encoder.IsFitted() {
		labels := c.encoder.ClassLabels
		boxed := make([]interface{}, len(labels))
		for i, l := range labels {
			boxed[i] = l
		}
		nw.Metadata = map[string]interface{}{"class_labels": boxed}
	}
	return nw.ToJSON()
}

// GobDecode restores a classifier persisted with GobEncode.
func (c *MhaELMClassifier) GobDecode(data []byte) error {
	if c.state == nil {
		c.state = model.NewStateManager("MhaELMClassifier")
	}
	if c.encoder == nil {
		c.encoder = preprocessing.NewLabelEncoder()
	}
	if c.net == nil {
		c.cfg = defaultConfig()
		c.cfg.objective = "AS"
		c.logger = log.GetLoggerWithName("elm").With(log.ModelNameKey, "MhaELMClassifier")
		net, err := NewMultiLayerELM(c.cfg.layerSizes, c.cfg.activation, c.cfg.seed)
		if err != nil {
			return err
		}
		c.net = net
	}

	var nw model.NetworkWeights
	if err := nw.FromJSON(data); err != nil {
		return err
	}
	if err := c.net.Restore(&nw); err != nil {
		return err
	}
	c.cfg.activation = nw.Activation
	c.cfg.layerSizes = c.net.LayerSizes()

	if raw, ok := nw.Metadata["class_labels"].([]interface{}); ok {
		labels := make([]int, len(raw))
		for i, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return errors.NewValueError("MhaELMClassifier.GobDecode", "malformed class_labels metadata")
			}
			labels[i] = int(f)
		}
		if err := c.encoder.Fit(labels); err != nil {
			return err
		}
		oh, err := preprocessing.NewOneHotEncoder(c.encoder.NClasses())
		if err != nil {
			return err
		}
		c.onehot = oh
	}

	if nw.IsFitted {
		c.state.SetDimensions(c.net.inFeatures, 0)
		c.state.SetFitted()
	}
	return nil
}
