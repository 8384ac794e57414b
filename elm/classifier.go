package elm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/activation"
	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/metrics"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/pkg/log"
	"github.com/elmgo-ml/elmgo/preprocessing"
)

// ELMClassifier is an extreme learning machine for classification.
//
// Labels are encoded to one-hot targets internally; the network regresses
// onto those indicator columns and predictions are made through a softmax over
// the raw outputs. Binary problems use two output columns, so PredictProba
// behaves the same for two classes and many.
type ELMClassifier struct {
	state  *model.StateManager
	cfg    config
	net    *MultiLayerELM
	logger log.Logger

	encoder *preprocessing.LabelEncoder
	onehot  *preprocessing.OneHotEncoder
}

// NewELMClassifier builds a classifier. Defaults match NewELMRegressor.
func NewELMClassifier(opts ...Option) (*ELMClassifier, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	net, err := NewMultiLayerELM(cfg.layerSizes, cfg.activation, cfg.seed)
	if err != nil {
		return nil, err
	}
	return &ELMClassifier{
		state:   model.NewStateManager("ELMClassifier"),
		cfg:     cfg,
		net:     net,
		logger:  log.GetLoggerWithName("elm").With(log.ModelNameKey, "ELMClassifier"),
		encoder: preprocessing.NewLabelEncoder(),
	}, nil
}

// Fit trains the classifier on X and integer class labels y.
// At least two distinct classes are required.
func (c *ELMClassifier) Fit(X mat.Matrix, y []int) (err error) {
	defer errors.Recover(&err, "ELMClassifier.Fit")

	xd, err := toDense(X)
	if err != nil {
		return err
	}
	rows, cols := xd.Dims()
	if rows == 0 {
		return errors.NewModelError("ELMClassifier.Fit", "empty input", errors.ErrEmptyData)
	}
	if rows != len(y) {
		return errors.NewDimensionError("ELMClassifier.Fit", rows, len(y), 0)
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

	c.logger.Info("fitting",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, c.encoder.NClasses(),
		log.LayerSizesKey, c.cfg.layerSizes,
		log.ActivationKey, c.cfg.activation,
	)

	c.net.InitWeights(cols)
	if err := c.net.SolveOutput(xd, targets); err != nil {
		return err
	}

	c.state.SetDimensions(cols, rows)
	c.state.SetFitted()
	return nil
}

// PredictProba returns per-class probabilities, one row per sample, columns
// ordered like Classes.
func (c *ELMClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
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
func (c *ELMClassifier) Predict(X mat.Matrix) ([]int, error) {
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
func (c *ELMClassifier) Classes() []int {
	return append([]int(nil), c.encoder.ClassLabels...)
}

// Score returns the accuracy on (X, y).
func (c *ELMClassifier) Score(X mat.Matrix, y []int) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return labelAccuracy(y, pred)
}

// Scores evaluates the named classification metrics on (X, y) in one pass.
func (c *ELMClassifier) Scores(X mat.Matrix, y []int, names []string) (map[string]float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return nil, err
	}
	return metrics.EvaluateClassification(names, labelVector(y), labelVector(pred))
}

// IsFitted reports whether Fit completed successfully.
func (c *ELMClassifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Reset returns the estimator to its unfitted state.
func (c *ELMClassifier) Reset() {
	c.state.Reset()
	c.net.beta = nil
	c.net.layers = nil
	c.encoder = preprocessing.NewLabelEncoder()
	c.onehot = nil
}

// GetParams returns the hyperparameters, sklearn style.
func (c *ELMClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"layer_sizes": c.net.LayerSizes(),
		"activation":  c.cfg.activation,
		"seed":        c.cfg.seed,
	}
}

// GobEncode serializes the fitted network and the label mapping.
func (c *ELMClassifier) GobEncode() ([]byte, error) {
	nw := c.net.Snapshot("ELMClassifier", c.GetParams())
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
func (c *ELMClassifier) GobDecode(data []byte) error {
	if c.state == nil {
		c.state = model.NewStateManager("ELMClassifier")
	}
	if c.encoder == nil {
		c.encoder = preprocessing.NewLabelEncoder()
	}
	if c.net == nil {
		c.cfg = defaultConfig()
		c.logger = log.GetLoggerWithName("elm").With(log.ModelNameKey, "ELMClassifier")
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
				return errors.NewValueError("ELMClassifier.GobDecode", "malformed class_labels metadata")
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

// labelVector converts integer labels to the column vector form the metrics
// package works on.
func labelVector(labels []int) *mat.VecDense {
	v := mat.NewVecDense(len(labels), nil)
	for i, l := range labels {
		v.SetVec(i, float64(l))
	}
	return v
}

func labelAccuracy(yTrue, yPred []int) (float64, error) {
	return metrics.Accuracy(labelVector(yTrue), labelVector(yPred))
}
