package elm

import (
	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/metrics"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// ELMRegressor is an extreme learning machine for regression.
//
// Hidden weights are drawn at random from a standard normal distribution and
// the output weights are solved in closed form with a pseudo-inverse, so
// fitting needs a single pass and no iterative optimization.
type ELMRegressor struct {
	state  *model.StateManager
	cfg    config
	net    *MultiLayerELM
	logger log.Logger
}

// NewELMRegressor builds a regressor. Defaults: a single hidden layer of 10
// neurons, sigmoid activation, seed 1.
func NewELMRegressor(opts ...Option) (*ELMRegressor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	net, err := NewMultiLayerELM(cfg.layerSizes, cfg.activation, cfg.seed)
	if err != nil {
		return nil, err
	}
	return &ELMRegressor{
		state:  model.NewStateManager("ELMRegressor"),
		cfg:    cfg,
		net:    net,
		logger: log.GetLoggerWithName("elm").With(log.ModelNameKey, "ELMRegressor"),
	}, nil
}

// Fit draws hidden weights and solves the output layer against y.
// y may be a column vector or a multi-output matrix.
func (r *ELMRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "ELMRegressor.Fit")

	xd, yd, err := checkXY(X, y)
	if err != nil {
		return err
	}
	rows, cols := xd.Dims()
	_, targets := yd.Dims()

	r.logger.Info("fitting",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.TargetsKey, targets,
		log.LayerSizesKey, r.cfg.layerSizes,
		log.ActivationKey, r.cfg.activation,
	)

	r.net.InitWeights(cols)
	if err := r.net.SolveOutput(xd, yd); err != nil {
		return err
	}

	r.state.SetDimensions(cols, rows)
	r.state.SetFitted()
	return nil
}

// Predict returns the predicted targets for X.
func (r *ELMRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	xd, err := toDense(X)
	if err != nil {
		return nil, err
	}
	return r.net.Predict(xd)
}

// Score returns the R² coefficient of determination on (X, y).
func (r *ELMRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue, err := metrics.ColumnVector(y)
	if err != nil {
		return 0, err
	}
	yPred, err := metrics.ColumnVector(pred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, yPred)
}

// Scores evaluates the named regression metrics on (X, y) in one pass.
func (r *ELMRegressor) Scores(X, y mat.Matrix, names []string) (map[string]float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return nil, err
	}
	return metrics.EvaluateRegression(names, y, pred)
}

// IsFitted reports whether Fit completed successfully.
func (r *ELMRegressor) IsFitted() bool {
	return r.state.IsFitted()
}

// Reset returns the estimator to its unfitted state.
func (r *ELMRegressor) Reset() {
	r.state.Reset()
	r.net.beta = nil
	r.net.layers = nil
}

// GetParams returns the hyperparameters, sklearn style.
func (r *ELMRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"layer_sizes": r.net.LayerSizes(),
		"activation":  r.cfg.activation,
		"seed":        r.cfg.seed,
	}
}

// GobEncode serializes the fitted network for model.SaveModel.
func (r *ELMRegressor) GobEncode() ([]byte, error) {
	return r.net.Snapshot("ELMRegressor", r.GetParams()).ToJSON()
}

// GobDecode restores a network persisted with GobEncode.
func (r *ELMRegressor) GobDecode(data []byte) error {
	if r.state == nil {
		r.state = model.NewStateManager("ELMRegressor")
	}
	if r.net == nil {
		r.cfg = defaultConfig()
		r.logger = log.GetLoggerWithName("elm").With(log.ModelNameKey, "ELMRegressor")
		net, err := NewMultiLayerELM(r.cfg.layerSizes, r.cfg.activation, r.cfg.seed)
		if err != nil {
			return err
		}
		r.net = net
	}
	var nw model.NetworkWeights
	if err := nw.FromJSON(data); err != nil {
		return err
	}
	if err := r.net.Restore(&nw); err != nil {
		return err
	}
	r.cfg.activation = nw.Activation
	r.cfg.layerSizes = r.net.LayerSizes()
	if nw.IsFitted {
		r.state.SetDimensions(r.net.inFeatures, 0)
		r.state.SetFitted()
	}
	return nil
}

// toDense converts any mat.Matrix to *mat.Dense without copying when possible.
func toDense(m mat.Matrix) (*mat.Dense, error) {
	if m == nil {
		return nil, errors.NewValueError("elm", "nil matrix")
	}
	if d, ok := m.(*mat.Dense); ok {
		return d, nil
	}
	return mat.DenseCopyOf(m), nil
}

// checkXY validates the shapes of a feature matrix and its targets.
func checkXY(X, y mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	xd, err := toDense(X)
	if err != nil {
		return nil, nil, err
	}
	yd, err := toDense(y)
	if err != nil {
		return nil, nil, err
	}
	xr, _ := xd.Dims()
	yr, _ := yd.Dims()
	if xr == 0 {
		return nil, nil, errors.NewModelError("elm", "empty input", errors.ErrEmptyData)
	}
	if xr != yr {
		return nil, nil, errors.NewDimensionError("elm.Fit", xr, yr, 0)
	}
	return xd, yd, nil
}
