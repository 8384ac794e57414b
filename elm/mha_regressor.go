package elm

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/metrics"
	"github.com/elmgo-ml/elmgo/mha"
	"github.com/elmgo-ml/elmgo/pkg/errors"
	"github.com/elmgo-ml/elmgo/pkg/log"
)

// MhaELMRegressor is an ELM regressor whose hidden weights are tuned by a
// metaheuristic instead of being left at their random draw. The output layer
// is still solved in closed form inside every fitness evaluation, so the
// search space contains only the hidden weights and biases.
type MhaELMRegressor struct {
	state  *model.StateManager
	cfg    config
	net    *MultiLayerELM
	logger log.Logger

	result *mha.Result
}

// NewMhaELMRegressor builds a metaheuristic-trained regressor.
// Defaults: GA optimizer, RMSE objective, bounds (-10, 10).
func NewMhaELMRegressor(opts ...Option) (*MhaELMRegressor, error) {
	cfg := defaultConfig()
	cfg.objective = "RMSE"
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.optConfigSet {
		cfg.optConfig.Seed = cfg.seed
	}
	if _, _, err := metrics.GetRegression(cfg.objective); err != nil {
		return nil, err
	}
	net, err := NewMultiLayerELM(cfg.layerSizes, cfg.activation, cfg.seed)
	if err != nil {
		return nil, err
	}
	return &MhaELMRegressor{
		state: model.NewStateManager("MhaELMRegressor"),
		cfg:   cfg,
		net:   net,
		logger: log.GetLoggerWithName("elm").With(
			log.ModelNameKey, "MhaELMRegressor",
			log.OptimizerKey, cfg.optimizer,
			log.ObjectiveKey, cfg.objective,
		),
	}, nil
}

// Fit tunes the hidden weights against the objective metric on (X, y).
// The context bounds the metaheuristic run; cancel it to stop a long search.
func (r *MhaELMRegressor) Fit(ctx context.Context, X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "MhaELMRegressor.Fit")

	xd, yd, err := checkXY(X, y)
	if err != nil {
		return err
	}
	rows, cols := xd.Dims()

	metric, direction, err := metrics.GetRegression(r.cfg.objective)
	if err != nil {
		return err
	}

	r.net.InitWeights(cols)

	fitness := func(solution []float64) float64 {
		net := r.net
		if r.cfg.parallel {
			// Decode mutates the network, so concurrent evaluations
			// each work on their own copy.
			net = r.net.CloneStructure()
		}
		return regressionFitness(net, solution, xd, yd, metric, direction)
	}

	problem := &mha.Problem{
		Objective: fitness,
		LB:        r.cfg.lb,
		UB:        r.cfg.ub,
		NDim:      r.net.NDim(),
		Parallel:  r.cfg.parallel,
	}

	optimizer, err := mha.NewByName(r.cfg.optimizer, r.cfg.optConfig)
	if err != nil {
		return err
	}

	r.logger.Info("training started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ProblemSizeKey, problem.NDim,
		log.PopSizeKey, r.cfg.optConfig.PopSize,
	)

	result, err := optimizer.Solve(ctx, problem)
	if err != nil {
		return err
	}

	if err := r.net.Decode(result.Solution); err != nil {
		return err
	}
	if err := r.net.SolveOutput(xd, yd); err != nil {
		return err
	}

	r.result = result
	r.state.SetDimensions(cols, rows)
	r.state.SetFitted()

	r.logger.Info("training finished",
		log.EpochKey, result.Epochs,
		log.BestFitnessKey, result.Best,
	)
	return nil
}

// regressionFitness solves the output layer for one candidate and scores it.
// Maximized metrics are negated so the optimizers always minimize. Candidates
// that fail numerically are penalized instead of aborting the search.
func regressionFitness(net *MultiLayerELM, solution []float64, X, Y *mat.Dense, metric metrics.VecMetric, direction metrics.Direction) float64 {
	const penalty = 1e10

	if err := net.Decode(solution); err != nil {
		return penalty
	}
	if err := net.SolveOutput(X, Y); err != nil {
		return penalty
	}
	pred, err := net.Predict(X)
	if err != nil {
		return penalty
	}

	yTrue, err := metrics.ColumnVector(Y)
	if err != nil {
		return penalty
	}
	yPred, err := metrics.ColumnVector(pred)
	if err != nil {
		return penalty
	}
	score, err := metric(yTrue, yPred)
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

// Predict returns the predicted targets for X.
func (r *MhaELMRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
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
func (r *MhaELMRegressor) Score(X, y mat.Matrix) (float64, error) {
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
func (r *MhaELMRegressor) Scores(X, y mat.Matrix, names []string) (map[string]float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return nil, err
	}
	return metrics.EvaluateRegression(names, y, pred)
}

// LossCurve returns the objective value of the global best after each epoch.
// Maximized metrics appear negated, matching what the optimizer minimized.
func (r *MhaELMRegressor) LossCurve() []float64 {
	if r.result == nil {
		return nil
	}
	return append([]float64(nil), r.result.History...)
}

// BestFitness returns the final objective value of the search.
func (r *MhaELMRegressor) BestFitness() (float64, error) {
	if r.result == nil {
		return 0, errors.NewNotFittedError("MhaELMRegressor", "BestFitness")
	}
	return r.result.Best, nil
}

// IsFitted reports whether Fit completed successfully.
func (r *MhaELMRegressor) IsFitted() bool {
	return r.state.IsFitted()
}

// Reset returns the estimator to its unfitted state.
func (r *MhaELMRegressor) Reset() {
	r.state.Reset()
	r.net.beta = nil
	r.net.layers = nil
	r.result = nil
}

// GetParams returns the hyperparameters, sklearn style.
func (r *MhaELMRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"layer_sizes": r.net.LayerSizes(),
		"activation":  r.cfg.activation,
		"seed":        r.cfg.seed,
		"optimizer":   r.cfg.optimizer,
		"objective":   r.cfg.objective,
		"epochs":      r.cfg.optConfig.Epochs,
		"pop_size":    r.cfg.optConfig.PopSize,
	}
}

// GobEncode serializes the fitted network for model.SaveModel.
func (r *MhaELMRegressor) GobEncode() ([]byte, error) {
	return r.net.Snapshot("MhaELMRegressor", r.GetParams()).ToJSON()
}

// GobDecode restores a network persisted with GobEncode.
func (r *MhaELMRegressor) GobDecode(data []byte) error {
	if r.state == nil {
		r.state = model.NewStateManager("MhaELMRegressor")
	}
	if r.net == nil {
		r.cfg = defaultConfig()
		r.cfg.objective = "RMSE"
		r.logger = log.GetLoggerWithName("elm").With(log.ModelNameKey, "MhaELMRegressor")
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
