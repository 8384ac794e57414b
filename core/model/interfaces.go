// Package model provides the core interfaces and base types shared by all
// estimators in ElmGo.
package model

import (
	"encoding/gob"

	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LabelPredictor は整数クラスラベルを予測するモデルのインターフェース
type LabelPredictor interface {
	// Predict は各サンプルのクラスラベルを予測する
	Predict(X mat.Matrix) ([]int, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is the minimal interface shared by all fitted models.
type Estimator interface {
	// IsFitted reports whether Fit has completed successfully.
	IsFitted() bool

	// Reset returns the model to its unfitted state.
	Reset()
}

// Scorer is the interface for models that score predictions against a
// numeric target matrix (R² for regressors).
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces of regression models.
type Regressor interface {
	Estimator
	Fitter
	Predictor
	Scorer
}

// Classifier combines the interfaces of classification models, which work
// on integer class labels rather than target matrices.
type Classifier interface {
	Estimator
	LabelPredictor

	// Fit learns the decision function from samples and their labels.
	Fit(X mat.Matrix, y []int) error

	// PredictProba returns per-class probability estimates, one row per
	// sample in the order of Classes.
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Classes returns the unique labels seen during fitting.
	Classes() []int

	// Score returns the accuracy of the prediction against y.
	Score(X mat.Matrix, y []int) (float64, error)
}

// LossRecorder is the interface for models that keep a per-epoch training
// loss history, such as the metaheuristic-trained ELM variants.
type LossRecorder interface {
	// LossCurve returns the objective value of the global best solution
	// for each training epoch.
	LossCurve() []float64
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Persistable is satisfied by models that serialize through the gob codec
// and can therefore be stored with SaveModel and restored with LoadModel.
type Persistable interface {
	gob.GobEncoder
	gob.GobDecoder
}
