// Package preprocessing provides the scalers and label encoders that prepare
// data for the ELM estimators.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/elmgo-ml/elmgo/core/model"
	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// StandardScaler は各特徴量を平均0・分散1に揃えるスケーラー。
// 挙動はscikit-learnのStandardScalerに合わせてある。
type StandardScaler struct {
	state *model.StateManager

	// Mean には学習時に計算した列ごとの平均が入る
	Mean []float64

	// Scale には列ごとの標準偏差が入る
	Scale []float64

	// NFeatures は学習時の特徴量数
	NFeatures int

	// WithMean がtrueなら平均を引く (デフォルト: true)
	WithMean bool

	// WithStd がtrueなら標準偏差で割る (デフォルト: true)
	WithStd bool
}

// NewStandardScaler はStandardScalerを構築する。
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager("StandardScaler"),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault は平均も標準偏差も使う既定設定で構築する。
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// column は行列のj列をコピーしてスライスで返す。
func column(X mat.Matrix, j int) []float64 {
	r, _ := X.Dims()
	col := make([]float64, r)
	for i := 0; i < r; i++ {
		col[i] = X.At(i, j)
	}
	return col
}

// Fit は訓練データの列ごとの平均と標準偏差を記録する。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		col := column(X, j)

		if s.WithMean {
			s.Mean[j] = stat.Mean(col, nil)
		}

		if s.WithStd {
			// scikit-learn同様に母分散を使う
			variance := stat.PopVariance(col, nil)
			s.Scale[j] = math.Sqrt(variance)

			// ほぼ定数の列はゼロ除算を避けるため1にする
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		} else {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetFitted()
	s.state.SetDimensions(c, r)
	return nil
}

// Transform は記録済みの統計量でデータを標準化する。
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform はFitしてそのままTransformした結果を返す。
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化を逆変換して元のスケールに戻す。
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("InverseTransform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}

	return result, nil
}

// IsFitted は学習済みかどうかを返す。
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// GetParams は設定パラメータをsklearn形式で返す。
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はsklearn風の文字列表現を返す。
func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
}

// MinMaxScaler は各特徴量を指定した範囲（既定は[0, 1]）に線形変換する。
type MinMaxScaler struct {
	state *model.StateManager

	// Min には列ごとの最小値が入る
	Min []float64

	// Max には列ごとの最大値が入る
	Max []float64

	// FeatureRange は変換後の出力範囲
	FeatureRange [2]float64

	// NFeatures は学習時の特徴量数
	NFeatures int
}

// NewMinMaxScaler は指定範囲に変換するMinMaxScalerを構築する。
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		state:        model.NewStateManager("MinMaxScaler"),
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault は[0, 1]範囲の既定設定で構築する。
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit は訓練データの列ごとの最小値と最大値を記録する。
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "min must be less than max", m.FeatureRange)
	}

	m.NFeatures = c
	m.Min = make([]float64, c)
	m.Max = make([]float64, c)

	for j := 0; j < c; j++ {
		col := column(X, j)
		min, max := col[0], col[0]
		for _, v := range col[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		m.Min[j] = min
		m.Max[j] = max
	}

	m.state.SetFitted()
	m.state.SetDimensions(c, r)
	return nil
}

// Transform は記録済みの最小値・最大値で範囲変換する。
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	lo, hi := m.FeatureRange[0], m.FeatureRange[1]
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			span := m.Max[j] - m.Min[j]
			if span == 0 {
				// 定数列は出力範囲の下限に写す
				result.Set(i, j, lo)
				continue
			}
			scaled := (X.At(i, j) - m.Min[j]) / span
			result.Set(i, j, scaled*(hi-lo)+lo)
		}
	}

	return result, nil
}

// FitTransform はFitしてそのままTransformした結果を返す。
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform は範囲変換を逆変換して元のスケールに戻す。
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("InverseTransform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	lo, hi := m.FeatureRange[0], m.FeatureRange[1]
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			normalized := (X.At(i, j) - lo) / (hi - lo)
			result.Set(i, j, normalized*(m.Max[j]-m.Min[j])+m.Min[j])
		}
	}

	return result, nil
}

// IsFitted は学習済みかどうかを返す。
func (m *MinMaxScaler) IsFitted() bool {
	return m.state.IsFitted()
}

// GetParams は設定パラメータをsklearn形式で返す。
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String はsklearn風の文字列表現を返す。
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=[%g, %g])", m.FeatureRange[0], m.FeatureRange[1])
}
