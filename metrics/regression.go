// Package metrics provides the regression and classification measures used
// for scoring estimators and for driving the metaheuristic objective.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// checkPair は二つのベクトルが空でなく同じ長さであることを確認する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE は平均二乗誤差 (1/n)·Σ(yTrue-yPred)² を返す
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += d * d
	}
	return sum / float64(n), nil
}

// RMSE はMSEの平方根を返す
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差 (1/n)·Σ|yTrue-yPred| を返す
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数 R² = 1 - RSS/TSS を返す。
// yTrueに分散がない場合はエラーになる。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		truth := yTrue.AtVec(i)
		resid := truth - yPred.AtVec(i)
		dev := truth - yMean
		tss += dev * dev
		rss += resid * resid
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を返す。
// yTrueが0の要素は除外し、すべて0ならエラーになる。
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		truth := yTrue.AtVec(i)
		if truth == 0 {
			continue
		}
		sum += math.Abs(truth-yPred.AtVec(i)) / math.Abs(truth)
		valid++
	}

	if valid == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}
	return (sum / float64(valid)) * 100, nil
}

// ExplainedVarianceScore は 1 - Var(yTrue-yPred)/Var(yTrue) を返す
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean, residMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
		residMean += yTrue.AtVec(i) - yPred.AtVec(i)
	}
	yMean /= float64(n)
	residMean /= float64(n)

	var varTrue, varResid float64
	for i := 0; i < n; i++ {
		truth := yTrue.AtVec(i)
		resid := truth - yPred.AtVec(i)
		varTrue += (truth - yMean) * (truth - yMean)
		varResid += (resid - residMean) * (resid - residMean)
	}
	varTrue /= float64(n)
	varResid /= float64(n)

	if varTrue == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}
	return 1 - varResid/varTrue, nil
}
