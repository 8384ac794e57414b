package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Accuracy は正解率（Accuracy Score）を計算する
// ラベルは整数値として比較される
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// uniqueLabels はyTrueとyPredに出現するクラスラベルを列挙する
func uniqueLabels(yTrue, yPred *mat.VecDense) []float64 {
	seen := map[float64]bool{}
	var labels []float64
	for i := 0; i < yTrue.Len(); i++ {
		if v := yTrue.AtVec(i); !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	for i := 0; i < yPred.Len(); i++ {
		if v := yPred.AtVec(i); !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	return labels
}

// Precision はマクロ平均適合率を計算する
// 陽性予測が存在しないクラスはUndefinedMetricWarningを発行し0として扱う
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Precision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	labels := uniqueLabels(yTrue, yPred)
	var sum float64
	for _, label := range labels {
		var tp, fp float64
		for i := 0; i < n; i++ {
			if yPred.AtVec(i) == label {
				if yTrue.AtVec(i) == label {
					tp++
				} else {
					fp++
				}
			}
		}
		if tp+fp == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples for a class", 0))
			continue
		}
		sum += tp / (tp + fp)
	}

	return sum / float64(len(labels)), nil
}

// Recall はマクロ平均再現率を計算する
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Recall", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	labels := uniqueLabels(yTrue, yPred)
	var sum float64
	for _, label := range labels {
		var tp, fn float64
		for i := 0; i < n; i++ {
			if yTrue.AtVec(i) == label {
				if yPred.AtVec(i) == label {
					tp++
				} else {
					fn++
				}
			}
		}
		if tp+fn == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples for a class", 0))
			continue
		}
		sum += tp / (tp + fn)
	}

	return sum / float64(len(labels)), nil
}

// F1Score はマクロ平均F1スコアを計算する
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("F1Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	labels := uniqueLabels(yTrue, yPred)
	var sum float64
	for _, label := range labels {
		var tp, fp, fn float64
		for i := 0; i < n; i++ {
			predHit := yPred.AtVec(i) == label
			trueHit := yTrue.AtVec(i) == label
			switch {
			case predHit && trueHit:
				tp++
			case predHit && !trueHit:
				fp++
			case !predHit && trueHit:
				fn++
			}
		}
		denom := 2*tp + fp + fn
		if denom == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("f1_score", "no samples for a class", 0))
			continue
		}
		sum += 2 * tp / denom
	}

	return sum / float64(len(labels)), nil
}

// BinaryLogLoss は2値分類の交差エントロピー損失を計算する
// yPredは陽性クラスの予測確率（0〜1）
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		p := errors.ClipValue(yPred.AtVec(i), 1e-15, 1-1e-15)
		if t != 0 && t != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "yTrue must contain only 0 and 1")
		}
		sum += -(t*math.Log(p) + (1-t)*math.Log(1-p))
	}

	return sum / float64(n), nil
}

// LogLoss は多クラス分類の交差エントロピー損失を計算する
// yTrueはクラスインデックス（0始まり）、probaは各行が確率分布となる行列
func LogLoss(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}

	r, c := proba.Dims()
	if r != n {
		return 0, errors.NewDimensionError("LogLoss", n, r, 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		k := int(yTrue.AtVec(i))
		if k < 0 || k >= c {
			return 0, errors.NewValueError("LogLoss", "class index out of range for probability matrix")
		}
		p := errors.ClipValue(proba.At(i, k), 1e-15, 1)
		sum += -math.Log(p)
	}

	return sum / float64(n), nil
}
