package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Direction indicates whether a metric should be minimized or maximized.
// It drives the objective direction of the metaheuristic optimizers.
type Direction string

const (
	// Minimize marks error-style metrics (MSE, RMSE, ...).
	Minimize Direction = "min"
	// Maximize marks score-style metrics (R2, accuracy, ...).
	Maximize Direction = "max"
)

// VecMetric evaluates a metric on vector-shaped ground truth and predictions.
type VecMetric func(yTrue, yPred *mat.VecDense) (float64, error)

// metricEntry couples a metric function with its optimization direction.
type metricEntry struct {
	direction Direction
	eval      VecMetric
}

// Metric short codes follow the permetrics naming convention
// ("AS" accuracy, "PS" precision, "RS" recall, "F1S" F1, "CEL" cross-entropy).
var regressionRegistry = map[string]metricEntry{
	"MSE":  {Minimize, MSE},
	"RMSE": {Minimize, RMSE},
	"MAE":  {Minimize, MAE},
	"MAPE": {Minimize, MAPE},
	"R2":   {Maximize, R2Score},
	"EVS":  {Maximize, ExplainedVarianceScore},
}

var classificationRegistry = map[string]metricEntry{
	"AS":  {Maximize, Accuracy},
	"PS":  {Maximize, Precision},
	"RS":  {Maximize, Recall},
	"F1S": {Maximize, F1Score},
	"CEL": {Minimize, BinaryLogLoss},
}

// RegressionMetrics returns the supported regression metric names and their
// optimization directions, mirroring the toolkit's metric registry.
func RegressionMetrics() map[string]Direction {
	out := make(map[string]Direction, len(regressionRegistry))
	for name, entry := range regressionRegistry {
		out[name] = entry.direction
	}
	return out
}

// ClassificationMetrics returns the supported classification metric names and
// their optimization directions.
func ClassificationMetrics() map[string]Direction {
	out := make(map[string]Direction, len(classificationRegistry))
	for name, entry := range classificationRegistry {
		out[name] = entry.direction
	}
	return out
}

func sortedNames(registry map[string]metricEntry) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetRegression looks up a regression metric by its short code.
func GetRegression(name string) (VecMetric, Direction, error) {
	entry, ok := regressionRegistry[strings.ToUpper(name)]
	if !ok {
		return nil, "", errors.NewValueError("metrics.GetRegression",
			fmt.Sprintf("unknown metric %q. Supported: %s", name, strings.Join(sortedNames(regressionRegistry), ", ")))
	}
	return entry.eval, entry.direction, nil
}

// GetClassification looks up a classification metric by its short code.
func GetClassification(name string) (VecMetric, Direction, error) {
	entry, ok := classificationRegistry[strings.ToUpper(name)]
	if !ok {
		return nil, "", errors.NewValueError("metrics.GetClassification",
			fmt.Sprintf("unknown metric %q. Supported: %s", name, strings.Join(sortedNames(classificationRegistry), ", ")))
	}
	return entry.eval, entry.direction, nil
}

// ObjectiveDirection resolves a metric name against both registries, the way
// the MHA trainers accept either a regression or classification objective.
func ObjectiveDirection(name string) (Direction, error) {
	code := strings.ToUpper(name)
	if entry, ok := regressionRegistry[code]; ok {
		return entry.direction, nil
	}
	if entry, ok := classificationRegistry[code]; ok {
		return entry.direction, nil
	}
	supported := append(sortedNames(regressionRegistry), sortedNames(classificationRegistry)...)
	return "", errors.NewValueError("metrics.ObjectiveDirection",
		fmt.Sprintf("unknown objective %q. Supported: %s", name, strings.Join(supported, ", ")))
}

// ColumnVector converts an n×1 matrix (or a vector) to a VecDense.
func ColumnVector(m mat.Matrix) (*mat.VecDense, error) {
	if v, ok := m.(*mat.VecDense); ok {
		return v, nil
	}
	r, c := m.Dims()
	if c != 1 {
		return nil, errors.NewValueError("metrics.ColumnVector", "must be a column vector (n×1 matrix)")
	}
	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, m.At(i, 0))
	}
	return vec, nil
}

// EvaluateRegression computes the named regression metrics for column-vector
// shaped inputs and returns a name→value map.
func EvaluateRegression(names []string, yTrue, yPred mat.Matrix) (map[string]float64, error) {
	tVec, err := ColumnVector(yTrue)
	if err != nil {
		return nil, err
	}
	pVec, err := ColumnVector(yPred)
	if err != nil {
		return nil, err
	}

	results := make(map[string]float64, len(names))
	for _, name := range names {
		eval, _, err := GetRegression(name)
		if err != nil {
			return nil, err
		}
		value, err := eval(tVec, pVec)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating %s", name)
		}
		results[strings.ToUpper(name)] = value
	}
	return results, nil
}

// EvaluateClassification computes the named classification metrics for
// column-vector shaped label inputs and returns a name→value map.
func EvaluateClassification(names []string, yTrue, yPred mat.Matrix) (map[string]float64, error) {
	tVec, err := ColumnVector(yTrue)
	if err != nil {
		return nil, err
	}
	pVec, err := ColumnVector(yPred)
	if err != nil {
		return nil, err
	}

	results := make(map[string]float64, len(names))
	for _, name := range names {
		eval, _, err := GetClassification(name)
		if err != nil {
			return nil, err
		}
		value, err := eval(tVec, pVec)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating %s", name)
		}
		results[strings.ToUpper(name)] = value
	}
	return results, nil
}
