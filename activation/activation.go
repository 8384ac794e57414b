// Package activation provides the hidden-layer activation functions used by
// the ELM networks, registered under the names accepted by the estimator
// options (for example "relu", "elu", "sigmoid", "softmax").
//
// Scalar activations are applied element-wise; softmax and log_softmax are
// applied row-wise so that each sample's outputs form a distribution.
package activation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Func applies an activation to X in place.
type Func func(X *mat.Dense)

// elementwise lifts a scalar activation to a matrix activation.
func elementwise(f func(float64) float64) Func {
	return func(X *mat.Dense) {
		X.Apply(func(_, _ int, v float64) float64 { return f(v) }, X)
	}
}

// Scalar activations. Constants follow the common definitions
// (SELU constants from Klambauer et al., GELU tanh approximation).
const (
	seluAlpha  = 1.6732632423543772
	seluLambda = 1.0507009873554805
)

func relu(x float64) float64 {
	return math.Max(0, x)
}

func leakyReLU(x float64) float64 {
	if x >= 0 {
		return x
	}
	return 0.01 * x
}

func elu(x float64) float64 {
	if x >= 0 {
		return x
	}
	return math.Expm1(x)
}

func selu(x float64) float64 {
	if x >= 0 {
		return seluLambda * x
	}
	return seluLambda * seluAlpha * math.Expm1(x)
}

func gelu(x float64) float64 {
	return 0.5 * x * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(x+0.044715*x*x*x)))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + errors.StabilizeExp(-x))
}

func hardSigmoid(x float64) float64 {
	return errors.ClipValue(x/6+0.5, 0, 1)
}

func logSigmoid(x float64) float64 {
	// -log(1 + exp(-x)) computed without overflow for large |x|
	return -softplus(-x)
}

func hardTanh(x float64) float64 {
	return errors.ClipValue(x, -1, 1)
}

func silu(x float64) float64 {
	return x * sigmoid(x)
}

func mish(x float64) float64 {
	return x * math.Tanh(softplus(x))
}

func softplus(x float64) float64 {
	// log(1 + exp(x)) = max(x, 0) + log1p(exp(-|x|))
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

func softsign(x float64) float64 {
	return x / (1 + math.Abs(x))
}

// Softmax applies a row-wise numerically stable softmax in place.
func Softmax(X *mat.Dense) {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		row := X.RawRowView(i)
		lse := errors.LogSumExp(row)
		for j := 0; j < c; j++ {
			row[j] = math.Exp(row[j] - lse)
		}
	}
}

// LogSoftmax applies a row-wise log-softmax in place.
func LogSoftmax(X *mat.Dense) {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		row := X.RawRowView(i)
		lse := errors.LogSumExp(row)
		for j := 0; j < c; j++ {
			row[j] -= lse
		}
	}
}

// registry maps canonical activation names to their implementations.
// Aliases (e.g. "swish" for "silu") are resolved before lookup.
var registry = map[string]Func{
	"relu":         elementwise(relu),
	"leaky_relu":   elementwise(leakyReLU),
	"elu":          elementwise(elu),
	"selu":         elementwise(selu),
	"gelu":         elementwise(gelu),
	"sigmoid":      elementwise(sigmoid),
	"hard_sigmoid": elementwise(hardSigmoid),
	"log_sigmoid":  elementwise(logSigmoid),
	"tanh":         elementwise(math.Tanh),
	"hard_tanh":    elementwise(hardTanh),
	"silu":         elementwise(silu),
	"mish":         elementwise(mish),
	"softplus":     elementwise(softplus),
	"softsign":     elementwise(softsign),
	"softmax":      Softmax,
	"log_softmax":  LogSoftmax,
}

var aliases = map[string]string{
	"swish":     "silu",
	"soft_plus": "softplus",
	"soft_sign": "softsign",
}

// Get returns the activation function registered under name.
// The lookup is case-insensitive and accepts common aliases.
func Get(name string) (Func, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[canonical]; ok {
		canonical = target
	}
	fn, ok := registry[canonical]
	if !ok {
		return nil, errors.NewValueError("activation.Get",
			fmt.Sprintf("unknown activation %q. Supported: %s", name, strings.Join(Names(), ", ")))
	}
	return fn, nil
}

// Names returns the sorted list of canonical activation names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
