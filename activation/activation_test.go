package activation

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tol = 1e-9

func TestScalarActivations(t *testing.T) {
	tests := []struct {
		name  string
		fn    string
		input float64
		want  float64
	}{
		{name: "relu positive", fn: "relu", input: 2.5, want: 2.5},
		{name: "relu negative", fn: "relu", input: -1.0, want: 0.0},
		{name: "leaky relu negative", fn: "leaky_relu", input: -1.0, want: -0.01},
		{name: "elu positive", fn: "elu", input: 3.0, want: 3.0},
		{name: "elu negative", fn: "elu", input: -1.0, want: math.Expm1(-1)},
		{name: "sigmoid zero", fn: "sigmoid", input: 0.0, want: 0.5},
		{name: "tanh zero", fn: "tanh", input: 0.0, want: 0.0},
		{name: "hard tanh clip high", fn: "hard_tanh", input: 5.0, want: 1.0},
		{name: "hard tanh clip low", fn: "hard_tanh", input: -5.0, want: -1.0},
		{name: "softsign", fn: "softsign", input: 1.0, want: 0.5},
		{name: "softplus zero", fn: "softplus", input: 0.0, want: math.Log(2)},
		{name: "silu zero", fn: "silu", input: 0.0, want: 0.0},
		{name: "selu positive", fn: "selu", input: 1.0, want: seluLambda},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := Get(tt.fn)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.fn, err)
			}
			X := mat.NewDense(1, 1, []float64{tt.input})
			fn(X)
			if got := X.At(0, 0); math.Abs(got-tt.want) > tol {
				t.Errorf("%s(%g) = %g, want %g", tt.fn, tt.input, got, tt.want)
			}
		})
	}
}

func TestSigmoidExtremes(t *testing.T) {
	fn, err := Get("sigmoid")
	if err != nil {
		t.Fatal(err)
	}
	X := mat.NewDense(1, 2, []float64{-1000, 1000})
	fn(X)
	if got := X.At(0, 0); math.IsNaN(got) || got > 1e-10 {
		t.Errorf("sigmoid(-1000) = %g, want ~0", got)
	}
	if got := X.At(0, 1); math.IsNaN(got) || math.Abs(got-1) > 1e-10 {
		t.Errorf("sigmoid(1000) = %g, want ~1", got)
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	X := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		-1, 0, 1, 2,
		100, 100, 100, 100,
	})
	Softmax(X)

	r, c := X.Dims()
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("row %d col %d: probability %g outside [0, 1]", i, j, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > tol {
			t.Errorf("row %d sums to %g, want 1", i, sum)
		}
	}
}

func TestSoftmaxLargeValues(t *testing.T) {
	// Large logits must not overflow to NaN.
	X := mat.NewDense(1, 3, []float64{1000, 999, 998})
	Softmax(X)
	for j := 0; j < 3; j++ {
		if math.IsNaN(X.At(0, j)) {
			t.Fatalf("softmax produced NaN at column %d", j)
		}
	}
	if X.At(0, 0) <= X.At(0, 1) {
		t.Error("largest logit should keep the largest probability")
	}
}

func TestLogSoftmax(t *testing.T) {
	X := mat.NewDense(1, 3, []float64{1, 2, 3})
	LogSoftmax(X)
	sum := 0.0
	for j := 0; j < 3; j++ {
		sum += math.Exp(X.At(0, j))
	}
	if math.Abs(sum-1) > tol {
		t.Errorf("exp(log_softmax) sums to %g, want 1", sum)
	}
}

func TestGetAliases(t *testing.T) {
	for alias, canonical := range map[string]string{
		"swish":     "silu",
		"soft_plus": "softplus",
		"SWISH":     "silu",
		"ReLU":      "relu",
	} {
		if _, err := Get(alias); err != nil {
			t.Errorf("Get(%q) should resolve to %s, got error: %v", alias, canonical, err)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("does_not_exist"); err == nil {
		t.Error("Get of unknown activation should fail")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("Names returned nothing")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names not sorted: %v", names)
	}
}
