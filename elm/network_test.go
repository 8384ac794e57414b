package elm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMultiLayerELMValidation(t *testing.T) {
	if _, err := NewMultiLayerELM(nil, "relu", 1); err == nil {
		t.Error("empty layer sizes should fail")
	}
	if _, err := NewMultiLayerELM([]int{0}, "relu", 1); err == nil {
		t.Error("zero neurons should fail")
	}
	if _, err := NewMultiLayerELM([]int{10}, "not_a_function", 1); err == nil {
		t.Error("unknown activation should fail")
	}
}

func TestInitWeightsReproducible(t *testing.T) {
	a, err := NewMultiLayerELM([]int{5, 3}, "sigmoid", 99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMultiLayerELM([]int{5, 3}, "sigmoid", 99)
	if err != nil {
		t.Fatal(err)
	}

	a.InitWeights(4)
	b.InitWeights(4)

	ea, eb := a.Encode(), b.Encode()
	if len(ea) != len(eb) {
		t.Fatalf("encode lengths differ: %d vs %d", len(ea), len(eb))
	}
	for i := range ea {
		if ea[i] != eb[i] {
			t.Fatalf("same seed produced different weights at index %d", i)
		}
	}
}

func TestNDim(t *testing.T) {
	net, err := NewMultiLayerELM([]int{5, 3}, "relu", 1)
	if err != nil {
		t.Fatal(err)
	}
	net.InitWeights(4)

	// layer 1: 4*5 + 5 = 25, layer 2: 5*3 + 3 = 18
	if got, want := net.NDim(), 43; got != want {
		t.Errorf("NDim = %d, want %d", got, want)
	}
	if got := len(net.Encode()); got != 43 {
		t.Errorf("Encode length = %d, want 43", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	net, err := NewMultiLayerELM([]int{4}, "tanh", 1)
	if err != nil {
		t.Fatal(err)
	}
	net.InitWeights(2)

	original := net.Encode()
	modified := make([]float64, len(original))
	for i := range modified {
		modified[i] = float64(i) * 0.5
	}

	if err := net.Decode(modified); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	got := net.Encode()
	for i := range got {
		if got[i] != modified[i] {
			t.Fatalf("round trip mismatch at index %d: %g != %g", i, got[i], modified[i])
		}
	}

	if err := net.Decode(modified[:3]); err == nil {
		t.Error("wrong solution length should fail")
	}
}

func TestForwardShapes(t *testing.T) {
	net, err := NewMultiLayerELM([]int{7, 4}, "relu", 1)
	if err != nil {
		t.Fatal(err)
	}
	net.InitWeights(3)

	X := mat.NewDense(5, 3, nil)
	h, err := net.Forward(X)
	if err != nil {
		t.Fatalf("Forward error: %v", err)
	}
	r, c := h.Dims()
	if r != 5 || c != 4 {
		t.Errorf("hidden output is %dx%d, want 5x4", r, c)
	}

	bad := mat.NewDense(5, 2, nil)
	if _, err := net.Forward(bad); err == nil {
		t.Error("feature count mismatch should fail")
	}
}

func TestSolveOutputRecoversLinearTarget(t *testing.T) {
	// With enough hidden neurons the network interpolates a smooth target
	// almost exactly on its training points.
	net, err := NewMultiLayerELM([]int{30}, "tanh", 3)
	if err != nil {
		t.Fatal(err)
	}

	const n = 40
	X := mat.NewDense(n, 1, nil)
	Y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i)/n*4 - 2
		X.Set(i, 0, x)
		Y.Set(i, 0, 2*x+1)
	}

	net.InitWeights(1)
	if err := net.SolveOutput(X, Y); err != nil {
		t.Fatalf("SolveOutput error: %v", err)
	}

	pred, err := net.Predict(X)
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}
	for i := 0; i < n; i++ {
		if diff := math.Abs(pred.At(i, 0) - Y.At(i, 0)); diff > 1e-3 {
			t.Fatalf("row %d: |pred-true| = %g, want < 1e-3", i, diff)
		}
	}
}

func TestPredictBeforeSolve(t *testing.T) {
	net, err := NewMultiLayerELM([]int{5}, "relu", 1)
	if err != nil {
		t.Fatal(err)
	}
	net.InitWeights(2)
	if _, err := net.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before SolveOutput should fail")
	}
}

func TestCloneStructureIndependent(t *testing.T) {
	net, err := NewMultiLayerELM([]int{4}, "relu", 1)
	if err != nil {
		t.Fatal(err)
	}
	net.InitWeights(2)

	clone := net.CloneStructure()
	solution := make([]float64, clone.NDim())
	if err := clone.Decode(solution); err != nil {
		t.Fatalf("Decode on clone error: %v", err)
	}

	// Zeroing the clone must not touch the original.
	for _, v := range net.Encode() {
		if v != 0 {
			return
		}
	}
	t.Error("clone shares weight storage with the original")
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	net, err := NewMultiLayerELM([]int{6}, "sigmoid", 5)
	if err != nil {
		t.Fatal(err)
	}

	X := mat.NewDense(10, 2, nil)
	Y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*0.5)
		Y.Set(i, 0, float64(i)*3)
	}
	net.InitWeights(2)
	if err := net.SolveOutput(X, Y); err != nil {
		t.Fatal(err)
	}
	want, err := net.Predict(X)
	if err != nil {
		t.Fatal(err)
	}

	snapshot := net.Snapshot("TestModel", nil)
	restored, err := NewMultiLayerELM([]int{1}, "relu", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := restored.Restore(snapshot); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	got, err := restored.Predict(X)
	if err != nil {
		t.Fatalf("Predict after restore error: %v", err)
	}
	if !mat.EqualApprox(got, want, 1e-12) {
		t.Error("restored network predicts differently")
	}
}
