package elm

import (
	"bytes"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/core/model"
)

// blobs builds two well separated gaussian clusters with labels -1 and 3,
// exercising the label encoding as well as the classifier itself.
func blobs(n int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		center := -3.0
		y[i] = -1
		if i >= n/2 {
			center = 3.0
			y[i] = 3
		}
		X.Set(i, 0, center+rng.NormFloat64()*0.5)
		X.Set(i, 1, center+rng.NormFloat64()*0.5)
	}
	return X, y
}

func TestELMClassifierFitPredict(t *testing.T) {
	X, y := blobs(100, 42)

	clf, err := NewELMClassifier(
		WithLayerSizes(20),
		WithActivation("tanh"),
		WithSeed(7),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	if got := clf.Classes(); !reflect.DeepEqual(got, []int{-1, 3}) {
		t.Errorf("Classes = %v, want [-1 3]", got)
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if acc < 0.95 {
		t.Errorf("accuracy = %g, want > 0.95 on separable blobs", acc)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i, label := range pred {
		if label != -1 && label != 3 {
			t.Fatalf("prediction %d has label %d outside the training labels", i, label)
		}
	}
}

func TestELMClassifierPredictProba(t *testing.T) {
	X, y := blobs(60, 1)
	clf, err := NewELMClassifier(WithLayerSizes(15), WithActivation("sigmoid"))
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba error: %v", err)
	}

	rows, cols := proba.Dims()
	if cols != 2 {
		t.Fatalf("probability matrix has %d columns, want 2", cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := proba.At(i, j)
			if p < 0 || p > 1 {
				t.Fatalf("probability (%d,%d) = %g outside [0, 1]", i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row %d probabilities sum to %g", i, sum)
		}
	}
}

func TestELMClassifierMultiClass(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const perClass = 30
	X := mat.NewDense(3*perClass, 2, nil)
	y := make([]int, 3*perClass)
	centers := [][2]float64{{-4, 0}, {4, 0}, {0, 5}}
	for c := 0; c < 3; c++ {
		for i := 0; i < perClass; i++ {
			row := c*perClass + i
			X.Set(row, 0, centers[c][0]+rng.NormFloat64()*0.5)
			X.Set(row, 1, centers[c][1]+rng.NormFloat64()*0.5)
			y[row] = c * 10
		}
	}

	clf, err := NewELMClassifier(WithLayerSizes(30), WithActivation("tanh"), WithSeed(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	if got := clf.Classes(); !reflect.DeepEqual(got, []int{0, 10, 20}) {
		t.Errorf("Classes = %v, want [0 10 20]", got)
	}
	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatal(err)
	}
	if acc < 0.9 {
		t.Errorf("accuracy = %g, want > 0.9 on three separable blobs", acc)
	}
}

func TestELMClassifierSingleClassFails(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	clf, err := NewELMClassifier()
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(X, []int{1, 1, 1, 1, 1}); err == nil {
		t.Error("single class training data should fail")
	}
}

func TestELMClassifierNotFitted(t *testing.T) {
	clf, err := NewELMClassifier()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := clf.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before Fit should fail")
	}
}

func TestELMClassifierPersistence(t *testing.T) {
	X, y := blobs(80, 9)
	clf, err := NewELMClassifier(WithLayerSizes(20), WithActivation("tanh"), WithSeed(4))
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	want, err := clf.Predict(X)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(clf, &buf); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := NewELMClassifier()
	if err != nil {
		t.Fatal(err)
	}
	if err := model.LoadModelFromReader(loaded, &buf); err != nil {
		t.Fatalf("load error: %v", err)
	}

	if got := loaded.Classes(); !reflect.DeepEqual(got, []int{-1, 3}) {
		t.Errorf("restored Classes = %v, want [-1 3]", got)
	}
	got, err := loaded.Predict(X)
	if err != nil {
		t.Fatalf("Predict after load error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("loaded classifier predicts differently")
	}
}
