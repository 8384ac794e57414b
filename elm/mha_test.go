package elm

import (
	"context"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/mha"
)

func smallSearchConfig() mha.Config {
	return mha.Config{Epochs: 15, PopSize: 10, Seed: 42, Tol: 1e-10}
}

func TestMhaELMRegressorFit(t *testing.T) {
	X, Y := regressionData(40)

	reg, err := NewMhaELMRegressor(
		WithLayerSizes(8),
		WithActivation("tanh"),
		WithSeed(7),
		WithOptimizer("DE"),
		WithObjective("RMSE"),
		WithOptimizerConfig(smallSearchConfig()),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := reg.Fit(context.Background(), X, Y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !reg.IsFitted() {
		t.Error("estimator not fitted after Fit")
	}

	curve := reg.LossCurve()
	if len(curve) == 0 {
		t.Fatal("empty loss curve after training")
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] > curve[i-1] {
			t.Fatalf("loss curve regressed at epoch %d: %g -> %g", i, curve[i-1], curve[i])
		}
	}

	best, err := reg.BestFitness()
	if err != nil {
		t.Fatal(err)
	}
	if best != curve[len(curve)-1] {
		t.Errorf("BestFitness %g != last loss curve entry %g", best, curve[len(curve)-1])
	}

	// The tuned network must still solve its output layer correctly.
	score, err := reg.Score(X, Y)
	if err != nil {
		t.Fatal(err)
	}
	if score < 0.5 {
		t.Errorf("R2 = %g, expected a reasonable fit even after a short search", score)
	}
}

func TestMhaELMRegressorMaximizedObjective(t *testing.T) {
	X, Y := regressionData(30)

	reg, err := NewMhaELMRegressor(
		WithLayerSizes(6),
		WithObjective("R2"),
		WithOptimizer("PSO"),
		WithOptimizerConfig(smallSearchConfig()),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Fit(context.Background(), X, Y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	// R2 is maximized, so the minimized objective is its negation.
	best, err := reg.BestFitness()
	if err != nil {
		t.Fatal(err)
	}
	if best > 0 {
		t.Errorf("best fitness = %g, want <= 0 for a negated R2 objective", best)
	}
}

func TestMhaELMRegressorUnknownObjective(t *testing.T) {
	if _, err := NewMhaELMRegressor(WithObjective("AS")); err == nil {
		t.Error("classification objective should be rejected by the regressor")
	}
}

func TestMhaELMRegressorCancelled(t *testing.T) {
	X, Y := regressionData(30)
	reg, err := NewMhaELMRegressor(WithOptimizerConfig(mha.Config{Epochs: 1000, PopSize: 10, Seed: 1}))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := reg.Fit(ctx, X, Y); err == nil {
		t.Error("cancelled context should abort training")
	}
	if reg.IsFitted() {
		t.Error("aborted training must not mark the estimator fitted")
	}
}

func TestMhaELMClassifierFit(t *testing.T) {
	X, y := blobs(60, 11)

	clf, err := NewMhaELMClassifier(
		WithLayerSizes(8),
		WithActivation("sigmoid"),
		WithSeed(3),
		WithOptimizer("GA"),
		WithObjective("AS"),
		WithOptimizerConfig(smallSearchConfig()),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := clf.Fit(context.Background(), X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatal(err)
	}
	if acc < 0.9 {
		t.Errorf("accuracy = %g, want > 0.9 on separable blobs", acc)
	}

	if got := len(clf.LossCurve()); got == 0 {
		t.Error("empty loss curve after training")
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatal(err)
	}
	if _, cols := proba.Dims(); cols != 2 {
		t.Errorf("probability matrix has %d columns, want 2", cols)
	}
}

func TestMhaELMClassifierUnknownObjective(t *testing.T) {
	if _, err := NewMhaELMClassifier(WithObjective("RMSE")); err == nil {
		t.Error("regression objective should be rejected by the classifier")
	}
}

func TestMhaELMClassifierParallelFitness(t *testing.T) {
	X, y := blobs(40, 21)

	clf, err := NewMhaELMClassifier(
		WithLayerSizes(6),
		WithOptimizer("DE"),
		WithOptimizerConfig(smallSearchConfig()),
		WithParallelFitness(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(context.Background(), X, y); err != nil {
		t.Fatalf("Fit with parallel fitness error: %v", err)
	}
	if !clf.IsFitted() {
		t.Error("estimator not fitted")
	}
}

func TestEstimatorOptionsFlowIntoParams(t *testing.T) {
	reg, err := NewMhaELMRegressor(
		WithLayerSizes(5, 3),
		WithActivation("relu"),
		WithOptimizer("PSO"),
		WithObjective("MAE"),
		WithBounds([]float64{-1}, []float64{1}),
	)
	if err != nil {
		t.Fatal(err)
	}

	params := reg.GetParams()
	if params["optimizer"] != "PSO" {
		t.Errorf("optimizer param = %v, want PSO", params["optimizer"])
	}
	if params["objective"] != "MAE" {
		t.Errorf("objective param = %v, want MAE", params["objective"])
	}
	if params["activation"] != "relu" {
		t.Errorf("activation param = %v, want relu", params["activation"])
	}
}

func TestWithSeedDrivesOptimizerSeed(t *testing.T) {
	reg, err := NewMhaELMRegressor(WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	if reg.cfg.optConfig.Seed != 5 {
		t.Errorf("regressor optimizer seed = %d, want 5", reg.cfg.optConfig.Seed)
	}

	clf, err := NewMhaELMClassifier(WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	if clf.cfg.optConfig.Seed != 9 {
		t.Errorf("classifier optimizer seed = %d, want 9", clf.cfg.optConfig.Seed)
	}
}

func TestExplicitOptimizerConfigKeepsItsSeed(t *testing.T) {
	cfg := smallSearchConfig()
	reg, err := NewMhaELMRegressor(WithSeed(5), WithOptimizerConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if reg.cfg.optConfig.Seed != cfg.Seed {
		t.Errorf("optimizer seed = %d, want %d", reg.cfg.optConfig.Seed, cfg.Seed)
	}
}

func TestMhaELMClassifierCrossEntropyObjective(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	const perClass = 15
	X := mat.NewDense(3*perClass, 2, nil)
	y := make([]int, 3*perClass)
	centers := [][2]float64{{-4, 0}, {4, 0}, {0, 5}}
	for c := 0; c < 3; c++ {
		for i := 0; i < perClass; i++ {
			row := c*perClass + i
			X.Set(row, 0, centers[c][0]+rng.NormFloat64()*0.5)
			X.Set(row, 1, centers[c][1]+rng.NormFloat64()*0.5)
			y[row] = c
		}
	}

	clf, err := NewMhaELMClassifier(
		WithLayerSizes(8),
		WithSeed(3),
		WithObjective("CEL"),
		WithOptimizerConfig(smallSearchConfig()),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := clf.Fit(context.Background(), X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	// With three classes the cross-entropy must be evaluated on the
	// softmax probabilities; a candidate that only ever scored the
	// failure penalty would leave the whole curve at 1e10.
	curve := clf.LossCurve()
	if len(curve) == 0 {
		t.Fatal("empty loss curve after training")
	}
	for i, v := range curve {
		if v >= 1e9 {
			t.Fatalf("loss curve entry %d is the failure penalty: %g", i, v)
		}
	}

	best, err := clf.BestFitness()
	if err != nil {
		t.Fatal(err)
	}
	if best <= 0 || best >= 1e9 {
		t.Errorf("best cross-entropy = %g, want a finite positive loss", best)
	}
}
