package preprocessing

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLabelEncoder(t *testing.T) {
	le := NewLabelEncoder()

	encoded, err := le.FitTransform([]int{10, 5, 10, 20, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Labels are indexed in ascending order: 5 -> 0, 10 -> 1, 20 -> 2.
	want := []int{1, 0, 1, 2, 0}
	if !reflect.DeepEqual(encoded, want) {
		t.Errorf("encoded = %v, want %v", encoded, want)
	}
	if le.NClasses() != 3 {
		t.Errorf("NClasses = %d, want 3", le.NClasses())
	}
	if !reflect.DeepEqual(le.ClassLabels, []int{5, 10, 20}) {
		t.Errorf("ClassLabels = %v, want [5 10 20]", le.ClassLabels)
	}

	back, err := le.InverseTransform(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(back, []int{10, 5, 10, 20, 5}) {
		t.Errorf("round trip = %v", back)
	}
}

func TestLabelEncoderUnseenLabel(t *testing.T) {
	le := NewLabelEncoder()
	if err := le.Fit([]int{0, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := le.Transform([]int{2}); err == nil {
		t.Error("unseen label should fail")
	}
}

func TestLabelEncoderNotFitted(t *testing.T) {
	le := NewLabelEncoder()
	if _, err := le.Transform([]int{0}); err == nil {
		t.Error("Transform before Fit should fail")
	}
	if _, err := le.InverseTransform([]int{0}); err == nil {
		t.Error("InverseTransform before Fit should fail")
	}
}

func TestOneHotEncoder(t *testing.T) {
	oh, err := NewOneHotEncoder(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	Y, err := oh.Transform([]int{0, 2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 0, 1,
		0, 1, 0,
	})
	if !mat.EqualApprox(Y, want, 1e-12) {
		t.Errorf("one-hot matrix mismatch:\ngot:\n%v\nwant:\n%v", mat.Formatted(Y), mat.Formatted(want))
	}

	back, err := oh.InverseTransform(Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(back, []int{0, 2, 1}) {
		t.Errorf("inverse = %v, want [0 2 1]", back)
	}
}

func TestOneHotEncoderArgmax(t *testing.T) {
	oh, err := NewOneHotEncoder(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Soft scores decode by row-wise argmax.
	scores := mat.NewDense(2, 2, []float64{
		0.3, 0.7,
		0.9, 0.1,
	})
	back, err := oh.InverseTransform(scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(back, []int{1, 0}) {
		t.Errorf("argmax decode = %v, want [1 0]", back)
	}
}

func TestOneHotEncoderValidation(t *testing.T) {
	if _, err := NewOneHotEncoder(1); err == nil {
		t.Error("single class encoder should fail")
	}

	oh, _ := NewOneHotEncoder(2)
	if _, err := oh.Transform([]int{5}); err == nil {
		t.Error("out of range index should fail")
	}
	if _, err := oh.InverseTransform(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("column count mismatch should fail")
	}
}
