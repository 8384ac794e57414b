package validation

import (
	"reflect"
	"testing"
)

func TestCheckString(t *testing.T) {
	supported := []string{"regression", "classification"}

	got, err := CheckString("task", "Regression", supported)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "regression" {
		t.Errorf("got %q, want %q", got, "regression")
	}

	if _, err := CheckString("task", "clustering", supported); err == nil {
		t.Error("unsupported value should fail")
	}
}

func TestCheckInt(t *testing.T) {
	if _, err := CheckInt("epochs", 10, 1, 100); err != nil {
		t.Errorf("in-range value failed: %v", err)
	}
	if _, err := CheckInt("epochs", 0, 1, 100); err == nil {
		t.Error("below range should fail")
	}
	if _, err := CheckInt("epochs", 101, 1, 100); err == nil {
		t.Error("above range should fail")
	}
}

func TestCheckFloat(t *testing.T) {
	if _, err := CheckFloat("test_size", 0.2, 0, 1); err != nil {
		t.Errorf("in-range value failed: %v", err)
	}
	if _, err := CheckFloat("test_size", 1.5, 0, 1); err == nil {
		t.Error("above range should fail")
	}
}

func TestCheckPositiveInts(t *testing.T) {
	got, err := CheckPositiveInts("layer_sizes", []int{10, 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{10, 20}) {
		t.Errorf("got %v", got)
	}

	if _, err := CheckPositiveInts("layer_sizes", nil); err == nil {
		t.Error("empty slice should fail")
	}
	if _, err := CheckPositiveInts("layer_sizes", []int{10, 0}); err == nil {
		t.Error("zero entry should fail")
	}
}

func TestCheckBounds(t *testing.T) {
	tests := []struct {
		name    string
		lb, ub  []float64
		size    int
		wantLB  []float64
		wantUB  []float64
		wantErr bool
	}{
		{
			name:   "Broadcast scalars",
			lb:     []float64{-1},
			ub:     []float64{1},
			size:   3,
			wantLB: []float64{-1, -1, -1},
			wantUB: []float64{1, 1, 1},
		},
		{
			name:   "Full vectors",
			lb:     []float64{-1, -2},
			ub:     []float64{1, 2},
			size:   2,
			wantLB: []float64{-1, -2},
			wantUB: []float64{1, 2},
		},
		{
			name:    "Inverted bounds",
			lb:      []float64{1},
			ub:      []float64{-1},
			size:    2,
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			lb:      []float64{-1, -1},
			ub:      []float64{1},
			size:    3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb, ub, err := CheckBounds(tt.lb, tt.ub, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(lb, tt.wantLB) || !reflect.DeepEqual(ub, tt.wantUB) {
				t.Errorf("got lb=%v ub=%v, want lb=%v ub=%v", lb, ub, tt.wantLB, tt.wantUB)
			}
		})
	}
}
