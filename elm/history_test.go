package elm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLossCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.csv")
	if err := SaveLossCSV(path, []float64{2.5, 1.25, 0.5}); err != nil {
		t.Fatalf("SaveLossCSV error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"epoch,loss", "1,2.5", "2,1.25", "3,0.5"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestSaveLossCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.csv")
	if err := SaveLossCSV(path, nil); err == nil {
		t.Error("empty history should be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty history")
	}
}

func TestSaveMetricsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	scores := map[string]float64{
		"RMSE": 0.5,
		"MAE":  0.25,
		"R2":   0.975,
	}
	if err := SaveMetricsCSV(path, scores); err != nil {
		t.Fatalf("SaveMetricsCSV error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Rows come out sorted by metric name.
	want := []string{"metric,value", "MAE,0.25", "R2,0.975", "RMSE,0.5"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestSaveMetricsCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	if err := SaveMetricsCSV(path, nil); err == nil {
		t.Error("empty score map should be rejected")
	}
}
