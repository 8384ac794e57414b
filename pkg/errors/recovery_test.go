package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestRecoverWithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "MultiLayerELM.SolveOutput")
		panic("matrix dimensions do not match")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "MultiLayerELM.SolveOutput" {
		t.Errorf("Operation = %q", panicErr.Operation)
	}
	if panicErr.PanicValue != "matrix dimensions do not match" {
		t.Errorf("PanicValue = %v", panicErr.PanicValue)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	want := "panic in MultiLayerELM.SolveOutput: matrix dimensions do not match"
	if panicErr.Error() != want {
		t.Errorf("Error() = %q, want %q", panicErr.Error(), want)
	}
}

func TestRecoverWithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "MultiLayerELM.Forward")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecoverPreservesExistingError(t *testing.T) {
	original := New("validation failed")
	testFunc := func() (err error) {
		defer Recover(&err, "ELMClassifier.Fit")
		err = original
		panic("subsequent panic")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected combined error, got nil")
	}
	if !errors.Is(err, original) {
		t.Error("original error should remain reachable")
	}
	if !strings.Contains(err.Error(), "subsequent panic") {
		t.Errorf("panic detail lost: %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{"successful function", func() error { return nil }, false},
		{"function returning error", func() error { return New("expected failure") }, true},
		{"panicking function", func() error { panic("index out of range") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("test operation", tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeExecute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
