package model

import (
	"strings"
	"sync"
	"testing"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager("ELMRegressor")

	if s.IsFitted() {
		t.Error("new StateManager should not be fitted")
	}
	err := s.RequireFitted("Predict")
	if err == nil {
		t.Fatal("RequireFitted should fail before fitting")
	}
	if !strings.Contains(err.Error(), "ELMRegressor") || !strings.Contains(err.Error(), "Predict") {
		t.Errorf("error should name the model and method: %v", err)
	}

	s.SetDimensions(4, 100)
	s.SetFitted()

	if !s.IsFitted() {
		t.Error("StateManager should be fitted after SetFitted")
	}
	if err := s.RequireFitted("Predict"); err != nil {
		t.Errorf("RequireFitted after fitting: %v", err)
	}

	nFeatures, nSamples := s.GetDimensions()
	if nFeatures != 4 || nSamples != 100 {
		t.Errorf("GetDimensions() = (%d, %d), want (4, 100)", nFeatures, nSamples)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("StateManager should not be fitted after Reset")
	}
	nFeatures, nSamples = s.GetDimensions()
	if nFeatures != 0 || nSamples != 0 {
		t.Errorf("dimensions not cleared by Reset: (%d, %d)", nFeatures, nSamples)
	}
}

func TestStateManagerConcurrentAccess(t *testing.T) {
	s := NewStateManager("ELMClassifier")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetFitted()
		}()
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
			_, _ = s.GetDimensions()
		}()
	}
	wg.Wait()

	if !s.IsFitted() {
		t.Error("StateManager should be fitted after concurrent SetFitted calls")
	}
}
