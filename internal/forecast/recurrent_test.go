package forecast

import (
	"errors"
	"math"
	"testing"
)

func testOptions() Options {
	return Options{
		Kind:       BackendRecurrent,
		Lookback:   7,
		HiddenSize: 16,
		Epochs:     10,
		BatchSize:  8,
	}
}

func scaledTrend(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func TestRecurrentRegressorLSTM(t *testing.T) {
	windows, targets, err := SlidingWindows(scaledTrend(30), 7)
	if err != nil {
		t.Fatalf("windows: %v", err)
	}

	reg := newRecurrentRegressor(ModelLSTM, testOptions())
	if err := reg.Fit(windows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}

	got, err := reg.Predict(windows[len(windows)-1])
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("prediction is not finite: %v", got)
	}
}

func TestRecurrentRegressorGRU(t *testing.T) {
	windows, targets, err := SlidingWindows(scaledTrend(30), 7)
	if err != nil {
		t.Fatalf("windows: %v", err)
	}

	reg := newRecurrentRegressor(ModelGRU, testOptions())
	if err := reg.Fit(windows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}

	got, err := reg.Predict(windows[0])
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("prediction is not finite: %v", got)
	}
}

func TestRecurrentRegressorUntrained(t *testing.T) {
	reg := newRecurrentRegressor(ModelLSTM, testOptions())
	if _, err := reg.Predict(make([]float64, 7)); !errors.Is(err, ErrUntrainedModel) {
		t.Fatalf("expected ErrUntrainedModel, got %v", err)
	}
}

func TestRecurrentRegressorWindowMismatch(t *testing.T) {
	reg := newRecurrentRegressor(ModelLSTM, testOptions())
	if err := reg.Fit([][]float64{{1, 2, 3}}, []float64{4}); err == nil {
		t.Fatal("expected error for short windows")
	}
}

func TestRecurrentRegressorValidationHoldout(t *testing.T) {
	windows, targets, err := SlidingWindows(scaledTrend(40), 7)
	if err != nil {
		t.Fatalf("windows: %v", err)
	}

	opts := testOptions()
	opts.Epochs = 5
	reg := newRecurrentRegressor(ModelLSTM, opts)
	if err := reg.Fit(windows, targets); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !reg.HasVal {
		t.Fatal("expected a validation holdout for 33 samples")
	}
	if math.IsNaN(reg.ValLoss) || math.IsNaN(reg.TrainLoss) {
		t.Fatalf("losses not finite: train=%v val=%v", reg.TrainLoss, reg.ValLoss)
	}
}
