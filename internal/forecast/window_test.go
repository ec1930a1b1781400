package forecast

import (
	"errors"
	"testing"
)

func TestSlidingWindows(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	windows, targets, err := SlidingWindows(series, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 3 || len(targets) != 3 {
		t.Fatalf("expected 3 pairs, got %d windows, %d targets", len(windows), len(targets))
	}
	if windows[0][0] != 1 || windows[0][6] != 7 || targets[0] != 8 {
		t.Fatalf("unexpected first pair: %v -> %v", windows[0], targets[0])
	}
	if windows[2][0] != 3 || targets[2] != 10 {
		t.Fatalf("unexpected last pair: %v -> %v", windows[2], targets[2])
	}
}

func TestSlidingWindowsCopiesData(t *testing.T) {
	series := []float64{1, 2, 3, 4}
	windows, _, err := SlidingWindows(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series[0] = 99
	if windows[0][0] != 1 {
		t.Fatal("window aliases the input series")
	}
}

func TestSlidingWindowsInsufficient(t *testing.T) {
	_, _, err := SlidingWindows([]float64{1, 2, 3}, 7)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSlidingWindowsBadLookback(t *testing.T) {
	if _, _, err := SlidingWindows([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected error for zero lookback")
	}
}
