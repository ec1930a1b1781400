package forecast

import "fmt"

// SlidingWindows builds supervised pairs from a series: each window of
// lookback consecutive values predicts the value that follows it. A series
// of length L yields L-lookback pairs.
func SlidingWindows(series []float64, lookback int) ([][]float64, []float64, error) {
	if lookback <= 0 {
		return nil, nil, fmt.Errorf("lookback must be positive, got %d", lookback)
	}
	if len(series) <= lookback {
		return nil, nil, fmt.Errorf("%w: need more than %d points, got %d", ErrInsufficientData, lookback, len(series))
	}

	n := len(series) - lookback
	windows := make([][]float64, 0, n)
	targets := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		window := make([]float64, lookback)
		copy(window, series[i:i+lookback])
		windows = append(windows, window)
		targets = append(targets, series[i+lookback])
	}
	return windows, targets, nil
}
