package forecast

import "errors"

var (
	// ErrInsufficientData reports a series too short for the configured
	// lookback window.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNotFitted reports a scaler used before Fit.
	ErrNotFitted = errors.New("scaler not fitted")

	// ErrUntrainedModel reports a forecast requested before training.
	ErrUntrainedModel = errors.New("model not trained")
)
