package forecast

import "fmt"

// Engine runs one forecast: scale the series, train a fresh model on sliding
// windows, then roll the window forward autoregressively. Engines are single
// use and never shared across requests.
type Engine struct {
	backend  *Backend
	scaler   MinMaxScaler
	model    SequenceRegressor
	samples  int
	trainErr error
}

func NewEngine(backend *Backend) *Engine {
	return &Engine{backend: backend}
}

// Train fits a fresh model of the given type on the series. Failures are
// captured rather than returned; on failure the engine stays untrained and
// TrainError holds the cause.
func (e *Engine) Train(series []float64, modelType string) bool {
	if err := e.fit(series, modelType); err != nil {
		e.trainErr = err
		return false
	}
	return true
}

// TrainError returns the failure captured by the last Train, if any.
func (e *Engine) TrainError() error { return e.trainErr }

func (e *Engine) fit(series []float64, modelType string) error {
	lookback := e.backend.Lookback()
	if len(series) <= lookback {
		return fmt.Errorf("%w: need more than %d points, got %d", ErrInsufficientData, lookback, len(series))
	}

	if err := e.scaler.Fit(series); err != nil {
		return err
	}
	scaled, err := e.scaler.Transform(series)
	if err != nil {
		return err
	}
	windows, targets, err := SlidingWindows(scaled, lookback)
	if err != nil {
		return err
	}

	model := e.backend.New(modelType)
	if err := model.Fit(windows, targets); err != nil {
		return fmt.Errorf("model training: %w", err)
	}

	e.model = model
	e.samples = len(targets)
	return nil
}

// Forecast predicts the next days values from the tail of the series. Each
// prediction is fed back into the window, then the whole batch is mapped
// back to the original scale and clamped at zero.
func (e *Engine) Forecast(series []float64, days int) ([]float64, error) {
	if e.model == nil {
		return nil, ErrUntrainedModel
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	lookback := e.backend.Lookback()
	if len(series) < lookback {
		return nil, fmt.Errorf("%w: need at least %d points, got %d", ErrInsufficientData, lookback, len(series))
	}

	scaledSeries, err := e.scaler.Transform(series[len(series)-lookback:])
	if err != nil {
		return nil, err
	}
	window := make([]float64, lookback)
	copy(window, scaledSeries)

	scaled := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		next, err := e.model.Predict(window)
		if err != nil {
			return nil, err
		}
		scaled = append(scaled, next)
		copy(window, window[1:])
		window[lookback-1] = next
	}

	out, err := e.scaler.InverseTransform(scaled)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out, nil
}

// SequenceLength reports the window size used for training.
func (e *Engine) SequenceLength() int { return e.backend.Lookback() }

// TrainingSamples reports how many supervised pairs the last Train produced.
func (e *Engine) TrainingSamples() int { return e.samples }

// Losses reports the final training and validation loss of the last trained
// recurrent model, when one was used.
func (e *Engine) Losses() (train, val float64, ok bool) {
	r, isRecurrent := e.model.(*recurrentRegressor)
	if !isRecurrent {
		return 0, 0, false
	}
	return r.TrainLoss, r.ValLoss, r.HasVal
}
