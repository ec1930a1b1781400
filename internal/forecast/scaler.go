package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler maps a series into [0, 1] using the min and max observed at
// fit time. A constant series scales to all zeros.
type MinMaxScaler struct {
	min    float64
	spread float64
	fitted bool
}

func (s *MinMaxScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return ErrInsufficientData
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("series contains non-finite value at index %d", i)
		}
	}
	s.min = floats.Min(values)
	s.spread = floats.Max(values) - s.min
	if s.spread == 0 {
		s.spread = 1
	}
	s.fitted = true
	return nil
}

func (s *MinMaxScaler) Transform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.min) / s.spread
	}
	return out, nil
}

func (s *MinMaxScaler) InverseTransform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v*s.spread + s.min
	}
	return out, nil
}
