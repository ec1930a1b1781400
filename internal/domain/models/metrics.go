package models

import "encoding/json"

// Metric names with dedicated semantics. Any other name is treated as a
// raw numeric field on the historical records.
const (
	MetricPV             = "pv"
	MetricUV             = "uv"
	MetricConversionRate = "conversion_rate"
)

// HistoricalRecord is one day of aggregated project analytics. Records are
// caller-supplied and never mutated. Unknown numeric fields are retained so
// custom metrics can be forecast and records can be echoed back unchanged.
type HistoricalRecord struct {
	Date  string
	PV    float64
	UV    float64
	Extra map[string]float64
}

// Field returns a named numeric field, 0 when absent.
func (r HistoricalRecord) Field(name string) float64 {
	switch name {
	case MetricPV:
		return r.PV
	case MetricUV:
		return r.UV
	default:
		return r.Extra[name]
	}
}

func (r *HistoricalRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		switch k {
		case "date":
			if err := json.Unmarshal(v, &r.Date); err != nil {
				return err
			}
		case MetricPV:
			if err := json.Unmarshal(v, &r.PV); err != nil {
				return err
			}
		case MetricUV:
			if err := json.Unmarshal(v, &r.UV); err != nil {
				return err
			}
		default:
			var f float64
			if err := json.Unmarshal(v, &f); err == nil {
				if r.Extra == nil {
					r.Extra = make(map[string]float64)
				}
				r.Extra[k] = f
			}
		}
	}
	return nil
}

func (r HistoricalRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, 3+len(r.Extra))
	for k, v := range r.Extra {
		m[k] = v
	}
	m["date"] = r.Date
	m[MetricPV] = r.PV
	m[MetricUV] = r.UV
	return json.Marshal(m)
}

// PredictionPoint is one forecast day mapped back to a calendar date.
type PredictionPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ModelInfo describes the model used for a forecast.
type ModelInfo struct {
	BackendAvailable bool `json:"backendAvailable"`
	SequenceLength   int  `json:"sequenceLength"`
	TrainingSamples  int  `json:"trainingSamples"`
}

// ForecastEvent is published after a successful single-metric forecast.
type ForecastEvent struct {
	ProjectID   string            `json:"projectId"`
	MetricType  string            `json:"metricType"`
	ModelType   string            `json:"modelType"`
	Days        int               `json:"days"`
	Predictions []PredictionPoint `json:"predictions"`
	CreatedAt   string            `json:"createdAt"`
}
