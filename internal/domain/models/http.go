package models

// Requests and responses for the forecast HTTP endpoints.

type PredictRequest struct {
	ProjectID      string             `json:"projectId"`
	MetricType     string             `json:"metricType" default:"pv"`
	ModelType      string             `json:"modelType" default:"lstm" validate:"oneof=lstm gru"`
	Days           int                `json:"days" default:"7" validate:"gte=1"`
	HistoricalData []HistoricalRecord `json:"historicalData"`
}

type BatchPredictRequest struct {
	ProjectID      string             `json:"projectId"`
	Metrics        []string           `json:"metrics"`
	ModelType      string             `json:"modelType" default:"lstm" validate:"oneof=lstm gru"`
	Days           int                `json:"days" default:"7" validate:"gte=1"`
	HistoricalData []HistoricalRecord `json:"historicalData"`
}

type PredictResponse struct {
	Success        bool               `json:"success"`
	ProjectID      string             `json:"projectId"`
	MetricType     string             `json:"metricType"`
	ModelType      string             `json:"modelType"`
	Predictions    []PredictionPoint  `json:"predictions"`
	HistoricalData []HistoricalRecord `json:"historicalData"`
	ModelInfo      ModelInfo          `json:"modelInfo"`
}

// BatchPredictResponse maps each requested metric to its predictions, or to
// null when that metric's pipeline failed.
type BatchPredictResponse struct {
	Success   bool                         `json:"success"`
	ProjectID string                       `json:"projectId"`
	ModelType string                       `json:"modelType"`
	Results   map[string][]PredictionPoint `json:"results"`
}

type HealthResponse struct {
	Status           string   `json:"status"`
	BackendAvailable bool     `json:"backend_available"`
	ModelTypes       []string `json:"model_types"`
}
