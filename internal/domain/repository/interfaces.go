package repository

import (
	"context"

	"TrendCast/internal/domain/models"
)

// MetricStore loads daily aggregates for a project when the request does not
// carry them inline.
type MetricStore interface {
	GetDailyMetrics(ctx context.Context, projectID string, lastN int) ([]models.HistoricalRecord, error)
}

// ForecastPublisher emits forecast-completed events for downstream consumers.
type ForecastPublisher interface {
	PublishForecast(ctx context.Context, event models.ForecastEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordForecast(metric, model, result string)
	RecordError(kind string)
	RecordTraining(model string, seconds float64)
	RecordHorizon(metric string, days int)
}
