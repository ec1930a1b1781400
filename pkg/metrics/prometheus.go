package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	trainingDuration *prometheus.HistogramVec
	horizonDays      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_forecasts_total",
				Help: "Total number of forecasts produced",
			},
			[]string{"metric", "model", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		trainingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_training_duration_seconds",
				Help:    "Model training duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"model"},
		),
		horizonDays: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_forecast_horizon_days",
				Help:    "Requested forecast horizon in days",
				Buckets: []float64{1, 3, 7, 14, 30, 60, 90},
			},
			[]string{"metric"},
		),
	}
}

// RecordForecast records a completed (or failed) forecast.
func (r *Recorder) RecordForecast(metric, model, result string) {
	r.forecastsTotal.WithLabelValues(metric, model, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTraining records a model fit duration in seconds.
func (r *Recorder) RecordTraining(model string, seconds float64) {
	r.trainingDuration.WithLabelValues(model).Observe(seconds)
}

// RecordHorizon records the requested horizon for a metric.
func (r *Recorder) RecordHorizon(metric string, days int) {
	r.horizonDays.WithLabelValues(metric).Observe(float64(days))
}
