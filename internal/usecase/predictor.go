package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"TrendCast/internal/domain/models"
	"TrendCast/internal/domain/repository"
	"TrendCast/internal/forecast"
	"TrendCast/internal/services/analytics"
	"TrendCast/pkg/logger"
	"TrendCast/pkg/util"
)

// minRecords is the single-flow floor on supplied history. Training itself
// only needs lookback+1 points. Batch requests skip this floor: a metric
// with too little history fails on its own and surfaces as a null result.
const minRecords = 14

var (
	// ErrEmptyData reports a request with no historical records and no way
	// to load them.
	ErrEmptyData = errors.New("historical data must not be empty")

	// ErrTrainingFailed is reported with a fixed message; the underlying
	// cause is logged, not exposed.
	ErrTrainingFailed = errors.New("model training failed")
)

// Predictor orchestrates a forecast request: load or accept history,
// resolve the metric series, train a fresh engine, roll the forecast
// forward and format the result.
type Predictor struct {
	backend   *forecast.Backend
	store     repository.MetricStore
	publisher repository.ForecastPublisher
	metrics   repository.Metrics
	log       *logger.Logger
}

func NewPredictor(
	backend *forecast.Backend,
	store repository.MetricStore,
	publisher repository.ForecastPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
) *Predictor {
	return &Predictor{
		backend:   backend,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// Health describes the forecasting capability of this process.
func (p *Predictor) Health() models.HealthResponse {
	return models.HealthResponse{
		Status:           "ok",
		BackendAvailable: p.backend.Available(),
		ModelTypes:       forecast.ModelTypes,
	}
}

// Predict runs the single-metric flow.
func (p *Predictor) Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error) {
	records, err := p.loadRecords(ctx, req.ProjectID, req.HistoricalData)
	if err != nil {
		return nil, err
	}
	if len(records) < minRecords {
		return nil, fmt.Errorf("%w: need at least %d days of historical data, got %d",
			forecast.ErrInsufficientData, minRecords, len(records))
	}

	points, err := p.forecastMetric(records, req.MetricType, req.ModelType, req.Days)
	if err != nil {
		p.metrics.RecordForecast(req.MetricType, req.ModelType, "error")
		return nil, err
	}
	p.metrics.RecordForecast(req.MetricType, req.ModelType, "success")
	p.metrics.RecordHorizon(req.MetricType, req.Days)

	p.publish(req.ProjectID, req.MetricType, req.ModelType, req.Days, points)

	return &models.PredictResponse{
		Success:        true,
		ProjectID:      req.ProjectID,
		MetricType:     req.MetricType,
		ModelType:      req.ModelType,
		Predictions:    points,
		HistoricalData: lastN(records, minRecords),
		ModelInfo: models.ModelInfo{
			BackendAvailable: p.backend.Available(),
			SequenceLength:   p.backend.Lookback(),
			TrainingSamples:  len(records) - p.backend.Lookback(),
		},
	}, nil
}

// PredictBatch runs the single-metric flow once per requested metric. A
// failing metric yields a null entry and never aborts its siblings.
func (p *Predictor) PredictBatch(ctx context.Context, req models.BatchPredictRequest) (*models.BatchPredictResponse, error) {
	records, err := p.loadRecords(ctx, req.ProjectID, req.HistoricalData)
	if err != nil {
		return nil, err
	}

	metricNames := req.Metrics
	if len(metricNames) == 0 {
		metricNames = []string{models.MetricPV, models.MetricUV}
	}

	results := make(map[string][]models.PredictionPoint, len(metricNames))
	for _, metric := range metricNames {
		points, err := p.forecastMetric(records, metric, req.ModelType, req.Days)
		if err != nil {
			p.log.Error("batch metric forecast failed",
				logger.String("project_id", req.ProjectID),
				logger.String("metric", metric),
				logger.Error(err))
			p.metrics.RecordForecast(metric, req.ModelType, "error")
			results[metric] = nil
			continue
		}
		p.metrics.RecordForecast(metric, req.ModelType, "success")
		p.metrics.RecordHorizon(metric, req.Days)
		results[metric] = points
	}

	return &models.BatchPredictResponse{
		Success:   true,
		ProjectID: req.ProjectID,
		ModelType: req.ModelType,
		Results:   results,
	}, nil
}

// loadRecords falls back to the metric store when the request carries no
// inline history.
func (p *Predictor) loadRecords(ctx context.Context, projectID string, inline []models.HistoricalRecord) ([]models.HistoricalRecord, error) {
	records := inline
	if len(records) == 0 && p.store != nil && projectID != "" {
		stored, err := p.store.GetDailyMetrics(ctx, projectID, 0)
		if err != nil {
			return nil, fmt.Errorf("load historical data: %w", err)
		}
		records = stored
	}
	if len(records) == 0 {
		return nil, ErrEmptyData
	}
	return records, nil
}

// forecastMetric trains a fresh engine on one metric and returns formatted
// dated predictions.
func (p *Predictor) forecastMetric(records []models.HistoricalRecord, metric, modelType string, days int) ([]models.PredictionPoint, error) {
	series, err := analytics.Resolve(records, metric)
	if err != nil {
		return nil, err
	}

	engine := forecast.NewEngine(p.backend)
	start := time.Now()
	if !engine.Train(series, modelType) {
		p.metrics.RecordError("training")
		p.log.Error("model training failed",
			logger.String("metric", metric),
			logger.String("model", modelType),
			logger.Error(engine.TrainError()))
		return nil, ErrTrainingFailed
	}
	p.metrics.RecordTraining(modelType, time.Since(start).Seconds())
	if train, val, ok := engine.Losses(); ok {
		p.log.Debug("model trained",
			logger.String("metric", metric),
			logger.String("model", modelType),
			logger.Float64("train_loss", train),
			logger.Float64("val_loss", val),
			logger.Duration("elapsed", time.Since(start)))
	}

	values, err := engine.Forecast(series, days)
	if err != nil {
		return nil, err
	}

	last, err := util.ParseRecordDate(records[len(records)-1].Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrDateParse, records[len(records)-1].Date)
	}
	dates := util.FutureDays(last, days)

	points := make([]models.PredictionPoint, days)
	for i := range values {
		points[i] = models.PredictionPoint{
			Date:  dates[i],
			Value: formatValue(metric, values[i]),
		}
	}
	return points, nil
}

// formatValue applies per-metric rounding: counts become whole numbers,
// everything else keeps 4 decimal places.
func formatValue(metric string, v float64) float64 {
	switch metric {
	case models.MetricPV, models.MetricUV:
		return math.Round(v)
	default:
		return math.Round(v*10000) / 10000
	}
}

func lastN(records []models.HistoricalRecord, n int) []models.HistoricalRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// publish emits a forecast event without blocking the response. Publish
// failures are logged and otherwise ignored.
func (p *Predictor) publish(projectID, metric, modelType string, days int, points []models.PredictionPoint) {
	if p.publisher == nil {
		return
	}
	event := models.ForecastEvent{
		ProjectID:   projectID,
		MetricType:  metric,
		ModelType:   modelType,
		Days:        days,
		Predictions: points,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.publisher.PublishForecast(ctx, event); err != nil {
			p.log.Warn("forecast event publish failed",
				logger.String("project_id", projectID),
				logger.String("metric", metric),
				logger.Error(err))
		}
	}()
}
