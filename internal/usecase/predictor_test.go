package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"TrendCast/internal/domain/models"
	"TrendCast/internal/forecast"
	"TrendCast/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordForecast(metric, model, result string)  {}
func (nopMetrics) RecordError(kind string)                      {}
func (nopMetrics) RecordTraining(model string, seconds float64) {}
func (nopMetrics) RecordHorizon(metric string, days int)        {}

func newTestPredictor() *Predictor {
	backend := forecast.NewBackend(forecast.Options{Kind: forecast.BackendLinear, Lookback: 7})
	return NewPredictor(backend, nil, nil, nopMetrics{}, logger.Nop())
}

func trendingRecords(n int, startPV, stepPV float64) []models.HistoricalRecord {
	records := make([]models.HistoricalRecord, n)
	for i := range records {
		records[i] = models.HistoricalRecord{
			Date: fmt.Sprintf("2024-01-%02d", i+1),
			PV:   startPV + float64(i)*stepPV,
			UV:   (startPV + float64(i)*stepPV) / 2,
		}
	}
	return records
}

func TestHealth(t *testing.T) {
	p := newTestPredictor()
	h := p.Health()
	if h.Status != "ok" {
		t.Fatalf("expected status ok, got %q", h.Status)
	}
	if h.BackendAvailable {
		t.Fatal("linear backend must report backend_available=false")
	}
}

func TestPredictEndToEnd(t *testing.T) {
	p := newTestPredictor()
	req := models.PredictRequest{
		ProjectID:      "proj-1",
		MetricType:     models.MetricPV,
		ModelType:      "lstm",
		Days:           7,
		HistoricalData: trendingRecords(14, 800, 25),
	}

	resp, err := p.Predict(context.Background(), req)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if len(resp.Predictions) != 7 {
		t.Fatalf("expected 7 predictions, got %d", len(resp.Predictions))
	}

	wantDates := []string{
		"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18",
		"2024-01-19", "2024-01-20", "2024-01-21",
	}
	for i, pt := range resp.Predictions {
		if pt.Date != wantDates[i] {
			t.Fatalf("day %d: expected date %s, got %s", i+1, wantDates[i], pt.Date)
		}
		if pt.Value < 0 {
			t.Fatalf("day %d: negative value %v", i+1, pt.Value)
		}
		if pt.Value != math.Trunc(pt.Value) {
			t.Fatalf("day %d: pv value %v is not a whole number", i+1, pt.Value)
		}
	}

	if len(resp.HistoricalData) != 14 {
		t.Fatalf("expected 14 echoed records, got %d", len(resp.HistoricalData))
	}
	if resp.ModelInfo.BackendAvailable {
		t.Fatal("linear backend must report backendAvailable=false")
	}
	if resp.ModelInfo.SequenceLength != 7 || resp.ModelInfo.TrainingSamples != 7 {
		t.Fatalf("unexpected model info %+v", resp.ModelInfo)
	}
}

func TestPredictEchoesLast14(t *testing.T) {
	p := newTestPredictor()
	req := models.PredictRequest{
		MetricType:     models.MetricPV,
		ModelType:      "lstm",
		Days:           3,
		HistoricalData: trendingRecords(20, 100, 10),
	}

	resp, err := p.Predict(context.Background(), req)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(resp.HistoricalData) != 14 {
		t.Fatalf("expected 14 echoed records, got %d", len(resp.HistoricalData))
	}
	if resp.HistoricalData[0].Date != "2024-01-07" {
		t.Fatalf("expected echo to start at 2024-01-07, got %s", resp.HistoricalData[0].Date)
	}
	if resp.ModelInfo.TrainingSamples != 13 {
		t.Fatalf("expected 13 training samples, got %d", resp.ModelInfo.TrainingSamples)
	}
}

func TestPredictEmptyData(t *testing.T) {
	p := newTestPredictor()
	_, err := p.Predict(context.Background(), models.PredictRequest{MetricType: "pv", Days: 7})
	if !errors.Is(err, ErrEmptyData) {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}

func TestPredictTooFewRecords(t *testing.T) {
	p := newTestPredictor()
	req := models.PredictRequest{
		MetricType:     "pv",
		Days:           7,
		HistoricalData: trendingRecords(5, 100, 10),
	}
	_, err := p.Predict(context.Background(), req)
	if !errors.Is(err, forecast.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPredictDateFallback(t *testing.T) {
	p := newTestPredictor()
	records := trendingRecords(14, 100, 10)
	records[13].Date = "2024-01-14T10:30:00+09:00"

	resp, err := p.Predict(context.Background(), models.PredictRequest{
		MetricType:     "pv",
		ModelType:      "lstm",
		Days:           2,
		HistoricalData: records,
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if resp.Predictions[0].Date != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %s", resp.Predictions[0].Date)
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue(models.MetricConversionRate, 0.123456); got != 0.1235 {
		t.Fatalf("expected 0.1235, got %v", got)
	}
	if got := formatValue(models.MetricPV, 99.6); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := formatValue(models.MetricUV, 49.4); got != 49 {
		t.Fatalf("expected 49, got %v", got)
	}
}

func TestPredictBatchDefaults(t *testing.T) {
	p := newTestPredictor()
	resp, err := p.PredictBatch(context.Background(), models.BatchPredictRequest{
		ProjectID:      "proj-1",
		ModelType:      "lstm",
		Days:           5,
		HistoricalData: trendingRecords(14, 800, 25),
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected pv and uv results, got %d entries", len(resp.Results))
	}
	for _, metric := range []string{models.MetricPV, models.MetricUV} {
		if len(resp.Results[metric]) != 5 {
			t.Fatalf("metric %s: expected 5 predictions, got %d", metric, len(resp.Results[metric]))
		}
	}
}

func TestPredictBatchBelowSingleFlowMinimum(t *testing.T) {
	p := newTestPredictor()
	resp, err := p.PredictBatch(context.Background(), models.BatchPredictRequest{
		ProjectID:      "proj-1",
		ModelType:      "lstm",
		Days:           7,
		HistoricalData: trendingRecords(10, 800, 25),
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	for _, metric := range []string{models.MetricPV, models.MetricUV} {
		if len(resp.Results[metric]) != 7 {
			t.Fatalf("metric %s: expected 7 predictions, got %d", metric, len(resp.Results[metric]))
		}
	}
}

func TestPredictBatchTooShortToTrain(t *testing.T) {
	p := newTestPredictor()
	resp, err := p.PredictBatch(context.Background(), models.BatchPredictRequest{
		ProjectID:      "proj-1",
		ModelType:      "lstm",
		Days:           7,
		HistoricalData: trendingRecords(5, 800, 25),
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success with null results")
	}
	for _, metric := range []string{models.MetricPV, models.MetricUV} {
		if resp.Results[metric] != nil {
			t.Fatalf("metric %s: expected null result, got %v", metric, resp.Results[metric])
		}
	}
}

func TestPredictBatchIsolation(t *testing.T) {
	p := newTestPredictor()
	records := trendingRecords(14, 800, 25)
	// poison one metric's series; the sibling must still succeed
	records[3].PV = math.NaN()

	resp, err := p.PredictBatch(context.Background(), models.BatchPredictRequest{
		ProjectID:      "proj-1",
		Metrics:        []string{models.MetricPV, models.MetricUV},
		ModelType:      "lstm",
		Days:           7,
		HistoricalData: records,
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if resp.Results[models.MetricPV] != nil {
		t.Fatalf("expected null result for pv, got %v", resp.Results[models.MetricPV])
	}
	if len(resp.Results[models.MetricUV]) != 7 {
		t.Fatalf("expected 7 uv predictions, got %d", len(resp.Results[models.MetricUV]))
	}
}
