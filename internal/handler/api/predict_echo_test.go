package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"TrendCast/internal/forecast"
	"TrendCast/internal/usecase"
	"TrendCast/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordForecast(metric, model, result string)  {}
func (nopMetrics) RecordError(kind string)                      {}
func (nopMetrics) RecordTraining(model string, seconds float64) {}
func (nopMetrics) RecordHorizon(metric string, days int)        {}

func newTestServer() *echo.Echo {
	backend := forecast.NewBackend(forecast.Options{Kind: forecast.BackendLinear, Lookback: 7})
	predictor := usecase.NewPredictor(backend, nil, nil, nopMetrics{}, logger.Nop())
	h := NewPredictEchoHandler(logger.Nop(), predictor)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func recordsJSON(n int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"date":"2024-01-%02d","pv":%d,"uv":%d}`, i+1, 800+i*25, 400+i*10)
	}
	sb.WriteString("]")
	return sb.String()
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status           string   `json:"status"`
		BackendAvailable bool     `json:"backend_available"`
		ModelTypes       []string `json:"model_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
	if body.BackendAvailable {
		t.Fatal("linear backend must report backend_available=false")
	}
	if len(body.ModelTypes) != 2 || body.ModelTypes[0] != "lstm" || body.ModelTypes[1] != "gru" {
		t.Fatalf("unexpected model types %v", body.ModelTypes)
	}
}

func TestPredictDefaultsApplied(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","historicalData":%s}`, recordsJSON(14))
	rec := doJSON(e, http.MethodPost, "/predict", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success     bool   `json:"success"`
		MetricType  string `json:"metricType"`
		ModelType   string `json:"modelType"`
		Predictions []struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"predictions"`
		HistoricalData []json.RawMessage `json:"historicalData"`
		ModelInfo      struct {
			BackendAvailable bool `json:"backendAvailable"`
			SequenceLength   int  `json:"sequenceLength"`
			TrainingSamples  int  `json:"trainingSamples"`
		} `json:"modelInfo"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.MetricType != "pv" || resp.ModelType != "lstm" {
		t.Fatalf("defaults not applied: metric=%q model=%q", resp.MetricType, resp.ModelType)
	}
	if len(resp.Predictions) != 7 {
		t.Fatalf("expected default 7 predictions, got %d", len(resp.Predictions))
	}
	if len(resp.HistoricalData) != 14 {
		t.Fatalf("expected 14 echoed records, got %d", len(resp.HistoricalData))
	}
	if resp.ModelInfo.SequenceLength != 7 || resp.ModelInfo.TrainingSamples != 7 {
		t.Fatalf("unexpected model info %+v", resp.ModelInfo)
	}
}

func TestPredictTooFewRecords(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","historicalData":%s}`, recordsJSON(5))
	rec := doJSON(e, http.MethodPost, "/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected success=false")
	}
	if !strings.Contains(envelope.Error, "14") {
		t.Fatalf("expected the minimum in the message, got %q", envelope.Error)
	}
}

func TestPredictEmptyData(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/predict", `{"projectId":"p1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredictInvalidModelType(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","modelType":"arima","historicalData":%s}`, recordsJSON(14))
	rec := doJSON(e, http.MethodPost, "/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredictLongHorizon(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","days":120,"historicalData":%s}`, recordsJSON(14))
	rec := doJSON(e, http.MethodPost, "/predict", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Predictions []struct {
			Date string `json:"date"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Predictions) != 120 {
		t.Fatalf("expected 120 predictions, got %d", len(resp.Predictions))
	}
}

func TestPredictBatchEndpoint(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","metrics":["pv","conversion_rate"],"days":5,"historicalData":%s}`, recordsJSON(14))
	rec := doJSON(e, http.MethodPost, "/predict/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Results map[string][]struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if len(resp.Results["pv"]) != 5 || len(resp.Results["conversion_rate"]) != 5 {
		t.Fatalf("unexpected results %v", resp.Results)
	}
}

// The 14-record floor applies to the single flow only; batch forecasts any
// history long enough to train on.
func TestPredictBatchShortHistory(t *testing.T) {
	e := newTestServer()
	body := fmt.Sprintf(`{"projectId":"p1","historicalData":%s}`, recordsJSON(10))
	rec := doJSON(e, http.MethodPost, "/predict/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Results map[string][]struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if len(resp.Results["pv"]) != 7 || len(resp.Results["uv"]) != 7 {
		t.Fatalf("expected 7 predictions per default metric, got %v", resp.Results)
	}
}
