package analytics

import (
	"errors"
	"testing"

	"TrendCast/internal/domain/models"
)

func TestConversionRate(t *testing.T) {
	got, err := ConversionRate([]float64{0, 100, 200}, []float64{0, 50, 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0.5, 0.25}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("day %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestConversionRateMismatch(t *testing.T) {
	_, err := ConversionRate([]float64{1, 2}, []float64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestResolveNamedMetric(t *testing.T) {
	records := []models.HistoricalRecord{
		{Date: "2024-01-01", PV: 100, UV: 40},
		{Date: "2024-01-02", PV: 200, UV: 50},
	}
	got, err := Resolve(records, models.MetricPV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 100 || got[1] != 200 {
		t.Fatalf("unexpected pv series %v", got)
	}
}

func TestResolveConversionRate(t *testing.T) {
	records := []models.HistoricalRecord{
		{Date: "2024-01-01", PV: 100, UV: 40},
		{Date: "2024-01-02", PV: 0, UV: 50},
	}
	got, err := Resolve(records, models.MetricConversionRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 0.4 || got[1] != 0 {
		t.Fatalf("unexpected conversion series %v", got)
	}
}

func TestResolveCustomField(t *testing.T) {
	records := []models.HistoricalRecord{
		{Date: "2024-01-01", Extra: map[string]float64{"orders": 12}},
		{Date: "2024-01-02"},
	}
	got, err := Resolve(records, "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 12 || got[1] != 0 {
		t.Fatalf("unexpected series %v", got)
	}
}
