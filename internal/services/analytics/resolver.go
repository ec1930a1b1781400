package analytics

import (
	"errors"
	"fmt"

	"TrendCast/internal/domain/models"
)

// ErrLengthMismatch reports pv and uv series of different lengths when
// deriving the conversion rate.
var ErrLengthMismatch = errors.New("pv and uv series length mismatch")

// Resolve extracts the series to forecast from daily records. Named metrics
// map to record fields; conversion_rate is derived from uv and pv.
func Resolve(records []models.HistoricalRecord, metric string) ([]float64, error) {
	if metric == models.MetricConversionRate {
		pv := Extract(records, models.MetricPV)
		uv := Extract(records, models.MetricUV)
		return ConversionRate(pv, uv)
	}
	return Extract(records, metric), nil
}

// Extract returns the named numeric field of each record, 0 when absent.
func Extract(records []models.HistoricalRecord, field string) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Field(field)
	}
	return out
}

// ConversionRate divides uv by pv day by day. Days with no page views get a
// rate of 0 rather than a division error.
func ConversionRate(pv, uv []float64) ([]float64, error) {
	if len(pv) != len(uv) {
		return nil, fmt.Errorf("%w: %d pv values, %d uv values", ErrLengthMismatch, len(pv), len(uv))
	}
	out := make([]float64, len(pv))
	for i := range pv {
		if pv[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = uv[i] / pv[i]
	}
	return out, nil
}
