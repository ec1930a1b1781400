package repository

import (
	"context"
	"fmt"
	"time"

	"TrendCast/internal/domain/models"
	"TrendCast/pkg/cache"
	"TrendCast/pkg/clickhouse"
	"TrendCast/pkg/logger"
	"TrendCast/pkg/util"
)

const defaultHistoryDays = 90

// ClickHouseMetricsStore loads per-project daily aggregates from the
// daily_metrics table, with a read-through cache in front. Only raw input
// series are cached; models and forecasts never are.
type ClickHouseMetricsStore struct {
	client      *clickhouse.Client
	cache       cache.Service
	cacheTTL    time.Duration
	historyDays int
	log         *logger.Logger
}

func NewClickHouseMetricsStore(client *clickhouse.Client, c cache.Service, cacheTTL time.Duration, historyDays int, log *logger.Logger) *ClickHouseMetricsStore {
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &ClickHouseMetricsStore{
		client:      client,
		cache:       c,
		cacheTTL:    cacheTTL,
		historyDays: historyDays,
		log:         log,
	}
}

// GetDailyMetrics returns the most recent lastN days in chronological order.
// lastN <= 0 means the configured history window.
func (s *ClickHouseMetricsStore) GetDailyMetrics(ctx context.Context, projectID string, lastN int) ([]models.HistoricalRecord, error) {
	if lastN <= 0 {
		lastN = s.historyDays
	}

	cacheKey := fmt.Sprintf("daily_metrics:%s:%d", projectID, lastN)
	if s.cache != nil {
		var cached []models.HistoricalRecord
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.client.DB().QueryContext(ctx, `
		SELECT date, pv, uv
		FROM daily_metrics
		WHERE project_id = ?
		ORDER BY date DESC
		LIMIT ?`, projectID, lastN)
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}
	defer rows.Close()

	var records []models.HistoricalRecord
	for rows.Next() {
		var day time.Time
		var pv, uv uint64
		if err := rows.Scan(&day, &pv, &uv); err != nil {
			return nil, fmt.Errorf("scan daily metrics: %w", err)
		}
		records = append(records, models.HistoricalRecord{
			Date: day.Format(util.DayFormat),
			PV:   float64(pv),
			UV:   float64(uv),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read daily metrics: %w", err)
	}

	// query returns newest first; callers expect chronological order
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	if s.cache != nil && len(records) > 0 {
		if err := s.cache.Set(ctx, cacheKey, records, s.cacheTTL); err != nil {
			s.log.Warn("daily metrics cache write failed",
				logger.String("project_id", projectID),
				logger.Error(err))
		}
	}
	return records, nil
}

// Schema returns the DDL the store needs, applied at startup.
func Schema() []string {
	return []string{`
		CREATE TABLE IF NOT EXISTS daily_metrics (
			project_id String,
			date       Date,
			pv         UInt64,
			uv         UInt64
		) ENGINE = ReplacingMergeTree()
		ORDER BY (project_id, date)`,
	}
}
