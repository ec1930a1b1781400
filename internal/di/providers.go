package di

import (
	"context"
	"fmt"
	"time"

	"TrendCast/internal/domain/repository"
	"TrendCast/internal/forecast"
	"TrendCast/internal/handler/api"
	internalrepo "TrendCast/internal/repository"
	"TrendCast/internal/usecase"
	pkgcache "TrendCast/pkg/cache"
	pkgch "TrendCast/pkg/clickhouse"
	"TrendCast/pkg/config"
	pkgkafka "TrendCast/pkg/kafka"
	"TrendCast/pkg/logger"
	"TrendCast/pkg/metrics"
	"TrendCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBackend resolves the forecasting capability once for the process.
func ProvideBackend(cfg *config.Config) *forecast.Backend {
	return forecast.NewBackend(forecast.Options{
		Kind:       cfg.Forecast.Backend,
		Lookback:   cfg.Forecast.Lookback,
		HiddenSize: cfg.Forecast.HiddenSize,
		Epochs:     cfg.Forecast.Epochs,
		BatchSize:  cfg.Forecast.BatchSize,
	})
}

// ProvideClickHouseClient creates a ClickHouse client when one is
// configured, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCache builds the input cache in front of ClickHouse reads: memory
// only, or memory layered over Redis when Redis is configured.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	local := pkgcache.NewMemoryCache(pkgcache.WithMaxSize(1024))
	if !cfg.Cache.Redis.Enabled {
		return local, nil
	}

	remote, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		pkgcache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(local, remote), nil
}

// ProvideMetricStore creates the historical-data store, nil when ClickHouse
// is not configured. Requests must then carry their data inline.
func ProvideMetricStore(client *pkgch.Client, c pkgcache.Service, cfg *config.Config, log *logger.Logger) repository.MetricStore {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseMetricsStore(client, c, cfg.Cache.TTL, cfg.ClickHouse.HistoryDays, log)
}

// ProvideKafkaProducer creates a Kafka producer when one is configured, nil
// otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideForecastPublisher creates the forecast-event publisher, nil when
// Kafka is not configured.
func ProvideForecastPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ForecastPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Kafka.Topic)
}

// ProvidePredictor creates the forecast orchestrator use case.
func ProvidePredictor(
	backend *forecast.Backend,
	store repository.MetricStore,
	publisher repository.ForecastPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Predictor {
	return usecase.NewPredictor(backend, store, publisher, m, log)
}

// ProvidePredictHandler creates the Echo HTTP handler.
func ProvidePredictHandler(log *logger.Logger, predictor *usecase.Predictor) *api.PredictEchoHandler {
	return api.NewPredictEchoHandler(log, predictor)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler *api.PredictEchoHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	c pkgcache.Service,
) *server.App {
	return server.New(cfg, log, handler, chClient, producer, c)
}
