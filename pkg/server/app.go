package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"TrendCast/internal/service/ratelimit"
	pkgcache "TrendCast/pkg/cache"
	pkgch "TrendCast/pkg/clickhouse"
	"TrendCast/pkg/config"
	xhttp "TrendCast/pkg/http"
	"TrendCast/pkg/http/middleware"
	pkgkafka "TrendCast/pkg/kafka"
	applogger "TrendCast/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server plus the optional
// infrastructure clients it has to close on shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	cache      pkgcache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		chClient: chClient,
		producer: producer,
		cache:    cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	var extra []echo.MiddlewareFunc
	if a.cfg.RateLimit.Enabled {
		extra = append(extra, ratelimit.Middleware(ratelimit.New(), a.cfg.RateLimit.Capacity, a.cfg.RateLimit.RefillPerSec))
	}
	if a.cfg.Metrics.Enabled {
		extra = append(extra, echo.WrapMiddleware(middleware.Metrics(a.log, 2*time.Second)))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
		xhttp.WithMiddleware(extra...),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("forecast service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Forecast.Backend),
		applogger.Int("lookback", a.cfg.Forecast.Lookback))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the server and closes infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
