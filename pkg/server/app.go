package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinVerdict/internal/domain/repository"
	"FinVerdict/internal/usecase"
	pkgcache "FinVerdict/pkg/cache"
	pkgch "FinVerdict/pkg/clickhouse"
	"FinVerdict/pkg/config"
	xhttp "FinVerdict/pkg/http"
	applogger "FinVerdict/pkg/logger"
	"FinVerdict/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	verdicts   *usecase.VerdictUseCase
	queue      *queue.RedisQueue
	scheduler  *usecase.RefreshScheduler
	publisher  repository.VerdictPublisher
	cache      pkgcache.Service
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

type Option func(*App)

// WithRefresh attaches the refresh queue and its scheduler; either may be nil.
func WithRefresh(q *queue.RedisQueue, s *usecase.RefreshScheduler) Option {
	return func(a *App) {
		a.queue = q
		a.scheduler = s
	}
}

func WithPublisher(p repository.VerdictPublisher) Option {
	return func(a *App) { a.publisher = p }
}

func WithCache(c pkgcache.Service) Option {
	return func(a *App) { a.cache = c }
}

func WithClickHouse(c *pkgch.Client) Option {
	return func(a *App) { a.chClient = c }
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, verdicts *usecase.VerdictUseCase, opts ...Option) *App {
	a := &App{cfg: cfg, logger: l, handler: handler, verdicts: verdicts}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler, a.logger,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
	)

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			return fmt.Errorf("start refresh queue: %w", err)
		}
	}
	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("refresh scheduled",
			applogger.String("schedule", a.cfg.Refresh.Schedule),
			applogger.Strings("symbols", a.cfg.Refresh.Symbols))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.shutdown(ctx)
}

// Report prints a plain-text technical report for symbols and returns without serving.
func (a *App) Report(ctx context.Context, symbols []string) error {
	report, errs := a.verdicts.TechnicalReport(ctx, symbols, repository.Interval1D, 100)
	for sym, err := range errs {
		a.logger.Warn("symbol skipped", applogger.String("symbol", sym), applogger.Error(err))
	}
	fmt.Fprint(os.Stdout, report)
	return a.shutdown(ctx)
}

// shutdown stops producers of work before the infrastructure they use.
func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.logger.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			a.logger.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
		}
	}

	// Flush collected error logs while the producer is still open.
	a.logger.RemoveCollector()
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
