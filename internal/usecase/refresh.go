package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FinVerdict/internal/domain/models"
	svcmetrics "FinVerdict/internal/service/metrics"
	"FinVerdict/pkg/logger"
	"FinVerdict/pkg/queue"

	"github.com/robfig/cron/v3"
)

// RefreshJobType is the queue message type for scheduled verdict refreshes.
const RefreshJobType = "verdict.refresh"

// RefreshPayload is the queued body of a refresh job.
type RefreshPayload struct {
	Symbol string `json:"symbol"`
}

// Refresher recomputes and caches one verdict.
type Refresher interface {
	Refresh(ctx context.Context, req models.AnalyzeRequest) error
}

// RefreshJob implements queue.Job for verdict refreshes.
type RefreshJob struct {
	refresher Refresher
	logger    *logger.Logger
}

func NewRefreshJob(r Refresher, l *logger.Logger) *RefreshJob {
	if l == nil {
		l = logger.Nop()
	}
	return &RefreshJob{refresher: r, logger: l}
}

func (j *RefreshJob) Name() string { return "verdict-refresh" }
func (j *RefreshJob) Type() string { return RefreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload []byte) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return err
	}
	err = j.refresher.Refresh(ctx, models.AnalyzeRequest{Symbol: p.Symbol})
	svcmetrics.ObserveRefresh(err)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", p.Symbol, err)
	}
	j.logger.Debug("verdict refreshed", logger.String("symbol", p.Symbol))
	return nil
}

// Enqueuer accepts jobs for asynchronous processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// RefreshScheduler enqueues a refresh for every configured symbol on a cron schedule.
type RefreshScheduler struct {
	cron    *cron.Cron
	queue   Enqueuer
	symbols []string
	logger  *logger.Logger

	mu      sync.Mutex
	started bool
}

// NewRefreshScheduler parses schedule as a six-field (seconds first) cron expression.
func NewRefreshScheduler(q Enqueuer, schedule string, symbols []string, l *logger.Logger) (*RefreshScheduler, error) {
	if l == nil {
		l = logger.Nop()
	}
	s := &RefreshScheduler{
		cron:    cron.New(cron.WithSeconds()),
		queue:   q,
		symbols: symbols,
		logger:  l.With(logger.String("component", "refresh_scheduler")),
	}
	if _, err := s.cron.AddFunc(schedule, s.enqueueAll); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *RefreshScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("refresh scheduler started", logger.Int("symbols", len(s.symbols)))
}

// Stop halts scheduling and waits for a running tick, bounded by ctx.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RefreshScheduler) enqueueAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	queued := 0
	for _, sym := range s.symbols {
		if err := s.queue.Enqueue(ctx, RefreshJobType, RefreshPayload{Symbol: sym}); err != nil {
			s.logger.Error("enqueue refresh failed", logger.String("symbol", sym), logger.Error(err))
			continue
		}
		queued++
	}
	s.logger.Info("refresh tick", logger.Int("queued", queued), logger.Int("symbols", len(s.symbols)))
}
