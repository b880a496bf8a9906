package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	domsvc "FinVerdict/internal/domain/service"
	icache "FinVerdict/internal/service/cache"
	"FinVerdict/internal/services/features"
	"FinVerdict/internal/services/verdict"
	"FinVerdict/pkg/logger"
	"FinVerdict/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

const (
	SourceAPI     = "api"
	SourceRefresh = "refresh"

	publishTimeout = 5 * time.Second
)

var validate = validator.New()

// VerdictUseCase runs one analysis request end to end.
type VerdictUseCase struct {
	analyzer  *Analyzer
	formatter *verdict.Formatter
	cache     domrepo.VerdictCache
	publisher domrepo.VerdictPublisher
	metrics   domrepo.Metrics
	logger    *logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

type VerdictOption func(*VerdictUseCase)

// WithTimeout bounds the concurrent collaborator phase.
func WithTimeout(d time.Duration) VerdictOption {
	return func(uc *VerdictUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

func WithCache(c domrepo.VerdictCache) VerdictOption {
	return func(uc *VerdictUseCase) { uc.cache = c }
}

func WithPublisher(p domrepo.VerdictPublisher) VerdictOption {
	return func(uc *VerdictUseCase) { uc.publisher = p }
}

func WithMetrics(m domrepo.Metrics) VerdictOption {
	return func(uc *VerdictUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithLogger(l *logger.Logger) VerdictOption {
	return func(uc *VerdictUseCase) {
		if l != nil {
			uc.logger = l
		}
	}
}

func NewVerdictUseCase(analyzer *Analyzer, formatter *verdict.Formatter, opts ...VerdictOption) *VerdictUseCase {
	uc := &VerdictUseCase{
		analyzer:  analyzer,
		formatter: formatter,
		metrics:   nopMetrics{},
		logger:    logger.Nop(),
		timeout:   20 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// NormalizeAnalyzeRequest trims and upper-cases the symbol, applies defaults and validates.
func NormalizeAnalyzeRequest(req *models.AnalyzeRequest) error {
	req.Symbol = util.NormalizeSymbol(req.Symbol)
	if err := defaults.Set(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// analysis is the outcome of the concurrent phase; failed parts already hold defaults.
type analysis struct {
	tech TechnicalResult
	sent models.SentimentAggregate
	errs map[string]error
}

func (uc *VerdictUseCase) run(ctx context.Context, req models.AnalyzeRequest) (*analysis, error) {
	start := uc.now()
	runCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &analysis{errs: map[string]error{}}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.analyzer.Technical(runCtx, req.Symbol, domrepo.Interval(req.TechnicalInterval), req.TechnicalLimit)
		ch <- item{"technical", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		aggs, errs := uc.analyzer.Sentiment(runCtx, []string{req.Symbol}, req.DaysBack)
		ch <- item{"sentiment", aggs[0], errs[req.Symbol]}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		switch it.name {
		case "technical":
			res.tech = it.val.(TechnicalResult)
			if it.err != nil {
				res.tech.Verdict = verdict.DefaultTechnical(req.Symbol)
			}
		case "sentiment":
			res.sent = it.val.(models.SentimentAggregate)
		}
		if it.err != nil {
			name := collaboratorName(it.err, it.name)
			res.errs[name] = it.err
			uc.metrics.RecordError(name)
			uc.logger.Warn("collaborator failed, using defaults",
				logger.String("symbol", req.Symbol),
				logger.String("collaborator", name),
				logger.Error(it.err))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uc.metrics.RecordLatency("analyze", uc.now().Sub(start).Seconds())
	if _, failed := res.errs[PartPrice]; !failed {
		uc.metrics.RecordLastPrice(req.Symbol, res.tech.Verdict.CurrentPrice)
	}
	uc.metrics.RecordVerdict(req.Symbol, res.tech.Verdict.Signal.String())
	return res, nil
}

// Analyze returns the verdict for req. The bool reports a cache hit.
// Only validation failures and caller cancellation are returned as errors.
func (uc *VerdictUseCase) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Verdict, bool, error) {
	if err := NormalizeAnalyzeRequest(&req); err != nil {
		return nil, false, err
	}

	key := icache.Key(req)
	if uc.cache != nil {
		if v, ok := uc.cache.Get(ctx, key); ok {
			uc.logger.Debug("verdict served", logger.String("symbol", req.Symbol), logger.Bool("cached", true))
			return v, true, nil
		}
	}

	a, err := uc.run(ctx, req)
	if err != nil {
		return nil, false, err
	}

	v := uc.formatter.Build(ctx, a.tech.Verdict, a.sent)
	uc.store(ctx, key, &v)
	uc.publish(ctx, SourceAPI, a, &v)
	uc.logger.Debug("verdict served", logger.String("symbol", req.Symbol), logger.Bool("cached", false))
	return &v, false, nil
}

// Detailed returns the raw analysis behind a verdict, without narrative.
func (uc *VerdictUseCase) Detailed(ctx context.Context, req models.AnalyzeRequest) (*models.DetailedAnalysis, error) {
	if err := NormalizeAnalyzeRequest(&req); err != nil {
		return nil, err
	}

	a, err := uc.run(ctx, req)
	if err != nil {
		return nil, err
	}

	return &models.DetailedAnalysis{
		Symbol:            req.Symbol,
		AnalysisTimestamp: uc.now().UTC(),
		Technical:         a.tech.Verdict,
		Sentiment:         a.sent,
		Quality:           features.CheckQuality(a.tech.Raw),
		Features:          features.Compute(a.tech.Clean),
		Errors:            errorStrings(a.errs),
	}, nil
}

// SentimentBatch returns cleaned aggregates for several symbols, normalized and de-duplicated.
// The map holds per-symbol collaborator failures.
func (uc *VerdictUseCase) SentimentBatch(ctx context.Context, req models.SentimentRequest) ([]models.SentimentAggregate, map[string]string, error) {
	seen := make(map[string]bool, len(req.Symbols))
	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		s = util.NormalizeSymbol(s)
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	req.Symbols = symbols

	if err := defaults.Set(&req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	aggs, errs := uc.analyzer.Sentiment(runCtx, req.Symbols, req.DaysBack)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	for _, err := range errs {
		uc.metrics.RecordError(collaboratorName(err, PartNews))
	}
	failed := errorStrings(errs)
	if failed != nil {
		uc.logger.Warn("sentiment batch used defaults",
			logger.Int("symbols", len(req.Symbols)),
			logger.Any("errors", failed))
	}
	return aggs, failed, nil
}

// Refresh recomputes and caches the verdict for req. A run where any collaborator
// failed is reported as an error and not cached, so a good entry is never replaced by defaults.
func (uc *VerdictUseCase) Refresh(ctx context.Context, req models.AnalyzeRequest) error {
	if err := NormalizeAnalyzeRequest(&req); err != nil {
		return err
	}

	a, err := uc.run(ctx, req)
	if err != nil {
		return err
	}
	if len(a.errs) > 0 {
		return fmt.Errorf("refresh %s: %w", req.Symbol, errors.Join(mapValues(a.errs)...))
	}

	v := uc.formatter.Build(ctx, a.tech.Verdict, a.sent)
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, icache.Key(req), &v); err != nil {
			return fmt.Errorf("refresh %s: cache set: %w", req.Symbol, err)
		}
	}
	uc.publish(ctx, SourceRefresh, a, &v)
	return nil
}

func (uc *VerdictUseCase) store(ctx context.Context, key string, v *models.Verdict) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, v); err != nil {
		uc.logger.Warn("verdict cache set failed", logger.String("key", key), logger.Error(err))
	}
}

func (uc *VerdictUseCase) publish(ctx context.Context, source string, a *analysis, v *models.Verdict) {
	if uc.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := &models.VerdictEvent{
		Symbol:     v.Stock.Symbol,
		Source:     source,
		Signal:     a.tech.Verdict.Signal,
		Confidence: a.tech.Verdict.Confidence,
		Verdict:    *v,
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.metrics.RecordError("publish")
		uc.logger.Warn("verdict publish failed", logger.String("symbol", ev.Symbol), logger.Error(err))
	}
}

func collaboratorName(err error, fallback string) string {
	var ce *domsvc.CollaboratorError
	if errors.As(err, &ce) {
		return ce.Collaborator
	}
	return fallback
}

func mapValues(m map[string]error) []error {
	out := make([]error, 0, len(m))
	for _, err := range m {
		out = append(out, err)
	}
	return out
}

type nopMetrics struct{}

func (nopMetrics) RecordVerdict(string, string)    {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
