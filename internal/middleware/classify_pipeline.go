package middleware

import (
	"context"
	"fmt"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	domsvc "FinVerdict/internal/domain/service"
	"FinVerdict/pkg/logger"
	"FinVerdict/pkg/util"

	"golang.org/x/time/rate"
)

// chunkFailureRecorder is implemented by metrics backends that count failed classifier chunks.
type chunkFailureRecorder interface {
	RecordChunkFailure()
}

// ClassifyPipeline sits between the use case and a remote classifier.
// It truncates texts, splits them into paced chunks and substitutes neutral
// scores for chunks the classifier could not handle, so the output always has
// one entry per input.
type ClassifyPipeline struct {
	classifier domsvc.SentimentClassifier
	metrics    domrepo.Metrics
	logger     *logger.Logger
	chunkSize  int
	maxLen     int
	interval   time.Duration
	limiter    *rate.Limiter
}

type PipelineOption func(*ClassifyPipeline)

// WithChunkSize sets how many texts are sent per classifier call.
func WithChunkSize(n int) PipelineOption {
	return func(p *ClassifyPipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithChunkInterval sets the minimum spacing between classifier calls.
func WithChunkInterval(d time.Duration) PipelineOption {
	return func(p *ClassifyPipeline) {
		if d >= 0 {
			p.interval = d
		}
	}
}

// WithMaxTextLength sets the per-text truncation length in characters.
func WithMaxTextLength(n int) PipelineOption {
	return func(p *ClassifyPipeline) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

func WithPipelineLogger(l *logger.Logger) PipelineOption {
	return func(p *ClassifyPipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewClassifyPipeline creates a new pipeline.
func NewClassifyPipeline(classifier domsvc.SentimentClassifier, metrics domrepo.Metrics, opts ...PipelineOption) *ClassifyPipeline {
	p := &ClassifyPipeline{
		classifier: classifier,
		metrics:    metrics,
		logger:     logger.Nop(),
		chunkSize:  10,
		maxLen:     512,
		interval:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.interval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(p.interval), 1)
	} else {
		p.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return p
}

// Classify returns exactly len(texts) scores. Only context cancellation is reported as an error.
func (p *ClassifyPipeline) Classify(ctx context.Context, texts []string) ([]models.SentimentScores, error) {
	start := time.Now()
	out := make([]models.SentimentScores, 0, len(texts))

	for lo := 0; lo < len(texts); lo += p.chunkSize {
		hi := lo + p.chunkSize
		if hi > len(texts) {
			hi = len(texts)
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("classify pipeline: %w", err)
		}

		chunk := make([]string, hi-lo)
		for i, t := range texts[lo:hi] {
			chunk[i] = util.Truncate(t, p.maxLen)
		}

		scores, err := p.classifier.Classify(ctx, chunk)
		if err == nil && len(scores) != len(chunk) {
			err = fmt.Errorf("classifier returned %d results for %d texts", len(scores), len(chunk))
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("classify pipeline: %w", ctx.Err())
			}
			p.chunkFailed(lo, len(chunk), err)
			scores = make([]models.SentimentScores, len(chunk))
			for i := range scores {
				scores[i] = models.NeutralScores()
			}
		}
		out = append(out, scores...)
	}

	if p.metrics != nil {
		p.metrics.RecordLatency("classify_pipeline", time.Since(start).Seconds())
	}
	return out, nil
}

func (p *ClassifyPipeline) chunkFailed(offset, size int, err error) {
	p.logger.Warn("classifier chunk failed, using neutral scores",
		logger.Int("offset", offset),
		logger.Int("size", size),
		logger.Error(err))
	if p.metrics == nil {
		return
	}
	p.metrics.RecordError("classifier_chunk")
	if r, ok := p.metrics.(chunkFailureRecorder); ok {
		r.RecordChunkFailure()
	}
}

var _ domsvc.SentimentClassifier = (*ClassifyPipeline)(nil)
