package repository

import (
	"context"
	"errors"
	"time"

	"FinVerdict/internal/domain/models"
)

// ErrNoData is returned by sources that have nothing for the requested range.
var ErrNoData = errors.New("no data")

// PriceSource returns historical bars, ascending, at most limit of the newest.
type PriceSource interface {
	GetPriceHistory(ctx context.Context, symbol string, iv Interval, limit int) (models.PriceSeries, error)
}

// NewsSource returns news for a symbol within [from, to].
type NewsSource interface {
	GetNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)
}

// VerdictCache stores computed verdicts keyed by request.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*models.Verdict, bool)
	Set(ctx context.Context, key string, v *models.Verdict) error
}

// VerdictPublisher emits verdict events downstream.
type VerdictPublisher interface {
	Publish(ctx context.Context, ev *models.VerdictEvent) error
	Close() error
}

type Metrics interface {
	RecordVerdict(symbol, signal string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
