package cache

import (
	"context"
	"errors"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	"FinVerdict/internal/service/metrics"
	pkgcache "FinVerdict/pkg/cache"
	"FinVerdict/pkg/logger"
)

const keyPrefix = "verdict"

// VerdictCache stores verdicts in a pkg/cache Service under a fixed TTL.
type VerdictCache struct {
	store pkgcache.Service
	ttl   time.Duration
	l     *logger.Logger
}

func NewVerdictCache(store pkgcache.Service, ttl time.Duration, l *logger.Logger) *VerdictCache {
	if l == nil {
		l = logger.Nop()
	}
	return &VerdictCache{store: store, ttl: ttl, l: l}
}

// Key identifies a verdict by every request parameter that changes its content.
func Key(req models.AnalyzeRequest) string {
	return pkgcache.GenerateKeyWithParams(keyPrefix, req.Symbol, req.DaysBack, req.TechnicalInterval, req.TechnicalLimit)
}

func (c *VerdictCache) Get(ctx context.Context, key string) (*models.Verdict, bool) {
	var v models.Verdict
	if err := c.store.Get(ctx, key, &v); err != nil {
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			c.l.Warn("verdict cache get failed", logger.String("key", key), logger.Error(err))
		}
		metrics.ObserveCacheLookup(false)
		return nil, false
	}
	metrics.ObserveCacheLookup(true)
	return &v, true
}

func (c *VerdictCache) Set(ctx context.Context, key string, v *models.Verdict) error {
	return c.store.Set(ctx, key, v, c.ttl)
}

var _ domrepo.VerdictCache = (*VerdictCache)(nil)
