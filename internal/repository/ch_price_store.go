package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	pkgch "FinVerdict/pkg/clickhouse"
	applogger "FinVerdict/pkg/logger"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHPriceStore implements PriceSource over a ClickHouse bars table:
// (symbol String, timeframe String, ts DateTime, open, high, low, close, volume Float64).
type CHPriceStore struct {
	db    *sql.DB
	query string
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client, table string, l *applogger.Logger) (*CHPriceStore, error) {
	return newCHPriceStore(ch.DB(), table, l)
}

func newCHPriceStore(db *sql.DB, table string, l *applogger.Logger) (*CHPriceStore, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHPriceStore{db: db, query: latestBarsQuery(table), table: table, l: l}, nil
}

func latestBarsQuery(table string) string {
	return fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND timeframe = ?
        ORDER BY ts DESC
        LIMIT ?
    `, table)
}

// GetPriceHistory returns the newest limit bars, ascending, with invalid rows dropped.
func (s *CHPriceStore) GetPriceHistory(ctx context.Context, symbol string, iv domrepo.Interval, limit int) (models.PriceSeries, error) {
	start := time.Now()
	series := models.PriceSeries{Symbol: symbol, Interval: string(iv)}

	rows, err := s.db.QueryContext(ctx, s.query, symbol, string(iv), limit)
	if err != nil {
		s.l.Error("clickhouse price_history query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.String("interval", string(iv)),
			applogger.Error(err),
		)
		return series, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	desc := make([]models.PricePoint, 0, limit)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Timestamp, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return series, fmt.Errorf("scan bar: %w", err)
		}
		desc = append(desc, p)
	}
	if err := rows.Err(); err != nil {
		return series, fmt.Errorf("rows: %w", err)
	}

	series.Points = ascendingValid(desc)
	if len(series.Points) == 0 {
		return series, domrepo.ErrNoData
	}

	s.l.Debug("clickhouse price_history ok",
		applogger.String("symbol", symbol),
		applogger.String("interval", string(iv)),
		applogger.Int("rows", len(series.Points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return series, nil
}

// ascendingValid reverses newest-first rows and drops bars that fail validation.
func ascendingValid(desc []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		if desc[i].Valid() {
			out = append(out, desc[i])
		}
	}
	return out
}

var _ domrepo.PriceSource = (*CHPriceStore)(nil)
