package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	"FinVerdict/internal/services/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrices struct {
	mu     sync.Mutex
	calls  int
	series models.PriceSeries
	err    error
}

func (f *fakePrices) GetPriceHistory(_ context.Context, symbol string, iv domrepo.Interval, _ int) (models.PriceSeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return models.PriceSeries{}, f.err
	}
	s := f.series
	s.Symbol = symbol
	s.Interval = string(iv)
	return s, nil
}

type fakeNews struct {
	articles map[string][]models.NewsArticle
	err      map[string]error
}

func (f *fakeNews) GetNews(_ context.Context, symbol string, _, _ time.Time) ([]models.NewsArticle, error) {
	if err := f.err[symbol]; err != nil {
		return nil, err
	}
	return f.articles[symbol], nil
}

type fakeClassifier struct {
	scores models.SentimentScores
	short  bool
	err    error
}

func (f *fakeClassifier) Classify(_ context.Context, texts []string) ([]models.SentimentScores, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short {
		n--
	}
	out := make([]models.SentimentScores, n)
	for i := range out {
		out[i] = f.scores
	}
	return out, nil
}

type allBuy struct{}

func (allBuy) Evaluate(models.PriceSeries) []models.IndicatorResult {
	return []models.IndicatorResult{
		{Name: models.IndicatorEMA, Signal: models.SignalBuy, Confidence: 60},
		{Name: models.IndicatorMACD, Signal: models.SignalBuy, Confidence: 60},
		{Name: models.IndicatorRSI, Signal: models.SignalBuy, Confidence: 60},
	}
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]models.Verdict
}

func newMapCache() *mapCache { return &mapCache{data: map[string]models.Verdict{}} }

func (c *mapCache) Get(_ context.Context, key string) (*models.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *mapCache) Set(_ context.Context, key string, v *models.Verdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *v
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.VerdictEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *models.VerdictEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func bars(n int) models.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]models.PricePoint, n)
	for i := range pts {
		c := 100 + float64(i)
		pts[i] = models.PricePoint{Timestamp: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return models.PriceSeries{Points: pts}
}

type fixture struct {
	prices     *fakePrices
	news       *fakeNews
	classifier *fakeClassifier
	cache      *mapCache
	publisher  *recordingPublisher
	uc         *VerdictUseCase
}

func newFixture() *fixture {
	f := &fixture{
		prices: &fakePrices{series: bars(30)},
		news: &fakeNews{articles: map[string][]models.NewsArticle{
			"AAPL": {{Title: "Apple beats", Body: "record quarter"}, {Title: "Apple ships", Body: "new devices"}},
		}},
		classifier: &fakeClassifier{scores: models.SentimentScores{Label: models.SentimentPositive, Confidence: 0.9, Positive: 0.9, Negative: 0.05, Neutral: 0.05}},
		cache:      newMapCache(),
		publisher:  &recordingPublisher{},
	}
	an := NewAnalyzer(f.prices, f.news, f.classifier, allBuy{})
	f.uc = NewVerdictUseCase(an, verdict.NewFormatter(nil), WithCache(f.cache), WithPublisher(f.publisher))
	return f
}

func TestNormalizeAnalyzeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.AnalyzeRequest
		want    models.AnalyzeRequest
		wantErr bool
	}{
		{
			name: "defaults applied",
			req:  models.AnalyzeRequest{Symbol: " aapl "},
			want: models.AnalyzeRequest{Symbol: "AAPL", DaysBack: 7, TechnicalInterval: "1D", TechnicalLimit: 100},
		},
		{
			name: "explicit values kept",
			req:  models.AnalyzeRequest{Symbol: "msft", DaysBack: 3, TechnicalInterval: "5min", TechnicalLimit: 50},
			want: models.AnalyzeRequest{Symbol: "MSFT", DaysBack: 3, TechnicalInterval: "5min", TechnicalLimit: 50},
		},
		{name: "empty symbol", req: models.AnalyzeRequest{Symbol: "  "}, wantErr: true},
		{name: "days out of range", req: models.AnalyzeRequest{Symbol: "A", DaysBack: 31}, wantErr: true},
		{name: "bad interval", req: models.AnalyzeRequest{Symbol: "A", TechnicalInterval: "2h"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := NormalizeAnalyzeRequest(&req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
		})
	}
}

func TestAnalyze_HappyPath(t *testing.T) {
	f := newFixture()

	v, cached, err := f.uc.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "aapl"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "AAPL", v.Stock.Symbol)
	assert.Equal(t, 129.0, v.Stock.Price)
	assert.Equal(t, "Bullish", v.TechnicalAnalysis.Trend)
	assert.NotEmpty(t, v.AIInsight)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, SourceAPI, ev.Source)
	assert.Equal(t, models.SignalBuy, ev.Signal)
	assert.Equal(t, "AAPL", ev.Symbol)
}

func TestAnalyze_CacheHit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, cached, err := f.uc.Analyze(ctx, models.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	require.False(t, cached)

	second, cached, err := f.uc.Analyze(ctx, models.AnalyzeRequest{Symbol: "aapl"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.prices.calls)
	assert.Len(t, f.publisher.events, 1)
}

func TestAnalyze_CollaboratorFailuresUseDefaults(t *testing.T) {
	f := newFixture()
	f.prices.err = errors.New("upstream down")
	f.classifier.err = errors.New("model loading")

	v, _, err := f.uc.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)

	def := verdict.DefaultTechnical("AAPL")
	assert.Equal(t, def.CurrentPrice, v.Stock.Price)
	assert.Equal(t, "Neutral", v.TechnicalAnalysis.Trend)
	assert.Equal(t, 50.0, v.TechnicalAnalysis.RSI)
	assert.Equal(t, "Neutral", v.SemanticAnalysis.Sentiment)
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	f := newFixture()
	_, _, err := f.uc.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "WAYTOOLONGSYMBOL"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, f.prices.calls)
}

func TestAnalyze_Cancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.uc.Analyze(ctx, models.AnalyzeRequest{Symbol: "AAPL"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.publisher.events)
}

func TestAnalyze_PublishFailureIgnored(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker unavailable")

	v, _, err := f.uc.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestDetailed(t *testing.T) {
	f := newFixture()
	f.news.err = map[string]error{"AAPL": errors.New("rate limited")}

	d, err := f.uc.Detailed(context.Background(), models.AnalyzeRequest{Symbol: "aapl"})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", d.Symbol)
	assert.Equal(t, models.SignalBuy, d.Technical.Signal)
	assert.Equal(t, 30, d.Quality.Records)
	assert.Len(t, d.Features, 30)
	assert.Equal(t, 5, d.Sentiment.DocumentCount)
	require.Contains(t, d.Errors, PartNews)
	assert.Contains(t, d.Errors[PartNews], "rate limited")
	assert.Empty(t, f.publisher.events)
}

func TestAnalyzer_NoValidBars(t *testing.T) {
	prices := &fakePrices{series: models.PriceSeries{Points: []models.PricePoint{{Close: -1}}}}
	an := NewAnalyzer(prices, &fakeNews{}, &fakeClassifier{}, allBuy{})

	_, err := an.Technical(context.Background(), "AAPL", domrepo.Interval1D, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domrepo.ErrNoData)
}

func TestSentimentBatch(t *testing.T) {
	f := newFixture()
	f.news.articles["MSFT"] = nil

	aggs, errs, err := f.uc.SentimentBatch(context.Background(), models.SentimentRequest{Symbols: []string{"aapl", "AAPL", " msft"}})
	require.NoError(t, err)
	assert.Nil(t, errs)
	require.Len(t, aggs, 2)

	assert.Equal(t, "AAPL", aggs[0].EntityID)
	assert.Equal(t, 2, aggs[0].DocumentCount)
	assert.Equal(t, 1, aggs[0].SentimentSignal)
	assert.Equal(t, 1.0, aggs[0].ConfidenceNormalized)

	assert.Equal(t, "MSFT", aggs[1].EntityID)
	assert.Zero(t, aggs[1].DocumentCount)
	assert.Equal(t, 0, aggs[1].SentimentSignal)
}

func TestSentimentBatch_ClassifierCountMismatch(t *testing.T) {
	f := newFixture()
	f.classifier.short = true

	aggs, errs, err := f.uc.SentimentBatch(context.Background(), models.SentimentRequest{Symbols: []string{"AAPL"}})
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 5, aggs[0].DocumentCount)
	assert.Contains(t, errs["AAPL"], "classifier returned 1 results for 2 texts")
}

func TestSentimentBatch_ClassifierFailure(t *testing.T) {
	f := newFixture()
	f.classifier.err = errors.New("down")
	f.news.articles["QUIET"] = nil

	aggs, errs, err := f.uc.SentimentBatch(context.Background(), models.SentimentRequest{Symbols: []string{"AAPL", "QUIET"}})
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	assert.Equal(t, "AAPL", aggs[0].EntityID)
	assert.Equal(t, 5, aggs[0].DocumentCount)
	assert.Contains(t, errs["AAPL"], "classifier")

	assert.Equal(t, "QUIET", aggs[1].EntityID)
	assert.Zero(t, aggs[1].DocumentCount)
	assert.Equal(t, 0, aggs[1].SentimentSignal)
	assert.NotContains(t, errs, "QUIET")
}

func TestSentimentBatch_Invalid(t *testing.T) {
	f := newFixture()
	_, _, err := f.uc.SentimentBatch(context.Background(), models.SentimentRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRefresh(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.uc.Refresh(ctx, models.AnalyzeRequest{Symbol: "AAPL"}))
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, SourceRefresh, f.publisher.events[0].Source)

	_, cached, err := f.uc.Analyze(ctx, models.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestRefresh_FailureNotCached(t *testing.T) {
	f := newFixture()
	f.prices.err = errors.New("upstream down")

	err := f.uc.Refresh(context.Background(), models.AnalyzeRequest{Symbol: "AAPL"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Empty(t, f.cache.data)
	assert.Empty(t, f.publisher.events)
}

func TestTechnicalReport(t *testing.T) {
	f := newFixture()
	report, errs := f.uc.TechnicalReport(context.Background(), []string{"aapl"}, domrepo.Interval1D, 30)
	assert.Empty(t, errs)
	assert.Contains(t, report, "Analyzed 1 symbols")
	assert.Contains(t, report, "AAPL - $129.00")
}
