package usecase

import (
	"context"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	domsvc "FinVerdict/internal/domain/service"
	"FinVerdict/internal/services/features"
	"FinVerdict/internal/services/sentiment"
	"FinVerdict/internal/services/signals"
	"FinVerdict/internal/services/verdict"
	"FinVerdict/pkg/util"
)

// Collaborator names used as keys in per-part error maps.
const (
	PartPrice      = "price"
	PartNews       = "news"
	PartClassifier = "classifier"
)

// Analyzer owns the collaborators and runs the two halves of an analysis.
type Analyzer struct {
	prices     domrepo.PriceSource
	news       domrepo.NewsSource
	classifier domsvc.SentimentClassifier
	evaluator  signals.Evaluator
	now        func() time.Time
}

func NewAnalyzer(prices domrepo.PriceSource, news domrepo.NewsSource, classifier domsvc.SentimentClassifier, evaluator signals.Evaluator) *Analyzer {
	return &Analyzer{
		prices:     prices,
		news:       news,
		classifier: classifier,
		evaluator:  evaluator,
		now:        time.Now,
	}
}

// TechnicalResult is a technical verdict plus the bars it was computed from.
type TechnicalResult struct {
	Verdict models.CombinedVerdict
	Raw     []models.PricePoint
	Clean   []models.PricePoint
}

// Technical fetches history and evaluates it. A series with no valid bars is a price failure.
func (a *Analyzer) Technical(ctx context.Context, symbol string, iv domrepo.Interval, limit int) (TechnicalResult, error) {
	series, err := a.prices.GetPriceHistory(ctx, symbol, iv, limit)
	if err != nil {
		return TechnicalResult{}, domsvc.NewCollaboratorError(PartPrice, err)
	}

	res := TechnicalResult{Raw: series.Points, Clean: features.DropInvalid(series.Points)}
	if len(res.Clean) == 0 {
		return res, domsvc.NewCollaboratorError(PartPrice, domrepo.ErrNoData)
	}

	series.Points = res.Clean
	res.Verdict = signals.Analyze(symbol, series, a.evaluator)
	return res, nil
}

// Sentiment fetches and classifies news for every symbol and returns one cleaned
// aggregate per symbol, in order. Symbols whose collaborators failed are reported
// in errs and carry the default sentiment. No news at all yields the empty aggregate.
func (a *Analyzer) Sentiment(ctx context.Context, symbols []string, daysBack int) ([]models.SentimentAggregate, map[string]error) {
	errs := make(map[string]error)
	from, to := util.LookbackRange(a.now(), daysBack)

	var docs []models.SentimentDocument
	var texts []string
	classified := make(map[string]bool)
	for _, sym := range symbols {
		articles, err := a.news.GetNews(ctx, sym, from, to)
		if err != nil {
			errs[sym] = domsvc.NewCollaboratorError(PartNews, err)
			continue
		}
		if len(articles) > 0 {
			classified[sym] = true
		}
		for _, art := range articles {
			docs = append(docs, models.SentimentDocument{EntityID: sym, Text: art.Text()})
			texts = append(texts, art.Text())
		}
	}

	if len(texts) > 0 {
		scores, err := a.classifier.Classify(ctx, texts)
		if err == nil && len(scores) != len(texts) {
			err = errClassifierCount(len(scores), len(texts))
		}
		if err != nil {
			// Symbols without articles never reached the classifier and keep the empty aggregate.
			for sym := range classified {
				if _, failed := errs[sym]; !failed {
					errs[sym] = domsvc.NewCollaboratorError(PartClassifier, err)
				}
			}
			docs = nil
		}
		for i := range docs {
			docs[i].SentimentScores = scores[i]
		}
	}

	date := util.FormatDate(to)
	aggs := sentiment.AggregateByEntity(symbols, docs)
	for i, sym := range symbols {
		if _, failed := errs[sym]; failed {
			aggs[i] = verdict.DefaultSentiment(sym)
		}
		aggs[i].AnalysisDate = date
	}
	return sentiment.CleanForDownstream(aggs), errs
}
