package benzinga

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FinVerdict/internal/domain/models"
	drepo "FinVerdict/internal/domain/repository"
	xhttp "FinVerdict/pkg/http"
	"FinVerdict/pkg/util"

	"golang.org/x/time/rate"
)

const pageSize = "100"

// Client implements NewsSource backed by the Benzinga news API.
type Client struct {
	baseURL string
	token   string
	http    *xhttp.Client
	limiter *rate.Limiter
}

type Option func(*Client)

// WithPerMinute sets the request budget. Zero or less disables throttling.
func WithPerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type article struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Teaser  string `json:"teaser"`
	Created string `json:"created"`
	URL     string `json:"url"`
	Author  string `json:"author"`
}

// GetNews returns articles tagged with symbol published between from and to (calendar days).
func (c *Client) GetNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/v2/news",
		Headers: map[string]string{
			"accept": "application/json",
		},
		QueryParams: map[string][]string{
			"token":         {c.token},
			"tickers":       {symbol},
			"dateFrom":      {util.FormatDate(from)},
			"dateTo":        {util.FormatDate(to)},
			"pageSize":      {pageSize},
			"displayOutput": {"abstract"},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("benzinga %s: %w", symbol, err)
	}

	items, err := decodeArticles(raw)
	if err != nil {
		return nil, fmt.Errorf("benzinga %s: %w", symbol, err)
	}

	out := make([]models.NewsArticle, 0, len(items))
	for _, it := range items {
		body := it.Body
		if body == "" {
			body = it.Teaser
		}
		out = append(out, models.NewsArticle{
			Symbol:  symbol,
			Title:   it.Title,
			Body:    body,
			Created: util.ParseTimeDefault(it.Created, time.Time{}),
			URL:     it.URL,
			Author:  it.Author,
		})
	}
	return out, nil
}

// decodeArticles accepts either a bare array or an object wrapping it under "data".
func decodeArticles(raw []byte) ([]article, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, nil
	}

	var items []article
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode news: %w", err)
		}
		return items, nil
	}

	var wrapped struct {
		Data []article `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}
	return wrapped.Data, nil
}

var _ drepo.NewsSource = (*Client)(nil)
