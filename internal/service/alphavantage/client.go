package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"FinVerdict/internal/domain/models"
	drepo "FinVerdict/internal/domain/repository"
	xhttp "FinVerdict/pkg/http"
	"FinVerdict/pkg/util"

	"golang.org/x/time/rate"
)

// compactSize is the number of bars Alpha Vantage returns for outputsize=compact.
const compactSize = 100

// ErrAPI is wrapped by errors reported in the response body (rate limits, bad symbols).
var ErrAPI = errors.New("alphavantage api error")

// Client implements PriceSource backed by the Alpha Vantage REST API.
type Client struct {
	baseURL string
	apiKey  string
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

// New creates a client; baseURL is e.g. https://www.alphavantage.co.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPriceHistory fetches bars for symbol at iv and returns at most limit of the newest, ascending.
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, iv drepo.Interval, limit int) (models.PriceSeries, error) {
	series := models.PriceSeries{Symbol: symbol, Interval: string(iv)}
	if !drepo.IsValidInterval(iv) {
		return series, fmt.Errorf("unsupported interval %q", iv)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return series, fmt.Errorf("rate limit wait: %w", err)
	}

	var body map[string]interface{}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/query",
		QueryParams: queryParams(symbol, iv, limit, c.apiKey),
	}, &body)
	if err != nil {
		return series, fmt.Errorf("alphavantage %s: %w", symbol, err)
	}

	points, err := parseSeries(body)
	if err != nil {
		return series, fmt.Errorf("alphavantage %s: %w", symbol, err)
	}
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	series.Points = points
	return series, nil
}

// FunctionFor maps an interval to the Alpha Vantage function name.
func FunctionFor(iv drepo.Interval) string {
	switch {
	case drepo.IsIntraday(iv):
		return "TIME_SERIES_INTRADAY"
	case iv == drepo.Interval1W:
		return "TIME_SERIES_WEEKLY"
	case iv == drepo.Interval1M:
		return "TIME_SERIES_MONTHLY"
	default:
		return "TIME_SERIES_DAILY"
	}
}

func queryParams(symbol string, iv drepo.Interval, limit int, apiKey string) map[string][]string {
	q := map[string][]string{
		"function": {FunctionFor(iv)},
		"symbol":   {symbol},
		"apikey":   {apiKey},
		"datatype": {"json"},
	}
	if drepo.IsIntraday(iv) {
		size := "compact"
		if limit > compactSize {
			size = "full"
		}
		q["interval"] = []string{string(iv)}
		q["outputsize"] = []string{size}
	}
	return q
}

// parseSeries extracts bars from the "Time Series (...)" object, dropping malformed rows.
func parseSeries(body map[string]interface{}) ([]models.PricePoint, error) {
	var raw map[string]interface{}
	for key, v := range body {
		if strings.Contains(key, "Time Series") {
			raw, _ = v.(map[string]interface{})
			break
		}
	}
	if raw == nil {
		for _, key := range []string{"Error Message", "Note", "Information"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return nil, fmt.Errorf("%w: %s", ErrAPI, msg)
			}
		}
		return nil, fmt.Errorf("%w: no time series in response", ErrAPI)
	}

	points := make([]models.PricePoint, 0, len(raw))
	for ts, v := range raw {
		fields, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		t, ok := util.ParseTime(ts)
		if !ok {
			continue
		}
		p := models.PricePoint{
			Timestamp: t,
			Open:      field(fields, "1. open"),
			High:      field(fields, "2. high"),
			Low:       field(fields, "3. low"),
			Close:     field(fields, "4. close"),
			Volume:    field(fields, "5. volume"),
		}
		if p.Valid() {
			points = append(points, p)
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	return points, nil
}

func field(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case string:
		f, _ := util.ParseFloat(v)
		return f
	case float64:
		return v
	default:
		return 0
	}
}

var _ drepo.PriceSource = (*Client)(nil)
