package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	xhttp "FinVerdict/pkg/http"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// HTTPServiceBase is the shared foundation for model-inference HTTP clients.
// It centralizes client construction, auth headers, JSON POST handling and a
// consecutive-failure circuit breaker.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	headers map[string]string
	breaker *breaker
}

type BaseOption func(*HTTPServiceBase)

// WithBearerToken sends Authorization: Bearer token on every request.
func WithBearerToken(token string) BaseOption {
	return func(b *HTTPServiceBase) {
		if token != "" {
			b.headers["Authorization"] = "Bearer " + token
		}
	}
}

// WithBreaker opens the circuit after threshold consecutive failed attempts for cooldown.
func WithBreaker(threshold int, cooldown time.Duration) BaseOption {
	return func(b *HTTPServiceBase) {
		b.breaker = newBreaker(threshold, cooldown)
	}
}

func NewHTTPServiceBase(baseURL string, timeout time.Duration, opts ...BaseOption) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	b := &HTTPServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		headers: map[string]string{"Content-Type": "application/json"},
		breaker: newBreaker(5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("analytics http client not initialized")
	}
	if !b.breaker.allow() {
		return ErrCircuitOpen
	}

	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: b.headers,
		Body:    payload,
	}, dest)
	b.breaker.record(err)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry posts JSON with up to `attempts` tries and linear backoff.
// An open circuit or a cancelled context stops retrying immediately.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil || errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil {
			return err
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	openUntil time.Time
	now       func() time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// allow reports whether a call may proceed. After the cooldown one trial call is let through.
func (b *breaker) allow() bool {
	if b == nil || b.threshold <= 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openUntil.IsZero() || !b.now().Before(b.openUntil)
}

func (b *breaker) record(err error) {
	if b == nil || b.threshold <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		b.openUntil = time.Time{}
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
	}
}
