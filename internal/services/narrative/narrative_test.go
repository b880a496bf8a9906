package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs() (models.CombinedVerdict, models.SentimentAggregate) {
	tech := models.CombinedVerdict{
		Symbol:         "AAPL",
		CurrentPrice:   189.456,
		Signal:         models.SignalBuy,
		Confidence:     60,
		Recommendation: "BUY - 3/3 indicators bullish",
		Indicators: []models.IndicatorResult{
			{Name: models.IndicatorRSI, Signal: models.SignalBuy, Value: 28.5},
		},
	}
	sent := models.SentimentAggregate{EntityID: "AAPL", DocumentCount: 4, WeightedSentimentAvg: 0.3, PositiveRatio: 0.5}
	return tech, sent
}

func TestBuildPrompt(t *testing.T) {
	tech, sent := sampleInputs()
	p := BuildPrompt(tech, sent)

	assert.Contains(t, p, "investment insight for AAPL")
	assert.Contains(t, p, "Current Price: $189.46")
	assert.Contains(t, p, `"overall_signal": "BUY"`)
	assert.Contains(t, p, `"RSI": 28.5`)
	assert.Contains(t, p, `"news_count": 4`)
}

func TestStaticNarrator(t *testing.T) {
	tech, sent := sampleInputs()
	_, err := StaticNarrator{}.Generate(context.Background(), tech, sent)
	assert.ErrorIs(t, err, domsvc.ErrNarrativeUnavailable)
}

func TestClaudeNarrator(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"  AAPL looks constructive. "}],
			"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	n := NewClaudeNarrator("test-key", "claude-test", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	tech, sent := sampleInputs()
	text, err := n.Generate(context.Background(), tech, sent)
	require.NoError(t, err)

	assert.Equal(t, "AAPL looks constructive.", text)
	assert.Equal(t, "claude-test", got["model"])
	assert.EqualValues(t, MaxTokens, got["max_tokens"])
	assert.InDelta(t, Temperature, got["temperature"], 1e-9)
	assert.Contains(t, mustJSON(t, got["system"]), SystemPrompt)
}

func TestClaudeNarrator_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	n := NewClaudeNarrator("k", "m", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	tech, sent := sampleInputs()
	_, err := n.Generate(context.Background(), tech, sent)
	assert.Error(t, err)
}

func TestGeminiNarrator(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		body, _ := io.ReadAll(r.Body)
		got = string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Momentum favors buyers."}]}}]}`))
	}))
	defer srv.Close()

	n, err := NewGeminiNarrator(context.Background(), "test-key", "gemini-test", srv.URL)
	require.NoError(t, err)

	tech, sent := sampleInputs()
	text, err := n.Generate(context.Background(), tech, sent)
	require.NoError(t, err)
	assert.Equal(t, "Momentum favors buyers.", text)
	assert.Contains(t, got, SystemPrompt)
	assert.Contains(t, got, "investment insight for AAPL")
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
