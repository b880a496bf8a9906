package middleware

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"FinVerdict/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	mu            sync.Mutex
	errors        []string
	chunkFailures int
}

func (m *fakeMetrics) RecordVerdict(string, string)    {}
func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *fakeMetrics) RecordChunkFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunkFailures++
}

type scriptedClassifier struct {
	calls   [][]string
	respond func(call int, texts []string) ([]models.SentimentScores, error)
}

func (c *scriptedClassifier) Classify(_ context.Context, texts []string) ([]models.SentimentScores, error) {
	c.calls = append(c.calls, texts)
	return c.respond(len(c.calls)-1, texts)
}

func positives(n int) []models.SentimentScores {
	out := make([]models.SentimentScores, n)
	for i := range out {
		out[i] = models.SentimentScores{Label: models.SentimentPositive, Confidence: 0.9, Positive: 0.9, Neutral: 0.1}
	}
	return out
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "headline"
	}
	return out
}

func TestClassifyPipeline_Chunks(t *testing.T) {
	cls := &scriptedClassifier{respond: func(_ int, in []string) ([]models.SentimentScores, error) {
		return positives(len(in)), nil
	}}
	p := NewClassifyPipeline(cls, &fakeMetrics{}, WithChunkSize(10), WithChunkInterval(0))

	out, err := p.Classify(context.Background(), texts(23))
	require.NoError(t, err)
	assert.Len(t, out, 23)
	require.Len(t, cls.calls, 3)
	assert.Len(t, cls.calls[0], 10)
	assert.Len(t, cls.calls[2], 3)
}

func TestClassifyPipeline_Truncates(t *testing.T) {
	cls := &scriptedClassifier{respond: func(_ int, in []string) ([]models.SentimentScores, error) {
		return positives(len(in)), nil
	}}
	p := NewClassifyPipeline(cls, nil, WithChunkInterval(0))

	_, err := p.Classify(context.Background(), []string{strings.Repeat("é", 600)})
	require.NoError(t, err)
	assert.Equal(t, 512, utf8.RuneCountInString(cls.calls[0][0]))
}

func TestClassifyPipeline_ChunkFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		respond func(call int, in []string) ([]models.SentimentScores, error)
	}{
		{"error", func(call int, in []string) ([]models.SentimentScores, error) {
			if call == 1 {
				return nil, errors.New("503 model loading")
			}
			return positives(len(in)), nil
		}},
		{"count mismatch", func(call int, in []string) ([]models.SentimentScores, error) {
			if call == 1 {
				return positives(len(in) - 1), nil
			}
			return positives(len(in)), nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMetrics{}
			p := NewClassifyPipeline(&scriptedClassifier{respond: tt.respond}, m, WithChunkSize(2), WithChunkInterval(0))

			out, err := p.Classify(context.Background(), texts(5))
			require.NoError(t, err)
			require.Len(t, out, 5)

			assert.Equal(t, models.SentimentPositive, out[0].Label)
			assert.Equal(t, models.NeutralScores(), out[2])
			assert.Equal(t, models.NeutralScores(), out[3])
			assert.Equal(t, models.SentimentPositive, out[4].Label)
			assert.Equal(t, 1, m.chunkFailures)
			assert.Equal(t, []string{"classifier_chunk"}, m.errors)
		})
	}
}

func TestClassifyPipeline_Paced(t *testing.T) {
	cls := &scriptedClassifier{respond: func(_ int, in []string) ([]models.SentimentScores, error) {
		return positives(len(in)), nil
	}}
	p := NewClassifyPipeline(cls, nil, WithChunkSize(1), WithChunkInterval(30*time.Millisecond))

	start := time.Now()
	_, err := p.Classify(context.Background(), texts(3))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestClassifyPipeline_Cancelled(t *testing.T) {
	cls := &scriptedClassifier{respond: func(_ int, in []string) ([]models.SentimentScores, error) {
		return positives(len(in)), nil
	}}
	p := NewClassifyPipeline(cls, nil, WithChunkSize(1), WithChunkInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Classify(ctx, texts(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyPipeline_Empty(t *testing.T) {
	cls := &scriptedClassifier{}
	out, err := NewClassifyPipeline(cls, nil).Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, cls.calls)
}
