package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topics  []string
	batches []*LogBatch
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.(*LogBatch))
	return nil
}

func (p *capturePublisher) snapshot() []*LogBatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*LogBatch(nil), p.batches...)
}

func TestLogCollector_DedupsAndFlushesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		Service:        "finverdict",
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "logs",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		c.AddLog("error", "price fetch failed", map[string]interface{}{"symbol": "AAPL"}, "a.go:1")
	}
	c.AddLog("error", "price fetch failed", map[string]interface{}{"symbol": "MSFT"}, "a.go:1")
	c.Close()

	batches := pub.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"logs"}, pub.topics)
	assert.Equal(t, "finverdict", batches[0].Service)
	require.Len(t, batches[0].Entries, 2)

	counts := map[interface{}]int{}
	for _, e := range batches[0].Entries {
		counts[e.Fields["symbol"]] = e.Count
	}
	assert.Equal(t, 3, counts["AAPL"])
	assert.Equal(t, 1, counts["MSFT"])
}

func TestLogCollector_ThresholdFlush(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "logs", Publisher: pub})

	c.AddLog("error", "a", nil, "x")
	c.AddLog("error", "b", nil, "x")
	c.Close()

	batches := pub.snapshot()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].Entries, 2)
}

func TestLogger_ErrorFeedsCollector(t *testing.T) {
	pub := &capturePublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})

	l.Info("ignored")
	l.Warn("ignored")
	l.Error("boom", String("symbol", "AAPL"), Error(errors.New("down")))
	l.RemoveCollector()

	batches := pub.snapshot()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Entries, 1)
	e := batches[0].Entries[0]
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, "AAPL", e.Fields["symbol"])
	assert.Equal(t, "down", e.Fields["error"])
}

func TestLogger_FieldValues(t *testing.T) {
	pub := &capturePublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})

	l.With(Bool("cached", false)).Error("refresh stalled",
		Int64("dead_letters", 3),
		Any("errors", map[string]string{"AAPL": "news: timeout"}),
		Duration("elapsed", 1500*time.Millisecond))
	l.RemoveCollector()

	batches := pub.snapshot()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Entries, 1)
	fields := batches[0].Entries[0].Fields
	assert.Equal(t, int64(3), fields["dead_letters"])
	assert.Equal(t, map[string]string{"AAPL": "news: timeout"}, fields["errors"])
	assert.Equal(t, int64(1500), fields["elapsed"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
