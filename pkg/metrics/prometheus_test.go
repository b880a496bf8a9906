package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordVerdict("AAPL", "BUY")
	r.RecordVerdict("AAPL", "BUY")
	r.RecordError("news")
	r.RecordLastPrice("AAPL", 187.5)
	r.RecordChunkFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.verdicts.WithLabelValues("AAPL", "BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("news")))
	assert.Equal(t, 187.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.chunkFailures))
}
