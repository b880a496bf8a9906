package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"FinVerdict/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshPayload struct {
	Symbol string `json:"symbol"`
}

type funcJob struct {
	typ    string
	handle func(ctx context.Context, payload []byte) error
}

func (j *funcJob) Name() string { return j.typ + "-job" }
func (j *funcJob) Type() string { return j.typ }
func (j *funcJob) Handle(ctx context.Context, payload []byte) error {
	return j.handle(ctx, payload)
}

func newTestQueue(t *testing.T, cfg *QueueConfig) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQueue(logger.Nop(), cfg, client, WithKeyPrefix("test:queue")), mr
}

func stopQueue(t *testing.T, q *RedisQueue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
}

func TestEnqueue_UnknownType(t *testing.T) {
	q, _ := newTestQueue(t, nil)
	err := q.Enqueue(context.Background(), "missing", refreshPayload{})
	assert.Error(t, err)
}

func TestRedisQueue_DeliversPayload(t *testing.T) {
	q, _ := newTestQueue(t, &QueueConfig{Workers: 2})

	got := make(chan string, 1)
	q.RegisterJob(&funcJob{typ: "refresh", handle: func(_ context.Context, payload []byte) error {
		p, err := ParsePayload[refreshPayload](payload)
		if err != nil {
			return err
		}
		got <- p.Symbol
		return nil
	}})

	require.NoError(t, q.Start())
	defer stopQueue(t, q)

	require.NoError(t, q.Enqueue(context.Background(), "refresh", refreshPayload{Symbol: "AAPL"}))

	select {
	case sym := <-got:
		assert.Equal(t, "AAPL", sym)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not handled")
	}
}

func TestRedisQueue_RetryThenDeadLetter(t *testing.T) {
	q, _ := newTestQueue(t, &QueueConfig{
		Workers:      1,
		RetryLimit:   1,
		RetryDelay:   time.Millisecond,
		PollInterval: 50 * time.Millisecond,
	})

	var calls int32
	q.RegisterJob(&funcJob{typ: "refresh", handle: func(context.Context, []byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("upstream down")
	}})

	require.NoError(t, q.Start())
	defer stopQueue(t, q)

	require.NoError(t, q.Enqueue(context.Background(), "refresh", refreshPayload{Symbol: "MSFT"}))

	assert.Eventually(t, func() bool {
		n, err := q.DeadLetters(context.Background())
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRedisQueue_StartTwice(t *testing.T) {
	q, _ := newTestQueue(t, nil)
	require.NoError(t, q.Start())
	defer stopQueue(t, q)
	assert.Error(t, q.Start())
}

func TestRedisQueue_StartUnreachable(t *testing.T) {
	q, mr := newTestQueue(t, nil)
	mr.Close()
	assert.Error(t, q.Start())
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload[refreshPayload]([]byte(`{"symbol":"TSLA"}`))
	require.NoError(t, err)
	assert.Equal(t, "TSLA", p.Symbol)

	_, err = ParsePayload[refreshPayload]([]byte(`{`))
	assert.Error(t, err)
}
