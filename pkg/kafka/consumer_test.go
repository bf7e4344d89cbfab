package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	applogger "FinDash/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetMetricsRegisterer(prometheus.NewRegistry())
}

type fakeReader struct {
	mu        sync.Mutex
	msgs      chan kafka.Message
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	ch := make(chan kafka.Message, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	return &fakeReader{msgs: ch}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type funcHandler struct {
	topic string
	fn    func(context.Context, []byte) error
}

func (h funcHandler) Topic() string                               { return h.topic }
func (h funcHandler) Handle(ctx context.Context, b []byte) error { return h.fn(ctx, b) }

func newTestConsumer(t *testing.T, r *fakeReader) *Consumer {
	t.Helper()
	c, err := NewConsumer(applogger.Nop(),
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(2, time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)
	c.newReader = func(string) messageReader { return r }
	return c
}

func TestConsumer_HandlesAndCommitsInOrder(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Offset: 1, Value: []byte("a")},
		kafka.Message{Offset: 2, Value: []byte("b")},
	)
	c := newTestConsumer(t, r)

	var mu sync.Mutex
	var seen []string
	c.RegisterHandler(funcHandler{topic: "refresh", fn: func(_ context.Context, b []byte) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(b))
		return nil
	}})

	require.NoError(t, c.Start(context.Background()))
	assert.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []int64{1, 2}, r.commits())
	assert.True(t, r.closed)
}

func TestConsumer_RetriesThenCommits(t *testing.T) {
	r := newFakeReader(kafka.Message{Offset: 7, Value: []byte("x")})
	c := newTestConsumer(t, r)

	var mu sync.Mutex
	attempts := 0
	c.RegisterHandler(funcHandler{topic: "refresh", fn: func(context.Context, []byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return fmt.Errorf("boom %d", attempts)
	}})

	require.NoError(t, c.Start(context.Background()))
	assert.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts, "first try plus RetryMax retries")
}

func TestConsumer_PermanentErrorIsNotRetried(t *testing.T) {
	c := newTestConsumer(t, newFakeReader())
	calls := 0
	h := funcHandler{topic: "t", fn: func(context.Context, []byte) error {
		calls++
		return fmt.Errorf("bad payload: %w", ErrPermanent)
	}}

	err := c.process(context.Background(), h, kafka.Message{})
	assert.True(t, errors.Is(err, ErrPermanent))
	assert.Equal(t, 1, calls)
}

func TestConsumer_HandlerPanicBecomesError(t *testing.T) {
	c := newTestConsumer(t, newFakeReader())
	h := funcHandler{topic: "t", fn: func(context.Context, []byte) error { panic("nil map") }}

	err := c.process(context.Background(), h, kafka.Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestTraceHook(t *testing.T) {
	ctx, err := TraceHook().BeforeHandle(context.Background(), kafka.Message{
		Headers: []kafka.Header{{Key: "trace_id", Value: []byte("abc")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", TraceID(ctx))
}

func TestBackoffWithJitter_Bounds(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 100*time.Millisecond)
	}
}
