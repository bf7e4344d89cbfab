package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	topics  []string
	batches [][]AggregatedLogEntry
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *recordingPublisher) entries() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestLogCollector_DeduplicatesAndFlushesOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "logs",
		Service:        "findash",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"source": "coingecko"}
	c.AddLog("error", "upstream failed", fields, "usecase/orchestrator.go:10")
	c.AddLog("error", "upstream failed", fields, "usecase/orchestrator.go:10")
	c.AddLog("error", "other", nil, "x.go:1")
	assert.Equal(t, 2, c.Pending())

	c.Close()

	got := pub.entries()
	require.Len(t, got, 2)
	counts := map[string]int{}
	for _, e := range got {
		counts[e.Message] = e.Count
		assert.Equal(t, "findash", e.Service)
	}
	assert.Equal(t, 2, counts["upstream failed"])
	assert.Equal(t, 1, counts["other"])
	assert.Equal(t, []string{"logs"}, pub.topics)
}

func TestLogCollector_FlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "a", nil, "")
	c.AddLog("error", "b", nil, "")

	assert.Eventually(t, func() bool { return len(pub.entries()) == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Pending())
}

func TestLogger_ErrorFeedsCollector(t *testing.T) {
	pub := &recordingPublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Publisher: pub})

	l.Error("cycle failed", String("cycle", "7"))
	l.Warn("ignored by collector")
	l.RemoveCollector()

	got := pub.entries()
	require.Len(t, got, 1)
	assert.Equal(t, "cycle failed", got[0].Message)
	assert.Equal(t, "7", got[0].Fields["cycle"])
}
