package repository

import (
	"context"
	"time"

	"FinDash/internal/domain/models"
)

// SnapshotSink is notified after every settled cycle. Implementations must not
// block for long; errors are logged by the caller and never touch the snapshot.
type SnapshotSink interface {
	Name() string
	OnSettled(ctx context.Context, snap models.Snapshot, report models.CycleReport) error
}

// HistoryStore persists one summary point per settled cycle.
type HistoryStore interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, p models.SummaryPoint) error
	Range(ctx context.Context, from, to time.Time, limit int) ([]models.SummaryPoint, error)
	Close() error
}

// EventPublisher ships cycle events to the message bus.
type EventPublisher interface {
	PublishCycle(ctx context.Context, ev models.CycleEvent) error
	Close() error
}

type Metrics interface {
	RecordCycle(outcome string, seconds float64)
	RecordUpstream(source, result string, seconds float64)
	RecordCategory(category string, live bool, items int)
	RecordSinkError(sink string)
	RecordStaleDropped()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordCycle(string, float64)            {}
func (NoopMetrics) RecordUpstream(string, string, float64) {}
func (NoopMetrics) RecordCategory(string, bool, int)       {}
func (NoopMetrics) RecordSinkError(string)                 {}
func (NoopMetrics) RecordStaleDropped()                    {}
