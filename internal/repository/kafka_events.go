package repository

import (
	"context"
	"strconv"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"

	"github.com/google/uuid"
)

// messagePublisher is satisfied by *pkg/kafka.Producer.
type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher writes cycle events keyed by cycle id.
type KafkaEventPublisher struct {
	producer messagePublisher
	topic    string
}

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(producer messagePublisher, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishCycle(ctx context.Context, ev models.CycleEvent) error {
	key := []byte(strconv.FormatUint(ev.CycleID, 10))
	return p.producer.Publish(ctx, p.topic, key, ev)
}

func (p *KafkaEventPublisher) Close() error { return p.producer.Close() }

// EventSink turns every delivered cycle into a CycleEvent.
type EventSink struct {
	pub   domrepo.EventPublisher
	newID func() uuid.UUID
	now   func() time.Time
}

func NewEventSink(pub domrepo.EventPublisher) *EventSink {
	return &EventSink{pub: pub, newID: uuid.New, now: time.Now}
}

func (s *EventSink) Name() string { return "events" }

func (s *EventSink) OnSettled(ctx context.Context, snap models.Snapshot, report models.CycleReport) error {
	return s.pub.PublishCycle(ctx, CycleEventFrom(s.newID(), s.now(), snap, report))
}

func CycleEventFrom(id uuid.UUID, at time.Time, snap models.Snapshot, report models.CycleReport) models.CycleEvent {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = snap.Len(c)
	}
	return models.CycleEvent{
		EventID:   id,
		CycleID:   report.CycleID,
		Outcome:   report.Outcome,
		Sources:   report.Sources,
		Counts:    counts,
		Summary:   snap.MarketSummary,
		Errors:    report.Errors,
		SettledAt: at.UTC(),
	}
}
