package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/pkg/cache"
	applogger "FinDash/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledSnapshot() (models.Snapshot, models.CycleReport) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		Dataset: models.Dataset{
			Currencies:       make([]models.ExchangeRate, 3),
			Cryptocurrencies: make([]models.CryptoAsset, 2),
			News:             make([]models.NewsArticle, 1),
			MarketSummary: models.MarketSummary{
				TopGainer:      models.Mover{Name: "Euro", Change: 1.5, Type: models.AssetCurrency},
				TopLoser:       models.Mover{Name: "Bitcoin", Change: -2, Type: models.AssetCrypto},
				TotalMarketCap: 1e12,
			},
		},
		CycleID:   42,
		UpdatedAt: at,
		Sources: map[models.Category]models.Source{
			models.CategoryCurrencies: models.SourceLive,
			models.CategoryCrypto:     models.SourceLive,
			models.CategoryCompanies:  models.SourceFallback,
			models.CategoryNews:       models.SourceFallback,
		},
	}
	report := models.CycleReport{
		CycleID: 42,
		Outcome: models.OutcomeSettled,
		Sources: snap.Sources,
		Errors:  map[models.Category]string{models.CategoryCompanies: "timeout"},
	}
	return snap, report
}

type execCall struct {
	query string
	args  []any
}

type fakeDB struct {
	execs   []execCall
	execErr error
}

func (f *fakeDB) ExecContext(_ context.Context, q string, args ...any) (sql.Result, error) {
	f.execs = append(f.execs, execCall{q, args})
	return nil, f.execErr
}

func (f *fakeDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("connection reset")
}

func TestSummaryPointFrom(t *testing.T) {
	snap, _ := settledSnapshot()
	p := SummaryPointFrom(snap)

	assert.Equal(t, uint64(42), p.CycleID)
	assert.Equal(t, snap.UpdatedAt, p.At)
	assert.Equal(t, "Euro", p.TopGainer.Name)
	assert.Equal(t, 2, p.LiveCategories)
}

func TestCHHistoryStore_Append(t *testing.T) {
	db := &fakeDB{}
	s := &CHHistoryStore{db: db, l: applogger.Nop()}
	snap, _ := settledSnapshot()

	require.NoError(t, s.Append(context.Background(), SummaryPointFrom(snap)))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].query, "INSERT INTO summary_history")
	assert.Len(t, db.execs[0].args, 11)
	assert.Equal(t, uint64(42), db.execs[0].args[0])
	assert.Equal(t, "currency", db.execs[0].args[4])
	assert.Equal(t, uint8(2), db.execs[0].args[10])

	db.execErr = errors.New("table missing")
	assert.ErrorContains(t, s.Append(context.Background(), models.SummaryPoint{}), "table missing")
}

func TestCHHistoryStore_RangeQueryError(t *testing.T) {
	s := &CHHistoryStore{db: &fakeDB{}, l: applogger.Nop()}
	_, err := s.Range(context.Background(), time.Now().Add(-time.Hour), time.Now(), 0)
	assert.ErrorContains(t, err, "connection reset")
}

func TestHistoryLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, historyLimit(0))
	assert.Equal(t, 10, historyLimit(10))
	assert.Equal(t, maxHistoryLimit, historyLimit(1e6))
}

type memHistory struct{ points []models.SummaryPoint }

func (m *memHistory) Init(context.Context) error { return nil }
func (m *memHistory) Close() error               { return nil }
func (m *memHistory) Append(_ context.Context, p models.SummaryPoint) error {
	m.points = append(m.points, p)
	return nil
}
func (m *memHistory) Range(context.Context, time.Time, time.Time, int) ([]models.SummaryPoint, error) {
	return m.points, nil
}

func TestHistorySink_OnlySettledCycles(t *testing.T) {
	h := &memHistory{}
	sink := NewHistorySink(h)
	snap, report := settledSnapshot()

	require.NoError(t, sink.OnSettled(context.Background(), snap, report))
	report.Outcome = models.OutcomeExhausted
	require.NoError(t, sink.OnSettled(context.Background(), snap, report))

	require.Len(t, h.points, 1)
	assert.Equal(t, uint64(42), h.points[0].CycleID)
}

type capturePublisher struct {
	topic string
	key   []byte
	value interface{}
	err   error
}

func (c *capturePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	c.topic, c.key, c.value = topic, key, value
	return c.err
}

func (c *capturePublisher) Close() error { return nil }

func TestEventSink_PublishesCycleEvent(t *testing.T) {
	cp := &capturePublisher{}
	sink := NewEventSink(NewKafkaEventPublisher(cp, "findash.cycles"))
	id := uuid.MustParse("7f1c2a4e-93a1-4f55-9c39-2f6a0e1d8b11")
	sink.newID = func() uuid.UUID { return id }
	sink.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC) }

	snap, report := settledSnapshot()
	require.NoError(t, sink.OnSettled(context.Background(), snap, report))

	assert.Equal(t, "findash.cycles", cp.topic)
	assert.Equal(t, "42", string(cp.key))

	ev, ok := cp.value.(models.CycleEvent)
	require.True(t, ok)
	assert.Equal(t, id, ev.EventID)
	assert.Equal(t, 3, ev.Counts[models.CategoryCurrencies])
	assert.Equal(t, 0, ev.Counts[models.CategoryCompanies])
	assert.Equal(t, "timeout", ev.Errors[models.CategoryCompanies])

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"eventId":"7f1c2a4e-93a1-4f55-9c39-2f6a0e1d8b11"`)
	assert.Contains(t, string(b), `"currencies":"live"`)
}

func TestEventSink_PublishError(t *testing.T) {
	cp := &capturePublisher{err: errors.New("broker down")}
	sink := NewEventSink(NewKafkaEventPublisher(cp, "t"))
	snap, report := settledSnapshot()
	assert.EqualError(t, sink.OnSettled(context.Background(), snap, report), "broker down")
}

func TestCacheInvalidationSink(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "query:1:crypto:x", 1, time.Minute))
	require.NoError(t, mem.Set(ctx, "other", 1, time.Minute))

	sink := NewCacheInvalidationSink(mem, "query:*")
	snap, report := settledSnapshot()
	require.NoError(t, sink.OnSettled(ctx, snap, report))

	var v int
	assert.ErrorIs(t, mem.Get(ctx, "query:1:crypto:x", &v), cache.ErrCacheMiss)
	assert.NoError(t, mem.Get(ctx, "other", &v))
}
