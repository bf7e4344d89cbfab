package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	pkgch "FinDash/pkg/clickhouse"
	applogger "FinDash/pkg/logger"
)

const (
	historyTable        = "summary_history"
	defaultHistoryLimit = 500
	maxHistoryLimit     = 5000
)

// HistorySchema is the DDL applied by Init.
var HistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS summary_history (
        cycle_id           UInt64,
        at                 DateTime64(3, 'UTC'),
        top_gainer_name    String,
        top_gainer_change  Float64,
        top_gainer_type    LowCardinality(String),
        top_loser_name     String,
        top_loser_change   Float64,
        top_loser_type     LowCardinality(String),
        total_market_cap   Float64,
        market_cap_change  Float64,
        live_categories    UInt8
    ) ENGINE = MergeTree
    ORDER BY at
    TTL toDateTime(at) + INTERVAL 90 DAY`,
}

// sqlDB is the part of *sql.DB the store uses.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CHHistoryStore implements HistoryStore backed by ClickHouse.
type CHHistoryStore struct {
	db     sqlDB
	client *pkgch.Client
	l      *applogger.Logger
}

var _ domrepo.HistoryStore = (*CHHistoryStore)(nil)

func NewCHHistoryStore(ch *pkgch.Client, l *applogger.Logger) *CHHistoryStore {
	return &CHHistoryStore{db: ch.DB(), client: ch, l: l}
}

func (s *CHHistoryStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, HistorySchema)
}

func (s *CHHistoryStore) Append(ctx context.Context, p models.SummaryPoint) error {
	const q = `INSERT INTO summary_history (cycle_id, at, top_gainer_name, top_gainer_change, top_gainer_type,
        top_loser_name, top_loser_change, top_loser_type, total_market_cap, market_cap_change, live_categories)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.CycleID,
		p.At.UTC(),
		p.TopGainer.Name, p.TopGainer.Change, string(p.TopGainer.Type),
		p.TopLoser.Name, p.TopLoser.Change, string(p.TopLoser.Type),
		p.TotalMarketCap,
		p.MarketCapChange,
		uint8(p.LiveCategories),
	)
	if err != nil {
		return fmt.Errorf("insert summary point: %w", err)
	}
	return nil
}

// Range returns points in [from, to], oldest first. limit <= 0 means the default.
func (s *CHHistoryStore) Range(ctx context.Context, from, to time.Time, limit int) ([]models.SummaryPoint, error) {
	start := time.Now()
	limit = historyLimit(limit)

	const q = `
        SELECT cycle_id, at, top_gainer_name, top_gainer_change, top_gainer_type,
               top_loser_name, top_loser_change, top_loser_type,
               total_market_cap, market_cap_change, live_categories
        FROM summary_history
        WHERE at >= ? AND at <= ?
        ORDER BY at ASC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, from.UTC(), to.UTC(), limit)
	if err != nil {
		s.l.Error("clickhouse summary_history query error", applogger.Error(err))
		return nil, fmt.Errorf("query summary history: %w", err)
	}
	defer rows.Close()

	out := make([]models.SummaryPoint, 0, 64)
	for rows.Next() {
		var (
			p          models.SummaryPoint
			gType      string
			lType      string
			liveCounts uint8
		)
		if err := rows.Scan(&p.CycleID, &p.At,
			&p.TopGainer.Name, &p.TopGainer.Change, &gType,
			&p.TopLoser.Name, &p.TopLoser.Change, &lType,
			&p.TotalMarketCap, &p.MarketCapChange, &liveCounts); err != nil {
			return nil, fmt.Errorf("scan summary point: %w", err)
		}
		p.TopGainer.Type = models.AssetType(gType)
		p.TopLoser.Type = models.AssetType(lType)
		p.LiveCategories = int(liveCounts)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse summary_history ok",
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}

func (s *CHHistoryStore) Close() error { return s.client.Close() }

func historyLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}

// SummaryPointFrom flattens a settled snapshot into a history row.
func SummaryPointFrom(snap models.Snapshot) models.SummaryPoint {
	live := 0
	for _, src := range snap.Sources {
		if src == models.SourceLive {
			live++
		}
	}
	return models.SummaryPoint{
		CycleID:         snap.CycleID,
		At:              snap.UpdatedAt,
		TopGainer:       snap.MarketSummary.TopGainer,
		TopLoser:        snap.MarketSummary.TopLoser,
		TotalMarketCap:  snap.MarketSummary.TotalMarketCap,
		MarketCapChange: snap.MarketSummary.MarketCapChange,
		LiveCategories:  live,
	}
}

// HistorySink appends one point per settled cycle.
type HistorySink struct {
	store domrepo.HistoryStore
}

func NewHistorySink(store domrepo.HistoryStore) *HistorySink { return &HistorySink{store: store} }

func (s *HistorySink) Name() string { return "history" }

func (s *HistorySink) OnSettled(ctx context.Context, snap models.Snapshot, report models.CycleReport) error {
	if report.Outcome != models.OutcomeSettled {
		return nil
	}
	return s.store.Append(ctx, SummaryPointFrom(snap))
}
