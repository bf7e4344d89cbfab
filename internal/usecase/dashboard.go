package usecase

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/pkg/cache"
	"FinDash/pkg/logger"
	"FinDash/pkg/util"
)

var (
	ErrInvalidQuery    = errors.New("invalid query")
	ErrHistoryDisabled = errors.New("summary history is not configured")
)

// SnapshotSource is the read side of the orchestrator.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

type ListParams struct {
	Q        string
	Sort     string
	Order    string // asc or desc; empty means the field's natural order
	Limit    int
	Offset   int
	Sector   string // companies only
	Category string // news only
}

func (p ListParams) key() string {
	return fmt.Sprintf("q=%s|s=%s|o=%s|l=%d|off=%d|sec=%s|cat=%s",
		strings.ToLower(p.Q), p.Sort, p.Order, p.Limit, p.Offset, strings.ToLower(p.Sector), strings.ToLower(p.Category))
}

type ListResult[T any] struct {
	Rows   []T    `json:"rows"`
	Total  int    `json:"total"`
	Cycle  uint64 `json:"cycleId"`
	Source string `json:"source"`
}

// Dashboard answers list queries against the current snapshot. Results are cached per
// cycle, so a new cycle naturally misses.
type Dashboard struct {
	snaps   SnapshotSource
	cache   cache.Service
	ttl     time.Duration
	history drepo.HistoryStore
	log     *logger.Logger
}

// NewDashboard builds the query service. history may be nil when persistence is off.
func NewDashboard(log *logger.Logger, snaps SnapshotSource, c cache.Service, ttl time.Duration, history drepo.HistoryStore) *Dashboard {
	return &Dashboard{snaps: snaps, cache: c, ttl: ttl, history: history, log: log}
}

func (d *Dashboard) Snapshot() models.Snapshot { return d.snaps.Snapshot() }

func (d *Dashboard) Summary() models.MarketSummary { return d.snaps.Snapshot().MarketSummary }

func (d *Dashboard) Currencies(ctx context.Context, p ListParams) (ListResult[models.ExchangeRate], error) {
	snap := d.snaps.Snapshot()
	return cached(ctx, d, snap, models.CategoryCurrencies, p, func() (ListResult[models.ExchangeRate], error) {
		return query(snap.Currencies, p, currencyQuery)
	})
}

func (d *Dashboard) Crypto(ctx context.Context, p ListParams) (ListResult[models.CryptoAsset], error) {
	snap := d.snaps.Snapshot()
	return cached(ctx, d, snap, models.CategoryCrypto, p, func() (ListResult[models.CryptoAsset], error) {
		return query(snap.Cryptocurrencies, p, cryptoQuery)
	})
}

func (d *Dashboard) Companies(ctx context.Context, p ListParams) (ListResult[models.CompanyShare], error) {
	snap := d.snaps.Snapshot()
	return cached(ctx, d, snap, models.CategoryCompanies, p, func() (ListResult[models.CompanyShare], error) {
		return query(snap.Companies, p, companyQuery)
	})
}

func (d *Dashboard) News(ctx context.Context, p ListParams) (ListResult[models.NewsArticle], error) {
	snap := d.snaps.Snapshot()
	return cached(ctx, d, snap, models.CategoryNews, p, func() (ListResult[models.NewsArticle], error) {
		return query(snap.News, p, newsQuery)
	})
}

// History returns persisted summary points, newest last.
func (d *Dashboard) History(ctx context.Context, from, to time.Time, limit int) ([]models.SummaryPoint, error) {
	if d.history == nil {
		return nil, ErrHistoryDisabled
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidQuery)
	}
	return d.history.Range(ctx, from, to, limit)
}

// QueryCachePattern matches every cached list query.
const QueryCachePattern = "query:*"

// queryKey hashes the params so user input never reaches the key's glob syntax.
func queryKey(cycle uint64, cat models.Category, p ListParams) string {
	sum := sha256.Sum256([]byte(p.key()))
	return fmt.Sprintf("query:%d:%s:%x", cycle, cat, sum[:12])
}

func cached[T any](ctx context.Context, d *Dashboard, snap models.Snapshot, cat models.Category, p ListParams,
	load func() (ListResult[T], error)) (ListResult[T], error) {
	wrap := func() (ListResult[T], error) {
		res, err := load()
		if err != nil {
			return res, err
		}
		res.Cycle = snap.CycleID
		res.Source = string(snap.Sources[cat])
		return res, nil
	}
	// Mid-cycle snapshots are about to be replaced; skip the cache.
	if d.cache == nil || snap.IsLoading {
		return wrap()
	}
	return cache.GetOrLoad(ctx, d.cache, queryKey(snap.CycleID, cat, p), d.ttl, wrap)
}

type sortKey[T any] struct {
	num  func(T) float64
	str  func(T) string
	desc bool // natural order
}

type querySpec[T any] struct {
	match       func(T, string) bool
	filter      func(T, ListParams) bool
	keys        map[string]sortKey[T]
	defaultSort string
}

func query[T any](items []T, p ListParams, spec querySpec[T]) (ListResult[T], error) {
	field := p.Sort
	if field == "" {
		field = spec.defaultSort
	}
	key, ok := spec.keys[field]
	if !ok {
		return ListResult[T]{}, fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, p.Sort)
	}
	desc := key.desc
	switch p.Order {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return ListResult[T]{}, fmt.Errorf("%w: order must be asc or desc", ErrInvalidQuery)
	}

	q := strings.TrimSpace(p.Q)
	rows := make([]T, 0, len(items))
	for _, it := range items {
		if q != "" && !spec.match(it, q) {
			continue
		}
		if spec.filter != nil && !spec.filter(it, p) {
			continue
		}
		rows = append(rows, it)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		var c int
		if key.num != nil {
			a, b := key.num(rows[i]), key.num(rows[j])
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			}
		} else {
			c = strings.Compare(strings.ToLower(key.str(rows[i])), strings.ToLower(key.str(rows[j])))
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := len(rows)
	offset := util.Clamp(p.Offset, 0, total)
	end := total
	if p.Limit > 0 {
		end = util.Clamp(offset+p.Limit, offset, total)
	}
	return ListResult[T]{Rows: rows[offset:end], Total: total}, nil
}

var currencyQuery = querySpec[models.ExchangeRate]{
	match: func(r models.ExchangeRate, q string) bool {
		return util.ContainsFold(q, r.Code, r.Name)
	},
	keys: map[string]sortKey[models.ExchangeRate]{
		"code":          {str: func(r models.ExchangeRate) string { return r.Code }},
		"name":          {str: func(r models.ExchangeRate) string { return r.Name }},
		"rate":          {num: func(r models.ExchangeRate) float64 { return r.Rate }, desc: true},
		"change":        {num: func(r models.ExchangeRate) float64 { return r.Change }, desc: true},
		"changePercent": {num: func(r models.ExchangeRate) float64 { return r.ChangePercent }, desc: true},
	},
	defaultSort: "code",
}

var cryptoQuery = querySpec[models.CryptoAsset]{
	match: func(c models.CryptoAsset, q string) bool {
		return util.ContainsFold(q, c.Name, c.Symbol)
	},
	keys: map[string]sortKey[models.CryptoAsset]{
		"rank":             {num: func(c models.CryptoAsset) float64 { return float64(c.Rank) }},
		"name":             {str: func(c models.CryptoAsset) string { return c.Name }},
		"symbol":           {str: func(c models.CryptoAsset) string { return c.Symbol }},
		"price":            {num: func(c models.CryptoAsset) float64 { return c.Price }, desc: true},
		"marketCap":        {num: func(c models.CryptoAsset) float64 { return c.MarketCap }, desc: true},
		"changePercent24h": {num: func(c models.CryptoAsset) float64 { return c.ChangePercent24h }, desc: true},
		"volume24h":        {num: func(c models.CryptoAsset) float64 { return c.Volume24h }, desc: true},
	},
	defaultSort: "rank",
}

var companyQuery = querySpec[models.CompanyShare]{
	match: func(c models.CompanyShare, q string) bool {
		return util.ContainsFold(q, c.Name, c.Symbol)
	},
	filter: func(c models.CompanyShare, p ListParams) bool {
		return p.Sector == "" || strings.EqualFold(c.Sector, p.Sector)
	},
	keys: map[string]sortKey[models.CompanyShare]{
		"symbol":        {str: func(c models.CompanyShare) string { return c.Symbol }},
		"name":          {str: func(c models.CompanyShare) string { return c.Name }},
		"sector":        {str: func(c models.CompanyShare) string { return c.Sector }},
		"price":         {num: func(c models.CompanyShare) float64 { return c.Price }, desc: true},
		"marketCap":     {num: func(c models.CompanyShare) float64 { return c.MarketCap }, desc: true},
		"changePercent": {num: func(c models.CompanyShare) float64 { return c.ChangePercent }, desc: true},
		"volume":        {num: func(c models.CompanyShare) float64 { return c.Volume }, desc: true},
	},
	defaultSort: "marketCap",
}

var newsQuery = querySpec[models.NewsArticle]{
	match: func(n models.NewsArticle, q string) bool {
		return util.ContainsFold(q, n.Title, n.Summary, n.Source)
	},
	filter: func(n models.NewsArticle, p ListParams) bool {
		return p.Category == "" || strings.EqualFold(n.Category, p.Category)
	},
	keys: map[string]sortKey[models.NewsArticle]{
		"publishedAt": {num: func(n models.NewsArticle) float64 { return float64(n.PublishedAt.UnixNano()) }, desc: true},
		"title":       {str: func(n models.NewsArticle) string { return n.Title }},
		"source":      {str: func(n models.NewsArticle) string { return n.Source }},
	},
	defaultSort: "publishedAt",
}
