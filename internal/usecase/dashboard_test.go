package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/pkg/cache"
	"FinDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSnapshots struct{ snap models.Snapshot }

func (s *staticSnapshots) Snapshot() models.Snapshot { return s.snap.Clone() }

func dashboardSnapshot() models.Snapshot {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Snapshot{
		Dataset: models.Dataset{
			Currencies: []models.ExchangeRate{
				{Code: "GBP", Name: "Pound Sterling", Rate: 1.37, ChangePercent: -1},
				{Code: "EUR", Name: "Euro", Rate: 1.17, ChangePercent: 2},
				{Code: "JPY", Name: "Japanese Yen", Rate: 0.009, ChangePercent: 0.5},
			},
			Cryptocurrencies: []models.CryptoAsset{
				{ID: "ethereum", Name: "Ethereum", Symbol: "ETH", Rank: 2, MarketCap: 400},
				{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Rank: 1, MarketCap: 1000},
			},
			Companies: []models.CompanyShare{
				{Symbol: "JPM", Name: "JPMorgan Chase", Sector: "Financial Services", MarketCap: 450},
				{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", MarketCap: 2800},
				{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", MarketCap: 2500},
			},
			News: []models.NewsArticle{
				{ID: "1", Title: "Fed holds", Category: "Central Banking", PublishedAt: now.Add(-2 * time.Hour)},
				{ID: "2", Title: "Bitcoin high", Category: "Cryptocurrency", PublishedAt: now.Add(-time.Hour)},
			},
		},
		CycleID: 7,
		Sources: map[models.Category]models.Source{
			models.CategoryCurrencies: models.SourceLive,
			models.CategoryCrypto:     models.SourceFallback,
		},
	}
}

func newTestDashboard(c cache.Service) (*Dashboard, *staticSnapshots) {
	src := &staticSnapshots{snap: dashboardSnapshot()}
	return NewDashboard(logger.Nop(), src, c, time.Minute, nil), src
}

func TestDashboard_CurrenciesDefaultSortAndSearch(t *testing.T) {
	d, _ := newTestDashboard(nil)

	res, err := d.Currencies(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"EUR", "GBP", "JPY"}, codes(res.Rows))
	assert.Equal(t, uint64(7), res.Cycle)
	assert.Equal(t, "live", res.Source)

	res, err = d.Currencies(context.Background(), ListParams{Q: "pound"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GBP"}, codes(res.Rows))

	res, err = d.Currencies(context.Background(), ListParams{Sort: "changePercent"})
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "JPY", "GBP"}, codes(res.Rows), "numeric fields default to descending")

	res, err = d.Currencies(context.Background(), ListParams{Sort: "changePercent", Order: "asc", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"JPY", "EUR"}, codes(res.Rows))
}

func TestDashboard_FiltersAndDefaults(t *testing.T) {
	d, _ := newTestDashboard(nil)
	ctx := context.Background()

	crypto, err := d.Crypto(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", crypto.Rows[0].ID)
	assert.Equal(t, "fallback", crypto.Source)

	companies, err := d.Companies(ctx, ListParams{Sector: "technology"})
	require.NoError(t, err)
	require.Len(t, companies.Rows, 2)
	assert.Equal(t, "AAPL", companies.Rows[0].Symbol)

	news, err := d.News(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "2", news.Rows[0].ID, "newest first")

	news, err = d.News(ctx, ListParams{Category: "central banking"})
	require.NoError(t, err)
	require.Len(t, news.Rows, 1)
	assert.Equal(t, "1", news.Rows[0].ID)
}

func TestDashboard_InvalidQuery(t *testing.T) {
	d, _ := newTestDashboard(nil)

	_, err := d.Crypto(context.Background(), ListParams{Sort: "nope"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = d.Crypto(context.Background(), ListParams{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestDashboard_OffsetPastEnd(t *testing.T) {
	d, _ := newTestDashboard(nil)

	res, err := d.Companies(context.Background(), ListParams{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 3, res.Total)
}

func TestDashboard_CachesPerCycle(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	d, src := newTestDashboard(mem)
	ctx := context.Background()

	first, err := d.Currencies(ctx, ListParams{})
	require.NoError(t, err)

	// Same cycle: served from cache even though the underlying data moved.
	src.snap.Currencies = src.snap.Currencies[:1]
	cached, err := d.Currencies(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	src.snap.CycleID = 8
	fresh, err := d.Currencies(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Total)
	assert.Equal(t, uint64(8), fresh.Cycle)
}

func TestDashboard_LoadingSnapshotBypassesCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()
	d, src := newTestDashboard(mem)
	src.snap.IsLoading = true

	_, err := d.Currencies(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Zero(t, mem.Len())
}

type fakeHistory struct {
	points []models.SummaryPoint
	err    error
}

func (f *fakeHistory) Init(context.Context) error                        { return nil }
func (f *fakeHistory) Append(context.Context, models.SummaryPoint) error { return nil }
func (f *fakeHistory) Close() error                                      { return nil }
func (f *fakeHistory) Range(_ context.Context, from, to time.Time, limit int) ([]models.SummaryPoint, error) {
	return f.points, f.err
}

func TestDashboard_History(t *testing.T) {
	now := time.Now()
	d, _ := newTestDashboard(nil)
	_, err := d.History(context.Background(), now.Add(-time.Hour), now, 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	h := &fakeHistory{points: []models.SummaryPoint{{CycleID: 1}}}
	d = NewDashboard(logger.Nop(), &staticSnapshots{snap: dashboardSnapshot()}, nil, time.Minute, h)

	pts, err := d.History(context.Background(), now.Add(-time.Hour), now, 10)
	require.NoError(t, err)
	assert.Len(t, pts, 1)

	_, err = d.History(context.Background(), now, now.Add(-time.Hour), 10)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	h.err = errors.New("clickhouse down")
	_, err = d.History(context.Background(), now.Add(-time.Hour), now, 10)
	assert.EqualError(t, err, "clickhouse down")
}

func codes(rows []models.ExchangeRate) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Code
	}
	return out
}
