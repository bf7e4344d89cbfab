// Package fallback produces the network-independent dataset used to seed every refresh cycle.
package fallback

import (
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/summary"
)

// Generator jitters the reference tables on every call. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

type Option func(*Generator)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns a fully populated dataset. It never fails and touches no network.
func (g *Generator) Generate() models.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	d := models.Dataset{
		Currencies:       g.currencies(),
		Cryptocurrencies: g.crypto(),
		Companies:        g.companies(),
		News:             g.news(),
	}
	d.MarketSummary = summary.Compute(d)
	return d
}

// Currencies returns only the currency slice, used by the live path for names and symbols.
func (g *Generator) Currencies() []models.ExchangeRate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currencies()
}

func (g *Generator) Companies() []models.CompanyShare {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.companies()
}

func (g *Generator) News() []models.NewsArticle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.news()
}

// centered returns a value in [-0.5, 0.5).
func (g *Generator) centered() float64 { return g.rnd.Float64() - 0.5 }

func (g *Generator) currencies() []models.ExchangeRate {
	out := make([]models.ExchangeRate, 0, len(currencyTable))
	for _, c := range currencyTable {
		perUSD := c.perUSD + g.centered()*0.01
		rate := models.InvertRate(perUSD)
		if rate == 0 {
			rate = models.InvertRate(c.perUSD)
		}
		out = append(out, models.ExchangeRate{
			Code:          c.code,
			Name:          c.name,
			Rate:          rate,
			Change:        c.change + g.centered()*0.005,
			ChangePercent: c.pctChg + g.centered()*0.5,
			Symbol:        c.symbol,
		})
	}
	return out
}

func (g *Generator) crypto() []models.CryptoAsset {
	out := make([]models.CryptoAsset, 0, len(cryptoTable))
	for _, c := range cryptoTable {
		factor := 1 + g.centered()*0.1
		out = append(out, models.CryptoAsset{
			ID:               c.id,
			Name:             c.name,
			Symbol:           c.symbol,
			Price:            c.price * factor,
			MarketCap:        c.marketCap * factor,
			Change24h:        g.centered() * c.price * 0.1,
			ChangePercent24h: g.centered() * 10,
			Volume24h:        c.marketCap * (0.1 + g.rnd.Float64()*0.3),
			Rank:             c.rank,
		})
	}
	return out
}

func (g *Generator) companies() []models.CompanyShare {
	out := make([]models.CompanyShare, 0, len(companyTable))
	for _, c := range companyTable {
		variation := g.centered() * 0.1
		price := c.price * (1 + variation)
		change := g.centered() * 20
		out = append(out, models.CompanyShare{
			ID:            c.symbol,
			Name:          c.name,
			Symbol:        c.symbol,
			Price:         price,
			MarketCap:     c.capBillions * 1e9 * (1 + variation),
			Change:        change,
			ChangePercent: change / price * 100,
			Volume:        math.Floor(g.rnd.Float64()*1e8) + 1e7,
			Sector:        c.sector,
		})
	}
	return out
}

func (g *Generator) news() []models.NewsArticle {
	now := g.now().UTC()
	out := make([]models.NewsArticle, 0, len(newsTable))
	for i, n := range newsTable {
		out = append(out, models.NewsArticle{
			ID:          strconv.Itoa(i + 1),
			Title:       n.title,
			Summary:     n.summary,
			Source:      n.source,
			PublishedAt: now.Add(-time.Duration(n.ageHours) * time.Hour),
			URL:         "#",
			Category:    n.category,
		})
	}
	return out
}
