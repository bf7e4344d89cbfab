// Package summary derives the market summary from a dataset.
package summary

import (
	"FinDash/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Compute derives the summary from d. The gainer and loser are picked among at most three
// candidates: the top mover of each asset class by its percent change field. It never
// sorts or mutates d.
func Compute(d models.Dataset) models.MarketSummary {
	candidates := Candidates(d)

	s := models.MarketSummary{
		TopGainer: models.Mover{Name: "N/A", Type: models.AssetStock},
		TopLoser:  models.Mover{Name: "N/A", Type: models.AssetStock},
	}
	if len(candidates) > 0 {
		gainer, loser := candidates[0], candidates[0]
		for _, c := range candidates[1:] {
			if c.Change > gainer.Change {
				gainer = c
			}
			if c.Change < loser.Change {
				loser = c
			}
		}
		s.TopGainer, s.TopLoser = gainer, loser
	}

	total, change := marketCap(d)
	s.TotalMarketCap = total
	s.MarketCapChange = change
	return s
}

// Candidates returns the top-of-class item per asset class in currency, crypto, stock order.
// Classes with no items are skipped.
func Candidates(d models.Dataset) []models.Mover {
	out := make([]models.Mover, 0, 3)

	if i := argmax(len(d.Currencies), func(i int) float64 { return d.Currencies[i].ChangePercent }); i >= 0 && d.Currencies[i].Name != "" {
		out = append(out, models.Mover{Name: d.Currencies[i].Name, Change: d.Currencies[i].ChangePercent, Type: models.AssetCurrency})
	}
	if i := argmax(len(d.Cryptocurrencies), func(i int) float64 { return d.Cryptocurrencies[i].ChangePercent24h }); i >= 0 && d.Cryptocurrencies[i].Name != "" {
		out = append(out, models.Mover{Name: d.Cryptocurrencies[i].Name, Change: d.Cryptocurrencies[i].ChangePercent24h, Type: models.AssetCrypto})
	}
	if i := argmax(len(d.Companies), func(i int) float64 { return d.Companies[i].ChangePercent }); i >= 0 && d.Companies[i].Name != "" {
		out = append(out, models.Mover{Name: d.Companies[i].Name, Change: d.Companies[i].ChangePercent, Type: models.AssetStock})
	}
	return out
}

// argmax returns the first index holding the largest value, or -1 when n == 0.
func argmax(n int, val func(int) float64) int {
	best := -1
	for i := 0; i < n; i++ {
		if best < 0 || val(i) > val(best) {
			best = i
		}
	}
	return best
}

// marketCap sums crypto and company capitalisation and returns the cap-weighted
// mean percent change across both classes.
func marketCap(d models.Dataset) (float64, float64) {
	total := decimal.Zero
	weighted := decimal.Zero

	add := func(mcap, pct float64) {
		c := decimal.NewFromFloat(mcap)
		total = total.Add(c)
		weighted = weighted.Add(c.Mul(decimal.NewFromFloat(pct)))
	}
	for _, c := range d.Cryptocurrencies {
		add(c.MarketCap, c.ChangePercent24h)
	}
	for _, c := range d.Companies {
		add(c.MarketCap, c.ChangePercent)
	}

	if total.IsZero() {
		return 0, 0
	}
	change, _ := weighted.DivRound(total, 6).Float64()
	sum, _ := total.Float64()
	return sum, change
}
