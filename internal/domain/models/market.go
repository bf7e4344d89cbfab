package models

import "time"

// ExchangeRate is USD value of one unit of Code. Rate is always > 0.
type ExchangeRate struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Rate          float64 `json:"rate"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Symbol        string  `json:"symbol"`
}

// CryptoAsset prices are in USD. Rank is 1-based and unique within a snapshot.
type CryptoAsset struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"marketCap"`
	Change24h        float64 `json:"change24h"`
	ChangePercent24h float64 `json:"changePercent24h"`
	Volume24h        float64 `json:"volume24h"`
	Rank             int     `json:"rank"`
}

type CompanyShare struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	MarketCap     float64 `json:"marketCap"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	Sector        string  `json:"sector"`
}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
}

type AssetType string

const (
	AssetCurrency AssetType = "currency"
	AssetCrypto   AssetType = "crypto"
	AssetStock    AssetType = "stock"
)

// Mover names the asset behind a summary extreme. Change is a percent.
type Mover struct {
	Name   string    `json:"name"`
	Change float64   `json:"change"`
	Type   AssetType `json:"type"`
}

// MarketSummary is derived from the other categories and never fetched.
type MarketSummary struct {
	TopGainer       Mover   `json:"topGainer"`
	TopLoser        Mover   `json:"topLoser"`
	TotalMarketCap  float64 `json:"totalMarketCap"`
	MarketCapChange float64 `json:"marketCapChange"`
}

// InvertRate converts an upstream "units per USD" quote into USD per unit.
// Non-positive quotes yield 0 so callers can drop them.
func InvertRate(perUSD float64) float64 {
	if perUSD <= 0 {
		return 0
	}
	return 1 / perUSD
}
