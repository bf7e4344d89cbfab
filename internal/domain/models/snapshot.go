package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one independently refreshed slice of the dashboard.
type Category string

const (
	CategoryCurrencies Category = "currencies"
	CategoryCrypto     Category = "crypto"
	CategoryCompanies  Category = "companies"
	CategoryNews       Category = "news"
)

// Categories lists every category in adoption order.
var Categories = []Category{CategoryCurrencies, CategoryCrypto, CategoryCompanies, CategoryNews}

// Source says where a category's current data came from.
type Source string

const (
	SourceFallback Source = "fallback"
	SourceLive     Source = "live"
)

// Dataset is a complete set of the five dashboard entities.
type Dataset struct {
	Currencies       []ExchangeRate `json:"currencies"`
	Cryptocurrencies []CryptoAsset  `json:"cryptocurrencies"`
	Companies        []CompanyShare `json:"companies"`
	News             []NewsArticle  `json:"news"`
	MarketSummary    MarketSummary  `json:"marketSummary"`
}

// Len returns the number of items in category c.
func (d Dataset) Len(c Category) int {
	switch c {
	case CategoryCurrencies:
		return len(d.Currencies)
	case CategoryCrypto:
		return len(d.Cryptocurrencies)
	case CategoryCompanies:
		return len(d.Companies)
	case CategoryNews:
		return len(d.News)
	}
	return 0
}

// Empty reports whether every category has zero items.
func (d Dataset) Empty() bool {
	for _, c := range Categories {
		if d.Len(c) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; callers may mutate it freely.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Currencies:       append([]ExchangeRate(nil), d.Currencies...),
		Cryptocurrencies: append([]CryptoAsset(nil), d.Cryptocurrencies...),
		Companies:        append([]CompanyShare(nil), d.Companies...),
		News:             append([]NewsArticle(nil), d.News...),
		MarketSummary:    d.MarketSummary,
	}
}

// Snapshot is the orchestrator's current state as seen by readers.
type Snapshot struct {
	Dataset
	IsLoading    bool                `json:"isLoading"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	CycleID      uint64              `json:"cycleId"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Sources      map[Category]Source `json:"sources"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Dataset = s.Dataset.Clone()
	out.Sources = make(map[Category]Source, len(s.Sources))
	for k, v := range s.Sources {
		out.Sources[k] = v
	}
	return out
}

// CycleOutcome classifies how a cycle ended.
type CycleOutcome string

const (
	OutcomeSettled    CycleOutcome = "settled"
	OutcomeExhausted  CycleOutcome = "exhausted"
	OutcomeSuperseded CycleOutcome = "superseded"
	OutcomeClosed     CycleOutcome = "closed"
)

// CycleReport describes one finished refresh cycle.
type CycleReport struct {
	CycleID  uint64              `json:"cycleId"`
	Outcome  CycleOutcome        `json:"outcome"`
	TimedOut bool                `json:"timedOut"`
	Sources  map[Category]Source `json:"sources"`
	Errors   map[Category]string `json:"errors,omitempty"`
	Started  time.Time           `json:"started"`
	Duration time.Duration       `json:"duration"`
}

// CycleEvent is published after every settled cycle.
type CycleEvent struct {
	EventID   uuid.UUID           `json:"eventId"`
	CycleID   uint64              `json:"cycleId"`
	Outcome   CycleOutcome        `json:"outcome"`
	Sources   map[Category]Source `json:"sources"`
	Counts    map[Category]int    `json:"counts"`
	Summary   MarketSummary       `json:"summary"`
	Errors    map[Category]string `json:"errors,omitempty"`
	SettledAt time.Time           `json:"settledAt"`
}

// SummaryPoint is one row of persisted summary history.
type SummaryPoint struct {
	CycleID         uint64    `json:"cycleId"`
	At              time.Time `json:"at"`
	TopGainer       Mover     `json:"topGainer"`
	TopLoser        Mover     `json:"topLoser"`
	TotalMarketCap  float64   `json:"totalMarketCap"`
	MarketCapChange float64   `json:"marketCapChange"`
	LiveCategories  int       `json:"liveCategories"`
}
