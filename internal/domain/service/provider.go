package service

import (
	"context"

	"FinDash/internal/domain/models"
)

// DataProvider produces the fallback dataset and the four live fetches.
// Live fetches return an *models.UpstreamError on failure and never fall back themselves.
type DataProvider interface {
	GenerateFallback() models.Dataset
	FetchLiveCurrencies(ctx context.Context) ([]models.ExchangeRate, error)
	FetchLiveCrypto(ctx context.Context) ([]models.CryptoAsset, error)
	FetchLiveCompanies(ctx context.Context) ([]models.CompanyShare, error)
	FetchLiveNews(ctx context.Context) ([]models.NewsArticle, error)
}

// CurrencySource fetches exchange rates from one upstream.
type CurrencySource interface {
	Name() string
	FetchCurrencies(ctx context.Context) ([]models.ExchangeRate, error)
}

// CryptoSource fetches crypto assets from one upstream.
type CryptoSource interface {
	Name() string
	FetchCrypto(ctx context.Context) ([]models.CryptoAsset, error)
}
