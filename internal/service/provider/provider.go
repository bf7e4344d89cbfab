// Package provider composes the fallback generator with the live upstream clients.
package provider

import (
	"context"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/internal/domain/service"
	"FinDash/internal/service/fallback"
	"FinDash/internal/service/upstream"
	"FinDash/pkg/logger"
)

// Provider implements service.DataProvider. Companies and news have no live source and
// always come from the generator.
type Provider struct {
	gen      *fallback.Generator
	currency service.CurrencySource
	crypto   service.CryptoSource
	log      *logger.Logger
	metrics  drepo.Metrics
}

var _ service.DataProvider = (*Provider)(nil)

func New(log *logger.Logger, m drepo.Metrics, gen *fallback.Generator, currency service.CurrencySource, crypto service.CryptoSource) *Provider {
	if m == nil {
		m = drepo.NoopMetrics{}
	}
	return &Provider{
		gen:      gen,
		currency: currency,
		crypto:   crypto,
		log:      log.With(logger.String("component", "provider")),
		metrics:  m,
	}
}

func (p *Provider) GenerateFallback() models.Dataset {
	return p.gen.Generate()
}

func (p *Provider) FetchLiveCurrencies(ctx context.Context) ([]models.ExchangeRate, error) {
	start := time.Now()
	out, err := p.currency.FetchCurrencies(ctx)
	upstream.Observe(p.metrics, p.currency.Name(), start, err)
	if err != nil {
		p.warn(p.currency.Name(), err)
		return nil, err
	}
	return out, nil
}

// FetchLiveCrypto delegates to the crypto source, which may itself chain a backup and
// record its own per-attempt metrics.
func (p *Provider) FetchLiveCrypto(ctx context.Context) ([]models.CryptoAsset, error) {
	out, err := p.crypto.FetchCrypto(ctx)
	if err != nil {
		p.warn(p.crypto.Name(), err)
		return nil, err
	}
	return out, nil
}

func (p *Provider) FetchLiveCompanies(ctx context.Context) ([]models.CompanyShare, error) {
	if err := ctx.Err(); err != nil {
		return nil, upstream.Classify("companies", err)
	}
	return p.gen.Companies(), nil
}

func (p *Provider) FetchLiveNews(ctx context.Context) ([]models.NewsArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, upstream.Classify("news", err)
	}
	return p.gen.News(), nil
}

func (p *Provider) warn(source string, err error) {
	p.log.Warn("live fetch failed",
		logger.String("source", source),
		logger.String("kind", models.KindOf(err)),
		logger.Error(err))
}
