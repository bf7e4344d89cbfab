package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/internal/domain/service"
	xhttp "FinDash/pkg/http"
	"FinDash/pkg/logger"
)

const (
	SourceCoinGecko = "coingecko"
	SourceCoinlore  = "coinlore"
)

type geckoItem struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	PriceChange24h           float64 `json:"price_change_24h"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	TotalVolume              float64 `json:"total_volume"`
	MarketCapRank            int     `json:"market_cap_rank"`
}

// CoinGeckoClient reads the coins/markets endpoint.
type CoinGeckoClient struct {
	client  *xhttp.Client
	url     string
	timeout time.Duration
	limit   int
}

func NewCoinGeckoClient(client *xhttp.Client, url string, timeout time.Duration, limit int) *CoinGeckoClient {
	return &CoinGeckoClient{client: client, url: url, timeout: timeout, limit: limit}
}

func (c *CoinGeckoClient) Name() string { return SourceCoinGecko }

func (c *CoinGeckoClient) FetchCrypto(ctx context.Context) ([]models.CryptoAsset, error) {
	var items []geckoItem
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{URL: c.url, Timeout: c.timeout}, &items)
	if err != nil {
		return nil, Classify(SourceCoinGecko, err)
	}
	if items == nil {
		return nil, Malformed(SourceCoinGecko, "response is not a list")
	}

	out := make([]models.CryptoAsset, 0, len(items))
	for _, it := range items {
		out = append(out, models.CryptoAsset{
			ID:               it.ID,
			Name:             it.Name,
			Symbol:           strings.ToUpper(it.Symbol),
			Price:            it.CurrentPrice,
			MarketCap:        it.MarketCap,
			Change24h:        it.PriceChange24h,
			ChangePercent24h: it.PriceChangePercentage24h,
			Volume24h:        it.TotalVolume,
			Rank:             it.MarketCapRank,
		})
	}
	return rankAndTruncate(out, c.limit), nil
}

// flexFloat decodes numbers sent either as JSON numbers or as numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type coinloreItem struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	NameID           string    `json:"nameid"`
	PriceUSD         flexFloat `json:"price_usd"`
	MarketCapUSD     flexFloat `json:"market_cap_usd"`
	PercentChange24h flexFloat `json:"percent_change_24h"`
	Volume24         flexFloat `json:"volume24"`
	Rank             flexFloat `json:"rank"`
}

type coinloreResponse struct {
	Data []coinloreItem `json:"data"`
}

// CoinloreClient reads the tickers endpoint, used when CoinGecko is down.
type CoinloreClient struct {
	client  *xhttp.Client
	url     string
	timeout time.Duration
	limit   int
}

func NewCoinloreClient(client *xhttp.Client, url string, timeout time.Duration, limit int) *CoinloreClient {
	return &CoinloreClient{client: client, url: url, timeout: timeout, limit: limit}
}

func (c *CoinloreClient) Name() string { return SourceCoinlore }

func (c *CoinloreClient) FetchCrypto(ctx context.Context) ([]models.CryptoAsset, error) {
	var resp coinloreResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{URL: c.url, Timeout: c.timeout}, &resp)
	if err != nil {
		return nil, Classify(SourceCoinlore, err)
	}
	if resp.Data == nil {
		return nil, Malformed(SourceCoinlore, "response has no data")
	}

	out := make([]models.CryptoAsset, 0, len(resp.Data))
	for _, it := range resp.Data {
		id := it.NameID
		if id == "" {
			id = it.ID
		}
		price := float64(it.PriceUSD)
		pct := float64(it.PercentChange24h)
		out = append(out, models.CryptoAsset{
			ID:               id,
			Name:             it.Name,
			Symbol:           strings.ToUpper(it.Symbol),
			Price:            price,
			MarketCap:        float64(it.MarketCapUSD),
			Change24h:        price * pct / 100,
			ChangePercent24h: pct,
			Volume24h:        float64(it.Volume24),
			Rank:             int(it.Rank),
		})
	}
	return rankAndTruncate(out, c.limit), nil
}

// rankAndTruncate orders by market cap descending, keeps limit items and fills missing
// or duplicate ranks from position.
func rankAndTruncate(in []models.CryptoAsset, limit int) []models.CryptoAsset {
	sort.SliceStable(in, func(i, j int) bool { return in[i].MarketCap > in[j].MarketCap })
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	seen := make(map[int]bool, len(in))
	for i := range in {
		if in[i].Rank <= 0 || seen[in[i].Rank] {
			in[i].Rank = i + 1
		}
		seen[in[i].Rank] = true
	}
	return in
}

// CryptoChain tries the primary source and, on failure, the backup.
type CryptoChain struct {
	primary service.CryptoSource
	backup  service.CryptoSource
	log     *logger.Logger
	metrics drepo.Metrics
}

// NewCryptoChain builds a chain. backup may be nil.
func NewCryptoChain(log *logger.Logger, m drepo.Metrics, primary, backup service.CryptoSource) *CryptoChain {
	if m == nil {
		m = drepo.NoopMetrics{}
	}
	return &CryptoChain{primary: primary, backup: backup, log: log, metrics: m}
}

func (c *CryptoChain) Name() string { return "crypto" }

func (c *CryptoChain) FetchCrypto(ctx context.Context) ([]models.CryptoAsset, error) {
	start := time.Now()
	items, err := c.primary.FetchCrypto(ctx)
	Observe(c.metrics, c.primary.Name(), start, err)
	if err == nil {
		return items, nil
	}
	if c.backup == nil {
		return nil, err
	}

	c.log.Warn("primary crypto source failed, trying backup",
		logger.String("source", c.primary.Name()),
		logger.String("kind", models.KindOf(err)),
		logger.Error(err))

	start = time.Now()
	items, backupErr := c.backup.FetchCrypto(ctx)
	Observe(c.metrics, c.backup.Name(), start, backupErr)
	if backupErr != nil {
		return nil, fmt.Errorf("%w (primary: %v)", backupErr, err)
	}
	return items, nil
}
