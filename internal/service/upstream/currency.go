package upstream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/fallback"
	xhttp "FinDash/pkg/http"
)

const SourceExchangeRate = "exchangerate"

type currencyResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// CurrencyClient reads a USD-based "units per USD" rate table and inverts it.
type CurrencyClient struct {
	client  *xhttp.Client
	url     string
	timeout time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

type CurrencyOption func(*CurrencyClient)

// WithCurrencyRand fixes the source used for the simulated 24h change.
func WithCurrencyRand(r *rand.Rand) CurrencyOption {
	return func(c *CurrencyClient) { c.rnd = r }
}

func NewCurrencyClient(client *xhttp.Client, url string, timeout time.Duration, opts ...CurrencyOption) *CurrencyClient {
	c := &CurrencyClient{
		client:  client,
		url:     url,
		timeout: timeout,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *CurrencyClient) Name() string { return SourceExchangeRate }

// FetchCurrencies returns tracked currencies in display order. Codes the upstream does not
// quote, or quotes as non-positive, are skipped.
func (c *CurrencyClient) FetchCurrencies(ctx context.Context) ([]models.ExchangeRate, error) {
	var resp currencyResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{URL: c.url, Timeout: c.timeout}, &resp)
	if err != nil {
		return nil, Classify(SourceExchangeRate, err)
	}
	if resp.Rates == nil {
		return nil, Malformed(SourceExchangeRate, "response has no rates")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ExchangeRate, 0, len(resp.Rates))
	for _, code := range fallback.TrackedCurrencies() {
		perUSD, ok := resp.Rates[code]
		if !ok || perUSD <= 0 {
			continue
		}
		name, symbol, _ := fallback.CurrencyInfo(code)
		// The upstream carries no history; the 24h move is simulated.
		change := (c.rnd.Float64() - 0.5) * 0.02
		out = append(out, models.ExchangeRate{
			Code:          code,
			Name:          name,
			Rate:          models.InvertRate(perUSD),
			Change:        change,
			ChangePercent: change / perUSD * 100,
			Symbol:        symbol,
		})
	}
	return out, nil
}
