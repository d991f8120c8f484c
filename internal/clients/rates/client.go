// Package rates implements the external exchange rate feed client. The feed
// serves JSON shaped like the common frankfurter/exchangerate-host APIs:
//
//	{"base": "USD", "date": "2026-08-30", "rates": {"EUR": 0.92, "GBP": 0.79}}
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a feed client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ portssvc.RateSource = (*Client)(nil)

type feedResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRates pulls the latest quotes for the base currency and normalizes
// them. The quote date falls back to today when the feed omits it.
func (c *Client) FetchRates(ctx context.Context, baseCurrency string) ([]domain.NormalizedRate, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("rates feed URL is not configured")
	}

	reqURL := fmt.Sprintf("%s/latest?base=%s", c.baseURL, url.QueryEscape(baseCurrency))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode rates feed response: %w", err)
	}

	quoteDate := time.Now().UTC().Truncate(24 * time.Hour)
	if feed.Date != "" {
		if parsed, parseErr := time.Parse("2006-01-02", feed.Date); parseErr == nil {
			quoteDate = parsed
		}
	}

	normalized := make([]domain.NormalizedRate, 0, len(feed.Rates))
	for code, rate := range feed.Rates {
		normalized = append(normalized, domain.NormalizedRate{
			CurrencyCode: code,
			Rate:         rate,
			Date:         quoteDate,
		})
	}
	return normalized, nil
}
