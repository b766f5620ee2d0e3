// Package coingecko fetches global crypto market indicators from the
// CoinGecko API: BTC price, 24h change, total volume and BTC dominance.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

const source = "coingecko"

// Client handles communication with the CoinGecko API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new CoinGecko client. apiKey may be empty; the free
// tier works without one at a lower rate limit.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// globalResponse mirrors the /global payload.
type globalResponse struct {
	Data struct {
		TotalVolume         map[string]float64 `json:"total_volume"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// simplePriceResponse mirrors the /simple/price payload.
type simplePriceResponse map[string]struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// FetchIndicators fetches the current market indicators in two API calls.
func (c *Client) FetchIndicators(ctx context.Context) ([]contracts.IndicatorValue, error) {
	now := time.Now().UTC()

	var global globalResponse
	if err := c.getJSON(ctx, c.baseURL+"/global", &global); err != nil {
		return nil, fmt.Errorf("fetch global data: %w", err)
	}

	var prices simplePriceResponse
	priceURL := c.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd&include_24hr_change=true"
	if err := c.getJSON(ctx, priceURL, &prices); err != nil {
		return nil, fmt.Errorf("fetch btc price: %w", err)
	}

	btc, ok := prices["bitcoin"]
	if !ok {
		return nil, fmt.Errorf("bitcoin missing from price response")
	}

	values := []contracts.IndicatorValue{
		{Name: "btc_price_usd", Value: btc.USD, Source: source, ObservedAt: now},
		{Name: "btc_change_24h_pct", Value: btc.USD24hChange, Source: source, ObservedAt: now},
	}

	if dominance, ok := global.Data.MarketCapPercentage["btc"]; ok {
		values = append(values, contracts.IndicatorValue{
			Name: "btc_dominance", Value: dominance, Source: source, ObservedAt: now,
		})
	}
	if volume, ok := global.Data.TotalVolume["usd"]; ok {
		values = append(values, contracts.IndicatorValue{
			Name: "total_volume_usd", Value: volume, Source: source, ObservedAt: now,
		})
	}

	c.logger.WithField("indicators", len(values)).Debug("Fetched CoinGecko indicators")

	return values, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers["x-cg-demo-api-key"] = c.apiKey
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, url, headers)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
