// Package feargreed fetches the crypto Fear & Greed index from
// alternative.me.
package feargreed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

const source = "alternative.me"

// Client handles communication with the alternative.me Fear & Greed API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Fear & Greed client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.alternative.me"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// fngResponse mirrors the /fng/ payload. Values come back as strings.
type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

// FetchIndex fetches the current Fear & Greed index (0-100).
func (c *Client) FetchIndex(ctx context.Context) (*contracts.IndicatorValue, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/fng/?limit=1")
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var fng fngResponse
	if err := json.Unmarshal(body, &fng); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(fng.Data) == 0 {
		return nil, fmt.Errorf("empty fear & greed response")
	}

	value, err := strconv.ParseFloat(fng.Data[0].Value, 64)
	if err != nil {
		return nil, fmt.Errorf("parse index value %q: %w", fng.Data[0].Value, err)
	}

	observedAt := time.Now().UTC()
	if ts, err := strconv.ParseInt(fng.Data[0].Timestamp, 10, 64); err == nil {
		observedAt = time.Unix(ts, 0).UTC()
	}

	c.logger.WithFields(map[string]interface{}{
		"value":          value,
		"classification": fng.Data[0].Classification,
	}).Debug("Fetched Fear & Greed index")

	return &contracts.IndicatorValue{
		Name:       "fear_greed_index",
		Value:      value,
		Source:     source,
		ObservedAt: observedAt,
	}, nil
}
