// Package yahoo scrapes macro indicators (dollar index, S&P 500, US 10Y
// yield) from Yahoo Finance quote pages. There is no free JSON API for these
// symbols, so the values are pulled out of the rendered page markup.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

const source = "yahoo"

// quote maps a Yahoo symbol to the indicator names it produces.
type quote struct {
	symbol     string
	priceName  string
	changeName string // empty when the change is not an indicator
	scalePrice float64
}

// trackedQuotes are the macro symbols the scores consume. ^TNX quotes the
// 10Y yield multiplied by 10, hence the scale factor.
var trackedQuotes = []quote{
	{symbol: "DX-Y.NYB", priceName: "dxy", scalePrice: 1},
	{symbol: "^GSPC", priceName: "sp500", changeName: "sp500_change_pct", scalePrice: 1},
	{symbol: "^TNX", priceName: "us10y", scalePrice: 0.1},
}

// Client scrapes Yahoo Finance quote pages.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance scraper.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// FetchIndicators scrapes all tracked quotes. A symbol that fails to parse
// is skipped with a warning rather than failing the whole batch, so one
// broken page does not block the remaining indicators.
func (c *Client) FetchIndicators(ctx context.Context) ([]contracts.IndicatorValue, error) {
	now := time.Now().UTC()

	var values []contracts.IndicatorValue
	for _, q := range trackedQuotes {
		parsed, err := c.fetchQuote(ctx, q, now)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", q.symbol).Warn("Skipping unparseable quote")
			continue
		}
		values = append(values, parsed...)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no quotes could be scraped")
	}

	c.logger.WithField("indicators", len(values)).Debug("Scraped Yahoo indicators")

	return values, nil
}

func (c *Client) fetchQuote(ctx context.Context, q quote, observedAt time.Time) ([]contracts.IndicatorValue, error) {
	url := fmt.Sprintf("%s/quote/%s", c.baseURL, q.symbol)

	resp, err := c.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Accept":     "text/html,application/xhtml+xml",
	})
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	price, err := streamerValue(doc, q.symbol, "regularMarketPrice")
	if err != nil {
		return nil, err
	}

	values := []contracts.IndicatorValue{{
		Name:       q.priceName,
		Value:      price * q.scalePrice,
		Source:     source,
		ObservedAt: observedAt,
	}}

	if q.changeName != "" {
		change, err := streamerValue(doc, q.symbol, "regularMarketChangePercent")
		if err != nil {
			c.logger.WithError(err).WithField("symbol", q.symbol).Warn("Change percent missing")
		} else {
			values = append(values, contracts.IndicatorValue{
				Name:       q.changeName,
				Value:      change,
				Source:     source,
				ObservedAt: observedAt,
			})
		}
	}

	return values, nil
}

// streamerValue extracts a numeric field from the quote page's fin-streamer
// elements. The data-value attribute carries the raw number; the rendered
// text is the formatted fallback.
func streamerValue(doc *goquery.Document, symbol, field string) (float64, error) {
	selector := fmt.Sprintf(`fin-streamer[data-symbol=%q][data-field=%q]`, symbol, field)

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("element %s not found", selector)
	}

	raw, ok := sel.Attr("data-value")
	if !ok {
		raw = sel.Text()
	}

	value, err := strconv.ParseFloat(cleanNumber(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return value, nil
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.Trim(s, "()")
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
