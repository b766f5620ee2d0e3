package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tradedeck/backend/pkg/config"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	httpClient := httputil.New(&config.Config{}, logger.NewNop()).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), serverURL)
}

func quotePage(symbol string, price, changePct float64) string {
	return fmt.Sprintf(`<html><body>
		<fin-streamer data-symbol="%s" data-field="regularMarketPrice" data-value="%v">%v</fin-streamer>
		<fin-streamer data-symbol="%s" data-field="regularMarketChangePercent" data-value="%v">%v%%</fin-streamer>
	</body></html>`, symbol, price, price, symbol, changePct, changePct)
}

func TestFetchIndicators(t *testing.T) {
	pages := map[string]string{
		"/quote/DX-Y.NYB": quotePage("DX-Y.NYB", 103.42, 0.15),
		"/quote/^GSPC":    quotePage("^GSPC", 5634.61, -0.32),
		"/quote/^TNX":     quotePage("^TNX", 42.1, 1.2), // yield x10
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	values, err := newTestClient(server.URL).FetchIndicators(context.Background())
	if err != nil {
		t.Fatalf("FetchIndicators error: %v", err)
	}

	byName := make(map[string]float64, len(values))
	for _, v := range values {
		byName[v.Name] = v.Value
	}

	want := map[string]float64{
		"dxy":              103.42,
		"sp500":            5634.61,
		"sp500_change_pct": -0.32,
		"us10y":            4.21,
	}
	for name, wantValue := range want {
		got, ok := byName[name]
		if !ok {
			t.Errorf("indicator %s missing", name)
			continue
		}
		if math.Abs(got-wantValue) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, got, wantValue)
		}
	}
}

func TestFetchIndicatorsSkipsBrokenPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quote/^GSPC" {
			w.Write([]byte(quotePage("^GSPC", 5600, 0.1)))
			return
		}
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	values, err := newTestClient(server.URL).FetchIndicators(context.Background())
	if err != nil {
		t.Fatalf("FetchIndicators error: %v", err)
	}

	// Only the S&P page parsed; the batch still succeeds
	if len(values) != 2 {
		t.Errorf("expected 2 indicators from the surviving page, got %d", len(values))
	}
}

func TestFetchIndicatorsAllBroken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchIndicators(context.Background()); err == nil {
		t.Fatal("expected error when no quote could be scraped, got nil")
	}
}
