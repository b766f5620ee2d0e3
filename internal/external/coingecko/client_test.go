package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tradedeck/backend/pkg/config"
	"github.com/tradedeck/backend/pkg/httputil"
	"github.com/tradedeck/backend/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	httpClient := httputil.New(&config.Config{}, logger.NewNop()).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), serverURL, "test-key")
}

func TestFetchIndicators(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-cg-demo-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		switch r.URL.Path {
		case "/global":
			w.Write([]byte(`{"data":{"total_volume":{"usd":98000000000},"market_cap_percentage":{"btc":57.3,"eth":12.1}}}`))
		case "/simple/price":
			w.Write([]byte(`{"bitcoin":{"usd":64250.0,"usd_24h_change":-1.82}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	values, err := newTestClient(server.URL).FetchIndicators(context.Background())
	if err != nil {
		t.Fatalf("FetchIndicators error: %v", err)
	}

	byName := make(map[string]float64, len(values))
	for _, v := range values {
		if v.Source != "coingecko" {
			t.Errorf("source = %q, want coingecko", v.Source)
		}
		byName[v.Name] = v.Value
	}

	want := map[string]float64{
		"btc_price_usd":      64250.0,
		"btc_change_24h_pct": -1.82,
		"btc_dominance":      57.3,
		"total_volume_usd":   98000000000,
	}
	for name, wantValue := range want {
		if byName[name] != wantValue {
			t.Errorf("%s = %v, want %v", name, byName[name], wantValue)
		}
	}
}

func TestFetchIndicatorsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchIndicators(context.Background()); err == nil {
		t.Fatal("expected error on 502, got nil")
	}
}

func TestFetchIndicatorsMissingBitcoin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/global":
			w.Write([]byte(`{"data":{}}`))
		case "/simple/price":
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchIndicators(context.Background()); err == nil {
		t.Fatal("expected error for missing bitcoin entry, got nil")
	}
}
