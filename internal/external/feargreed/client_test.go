package feargreed

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
	return NewClient(httpClient, logger.NewNop(), serverURL)
}

func TestFetchIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fng/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":[{"value":"72","value_classification":"Greed","timestamp":"1756166400"}]}`))
	}))
	defer server.Close()

	value, err := newTestClient(server.URL).FetchIndex(context.Background())
	if err != nil {
		t.Fatalf("FetchIndex error: %v", err)
	}

	if value.Name != "fear_greed_index" {
		t.Errorf("Name = %q", value.Name)
	}
	if value.Value != 72 {
		t.Errorf("Value = %v, want 72", value.Value)
	}
	if value.Source != "alternative.me" {
		t.Errorf("Source = %q", value.Source)
	}
	if value.ObservedAt.Unix() != 1756166400 {
		t.Errorf("ObservedAt = %v, want unix 1756166400", value.ObservedAt)
	}
}

func TestFetchIndexEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchIndex(context.Background()); err == nil {
		t.Fatal("expected error for empty data, got nil")
	}
}

func TestFetchIndexBadValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"value":"n/a","timestamp":"0"}]}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchIndex(context.Background()); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
