package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEthPriceUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "ethereum" {
			t.Errorf("ids = %q, want ethereum", got)
		}
		w.Write([]byte(`{"ethereum":{"usd":2345.67}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), nil)
	usd, err := client.EthPriceUSD(context.Background())
	if err != nil {
		t.Fatalf("EthPriceUSD: %v", err)
	}
	if usd != 2345.67 {
		t.Fatalf("price = %v, want 2345.67", usd)
	}
}

func TestEthPriceUSDMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), nil)
	if _, err := client.EthPriceUSD(context.Background()); err == nil {
		t.Fatal("expected error for missing price")
	}
}

func TestEthPriceUSDServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), nil)
	if _, err := client.EthPriceUSD(context.Background()); err == nil {
		t.Fatal("expected error on server failure")
	}
}
