package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClient_FetchPrices(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotQuery, gotUA string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("instruments")
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"data": [
					{"instrument": {"name": "EUR/USD"}, "metrics": {"M20": {"price": 1.2050}, "H1": {"price": 1.2000}}},
					{"instrument": {"name": "XAU/USD"}, "metrics": {"M20": {"price": 1950.25}}}
				]
			}`))
		}))
		defer ts.Close()

		c := NewClient(ts.URL, "test-agent", 5*time.Second)
		prices, err := c.FetchPrices(context.Background(), []string{"EUR/USD", "XAU/USD"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotQuery != "EUR/USD,XAU/USD" {
			t.Errorf("expected comma-joined instruments param, got %q", gotQuery)
		}
		if gotUA != "test-agent" {
			t.Errorf("expected user agent header, got %q", gotUA)
		}
		if len(prices) != 2 {
			t.Fatalf("expected 2 prices, got %d", len(prices))
		}
		if !prices["EUR/USD"].Equal(decimal.RequireFromString("1.2050")) {
			t.Errorf("expected EUR/USD 1.2050, got %s", prices["EUR/USD"])
		}
		if !prices["XAU/USD"].Equal(decimal.RequireFromString("1950.25")) {
			t.Errorf("expected XAU/USD 1950.25, got %s", prices["XAU/USD"])
		}
	})

	t.Run("missing_price_bucket_omitted", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"data": [
					{"instrument": {"name": "EUR/USD"}, "metrics": {"H1": {"price": 1.2}}},
					{"instrument": {"name": "GBP/USD"}, "metrics": {"M20": {}}},
					{"instrument": {"name": "USD/JPY"}, "metrics": {"M20": {"price": 149.50}}}
				]
			}`))
		}))
		defer ts.Close()

		c := NewClient(ts.URL, "ua", time.Second)
		prices, err := c.FetchPrices(context.Background(), []string{"EUR/USD", "GBP/USD", "USD/JPY"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(prices) != 1 {
			t.Fatalf("instruments without a usable price must be omitted, got %d entries", len(prices))
		}
		if _, ok := prices["USD/JPY"]; !ok {
			t.Error("expected USD/JPY present")
		}
	})

	t.Run("non_200_fails_soft", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer ts.Close()

		c := NewClient(ts.URL, "ua", time.Second)
		prices, err := c.FetchPrices(context.Background(), []string{"EUR/USD"})
		if err == nil {
			t.Fatal("expected retrievable error on non-200")
		}
		if len(prices) != 0 {
			t.Errorf("expected empty map, got %d entries", len(prices))
		}
	})

	t.Run("malformed_json_fails_soft", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer ts.Close()

		c := NewClient(ts.URL, "ua", time.Second)
		prices, err := c.FetchPrices(context.Background(), []string{"EUR/USD"})
		if err == nil {
			t.Fatal("expected retrievable error on malformed body")
		}
		if len(prices) != 0 {
			t.Errorf("expected empty map, got %d entries", len(prices))
		}
	})

	t.Run("empty_input_no_call", func(t *testing.T) {
		called := false
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer ts.Close()

		c := NewClient(ts.URL, "ua", time.Second)
		prices, err := c.FetchPrices(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if called {
			t.Error("no upstream call expected for empty instrument set")
		}
		if len(prices) != 0 {
			t.Errorf("expected empty map, got %d", len(prices))
		}
	})
}
