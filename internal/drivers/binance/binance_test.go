package binance

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/drivers"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, 2*time.Second, 100, testLogger())
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}

func TestFetchQuotesParsesBookTickers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","bidPrice":"50000.00","askPrice":"50001.00"},
			{"symbol":"ETHUSDT","bidPrice":"3000.10","askPrice":"3000.50"},
			{"symbol":"XRPUSDT","bidPrice":"0.50","askPrice":"0.51"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	quotes, err := client.FetchQuotes(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(quotes) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(quotes))
	}
	for _, q := range quotes {
		if q.Source != SourceName {
			t.Errorf("Expected source %q, got %q", SourceName, q.Source)
		}
	}

	btc := quotes[0]
	if btc.Symbol != "BTCUSDT" {
		t.Errorf("Expected BTCUSDT, got %s", btc.Symbol)
	}
	if btc.Bid == nil || !btc.Bid.Equal(mustDecimal(t, "50000.00")) {
		t.Errorf("Unexpected bid: %v", btc.Bid)
	}
	if btc.Ask == nil || !btc.Ask.Equal(mustDecimal(t, "50001.00")) {
		t.Errorf("Unexpected ask: %v", btc.Ask)
	}
}

func TestFetchQuotesMalformedPriceBecomesNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"BTCUSDT","bidPrice":"not-a-number","askPrice":""}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	quotes, err := client.FetchQuotes(context.Background(), []string{"BTCUSDT"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("Expected 1 quote, got %d", len(quotes))
	}
	if quotes[0].Bid != nil {
		t.Errorf("Expected nil bid for malformed price, got %v", quotes[0].Bid)
	}
	if quotes[0].Ask != nil {
		t.Errorf("Expected nil ask for empty price, got %v", quotes[0].Ask)
	}
}

func TestFetchQuotesEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchQuotes(context.Background(), []string{"BTCUSDT"})
	if !errors.Is(err, drivers.ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
}

func TestFetchQuotesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchQuotes(context.Background(), []string{"BTCUSDT"})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
}
