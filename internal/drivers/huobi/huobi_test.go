package huobi

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

func TestFetchQuotesUppercasesSymbolsAndConvertsPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","data":[
			{"symbol":"btcusdt","bid":49999.0,"ask":50000.5},
			{"symbol":"dogeusdt","bid":0.1,"ask":0.11}
		]}`))
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

	q := quotes[0]
	if q.Symbol != "BTCUSDT" {
		t.Errorf("Expected uppercased symbol BTCUSDT, got %s", q.Symbol)
	}
	if q.Source != SourceName {
		t.Errorf("Expected source %q, got %q", SourceName, q.Source)
	}
	if q.Bid == nil || !q.Bid.Equal(decimal.NewFromFloat(49999.0)) {
		t.Errorf("Unexpected bid: %v", q.Bid)
	}
	if q.Ask == nil || !q.Ask.Equal(decimal.NewFromFloat(50000.5)) {
		t.Errorf("Unexpected ask: %v", q.Ask)
	}
}

func TestFetchQuotesMissingSideBecomesNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","data":[{"symbol":"ethusdt","ask":3000.5}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	quotes, err := client.FetchQuotes(context.Background(), []string{"ETHUSDT"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("Expected 1 quote, got %d", len(quotes))
	}
	if quotes[0].Bid != nil {
		t.Errorf("Expected nil bid for absent side, got %v", quotes[0].Bid)
	}
	if quotes[0].Ask == nil {
		t.Error("Expected ask to be present")
	}
}

func TestFetchQuotesEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","data":[]}`))
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
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchQuotes(context.Background(), []string{"BTCUSDT"})
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
}
