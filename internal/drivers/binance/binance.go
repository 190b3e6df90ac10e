// Package binance fetches book ticker quotes from the Binance REST API.
package binance

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/quangvu-go/pricehub/internal/drivers"
	"github.com/quangvu-go/pricehub/internal/model"
)

const (
	SourceName = "binance"

	// BurstSize allows short request bursts while keeping the average rate.
	BurstSize = 5
)

// bookTicker is one entry of the Binance /api/v3/ticker/bookTicker response.
// Prices arrive as decimal strings. Unknown fields are ignored.
type bookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	AskPrice string `json:"askPrice"`
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a Binance source client polling the given endpoint.
func NewClient(url string, timeout time.Duration, requestsPerSecond float64, logger *logrus.Logger) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(url).SetTimeout(timeout),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), BurstSize),
		logger:  logger,
	}
}

func (c *Client) Name() string {
	return SourceName
}

// FetchQuotes performs a single read-only call against the book ticker
// endpoint and maps the response into canonical quotes for the requested
// symbols.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) ([]model.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var tickers []bookTicker
	resp, err := c.http.R().SetContext(ctx).SetResult(&tickers).Get("")
	if err != nil {
		return nil, errors.Wrap(err, "binance request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("binance returned status %d", resp.StatusCode())
	}
	if len(tickers) == 0 {
		return nil, drivers.ErrEmptyPayload
	}

	wanted := drivers.SymbolSet(symbols)
	quotes := make([]model.Quote, 0, len(symbols))
	for _, t := range tickers {
		if _, ok := wanted[t.Symbol]; !ok {
			continue
		}
		quotes = append(quotes, model.Quote{
			Symbol: t.Symbol,
			Bid:    parsePrice(t.BidPrice),
			Ask:    parsePrice(t.AskPrice),
			Source: SourceName,
		})
	}

	c.logger.Debugf("[%s] Fetched %d quotes for %d symbols", SourceName, len(quotes), len(symbols))
	return quotes, nil
}

// parsePrice converts an upstream price string into a decimal, treating
// missing or malformed values as absent rather than failing the whole fetch.
func parsePrice(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
