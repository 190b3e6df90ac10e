// Package huobi fetches market ticker quotes from the Huobi REST API.
package huobi

import (
	"context"
	"strings"
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
	SourceName = "huobi"

	BurstSize = 5
)

// ticker is one entry of the Huobi /market/tickers response. Huobi reports
// lowercase symbols and numeric prices; a side may be absent.
type ticker struct {
	Symbol string   `json:"symbol"`
	Bid    *float64 `json:"bid"`
	Ask    *float64 `json:"ask"`
}

type tickersResponse struct {
	Status string   `json:"status"`
	Data   []ticker `json:"data"`
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a Huobi source client polling the given endpoint.
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

// FetchQuotes performs a single read-only call against the market tickers
// endpoint and maps the response into canonical quotes for the requested
// symbols.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) ([]model.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var response tickersResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&response).Get("")
	if err != nil {
		return nil, errors.Wrap(err, "huobi request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("huobi returned status %d", resp.StatusCode())
	}
	if len(response.Data) == 0 {
		return nil, drivers.ErrEmptyPayload
	}

	wanted := drivers.SymbolSet(symbols)
	quotes := make([]model.Quote, 0, len(symbols))
	for _, t := range response.Data {
		symbol := strings.ToUpper(t.Symbol)
		if _, ok := wanted[symbol]; !ok {
			continue
		}
		quotes = append(quotes, model.Quote{
			Symbol: symbol,
			Bid:    toDecimal(t.Bid),
			Ask:    toDecimal(t.Ask),
			Source: SourceName,
		})
	}

	c.logger.Debugf("[%s] Fetched %d quotes for %d symbols", SourceName, len(quotes), len(symbols))
	return quotes, nil
}

func toDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
