package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangvu-go/pricehub/internal/model"
)

func TestGetLatestPriceNormalizesSymbol(t *testing.T) {
	quotes := &fakeQuoteRepo{latest: map[string]*model.AggregatedQuote{
		"BTCUSDT": {
			Symbol:    "BTCUSDT",
			BestBid:   decimal.RequireFromString("50000.00"),
			BestAsk:   decimal.RequireFromString("50000.50"),
			Timestamp: time.Now().UTC(),
		},
	}}
	svc := NewPriceService(quotes, logrusDiscard())

	quote, err := svc.GetLatestPrice(context.Background(), " btcusdt ")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", quote.Symbol)
	assert.True(t, quote.BestBid.Equal(decimal.RequireFromString("50000.00")))
}

func TestGetLatestPriceUnknownSymbol(t *testing.T) {
	svc := NewPriceService(&fakeQuoteRepo{latest: map[string]*model.AggregatedQuote{}}, logrusDiscard())

	_, err := svc.GetLatestPrice(context.Background(), "DOGEUSDT")
	require.ErrorIs(t, err, ErrPriceUnavailable)
}
