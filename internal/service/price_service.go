package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/model"
	"github.com/quangvu-go/pricehub/internal/repository"
)

// PriceService answers latest-price queries from the aggregated quote store.
type PriceService struct {
	quotes repository.QuoteRepository
	logger *logrus.Logger
}

func NewPriceService(quotes repository.QuoteRepository, logger *logrus.Logger) *PriceService {
	return &PriceService{quotes: quotes, logger: logger}
}

// GetLatestPrice returns the most recent aggregated quote for a symbol or
// ErrPriceUnavailable when the symbol has no history yet.
func (ps *PriceService) GetLatestPrice(ctx context.Context, symbol string) (*model.AggregatedQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	ps.logger.Debugf("Fetching latest price for symbol: %s", symbol)

	quote, err := ps.quotes.GetLatest(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			ps.logger.Warnf("No price data found for symbol: %s", symbol)
			return nil, fmt.Errorf("%w for symbol: %s", ErrPriceUnavailable, symbol)
		}
		return nil, err
	}
	return quote, nil
}
