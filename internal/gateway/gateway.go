// Package gateway wraps upstream price sources with retry, circuit breaking
// and a last-known-good fallback, so that transient upstream failures never
// reach the aggregator.
package gateway

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/drivers"
	"github.com/quangvu-go/pricehub/internal/model"
	"github.com/quangvu-go/pricehub/pkg/faulttolerance"
)

// LatestQuoteStore is the slice of the quote store the gateway needs for its
// fallback path: the most recent persisted aggregated quote per symbol.
type LatestQuoteStore interface {
	GetLatestBatch(ctx context.Context, symbols []string) ([]model.AggregatedQuote, error)
}

// ResilientGateway fetches quotes from a source with bounded retry and a
// per-source circuit breaker. When the retry budget is exhausted, or the
// breaker is open, it serves the most recently persisted aggregated quotes
// re-shaped into source quotes: degraded but internally consistent prices
// instead of a failed aggregation cycle.
type ResilientGateway struct {
	retryers map[string]*faulttolerance.Retryer
	breakers map[string]*faulttolerance.CircuitBreaker
	quotes   LatestQuoteStore
	logger   *logrus.Logger
}

// New builds a gateway for the given sources. Each source gets its own
// retryer and breaker so one failing upstream cannot open the breaker of a
// healthy one.
func New(sources []drivers.Source, quotes LatestQuoteStore,
	retryCfg faulttolerance.RetryConfig, breakerCfg faulttolerance.CircuitBreakerConfig,
	logger *logrus.Logger) *ResilientGateway {

	g := &ResilientGateway{
		retryers: make(map[string]*faulttolerance.Retryer, len(sources)),
		breakers: make(map[string]*faulttolerance.CircuitBreaker, len(sources)),
		quotes:   quotes,
		logger:   logger,
	}

	for _, src := range sources {
		rc := retryCfg
		rc.Name = src.Name() + "-retry"
		// An open breaker must short-circuit to the fallback, not be retried.
		rc.NonRetryableErrors = append(rc.NonRetryableErrors, faulttolerance.ErrCircuitBreakerOpen)

		bc := breakerCfg
		bc.Name = src.Name() + "-breaker"

		g.retryers[src.Name()] = faulttolerance.NewRetryer(rc, logger)
		g.breakers[src.Name()] = faulttolerance.NewCircuitBreaker(bc, logger)
	}

	return g
}

// Fetch returns the source's quotes for the requested symbols, falling back
// to the last persisted aggregated quotes (tagged with the source's name)
// when the resilience policy is exhausted. It fails only when the fallback
// store itself has nothing to offer.
func (g *ResilientGateway) Fetch(ctx context.Context, src drivers.Source, symbols []string) ([]model.Quote, error) {
	var quotes []model.Quote

	err := g.retryers[src.Name()].Execute(ctx, func() error {
		return g.breakers[src.Name()].Execute(ctx, func() error {
			fetched, err := src.FetchQuotes(ctx, symbols)
			if err != nil {
				return err
			}
			quotes = fetched
			return nil
		})
	})
	if err == nil {
		return quotes, nil
	}

	g.logger.Errorf("[%s] Fetch failed, fallback triggered: %v", src.Name(), err)
	return g.fallback(ctx, src.Name(), symbols)
}

// fallback re-shapes the latest persisted aggregated quotes into the
// canonical Quote format, tagged with the original source.
func (g *ResilientGateway) fallback(ctx context.Context, sourceName string, symbols []string) ([]model.Quote, error) {
	aggregated, err := g.quotes.GetLatestBatch(ctx, symbols)
	if err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(aggregated))
	for i := range aggregated {
		bid := aggregated[i].BestBid
		ask := aggregated[i].BestAsk
		quotes = append(quotes, model.Quote{
			Symbol: aggregated[i].Symbol,
			Bid:    &bid,
			Ask:    &ask,
			Source: sourceName,
		})
	}

	g.logger.Warnf("[%s] Serving %d stale quotes from last aggregation", sourceName, len(quotes))
	return quotes, nil
}

// BreakerState exposes the breaker state for a source, for observability.
func (g *ResilientGateway) BreakerState(sourceName string) faulttolerance.CircuitBreakerState {
	if cb, ok := g.breakers[sourceName]; ok {
		return cb.State()
	}
	return faulttolerance.StateClosed
}
