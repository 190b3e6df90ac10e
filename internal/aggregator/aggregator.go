// Package aggregator merges per-source quotes into one authoritative best
// bid/ask per symbol and persists the result on a fixed schedule.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/drivers"
	"github.com/quangvu-go/pricehub/internal/model"
)

// QuoteFetcher is the gateway surface the aggregator depends on.
type QuoteFetcher interface {
	Fetch(ctx context.Context, src drivers.Source, symbols []string) ([]model.Quote, error)
}

// QuoteWriter is the store surface the aggregator writes to.
type QuoteWriter interface {
	Save(ctx context.Context, quote *model.AggregatedQuote) error
}

type Aggregator struct {
	sources  []drivers.Source
	fetcher  QuoteFetcher
	store    QuoteWriter
	symbols  []string
	interval time.Duration
	logger   *logrus.Logger

	// cycleMu guards against overlapping aggregation cycles.
	cycleMu sync.Mutex
}

func New(sources []drivers.Source, fetcher QuoteFetcher, store QuoteWriter,
	symbols []string, interval time.Duration, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		sources:  sources,
		fetcher:  fetcher,
		store:    store,
		symbols:  symbols,
		interval: interval,
		logger:   logger,
	}
}

// Run triggers an aggregation cycle on a fixed interval until the context is
// cancelled. A cycle never propagates an error to the loop; if a previous
// cycle is somehow still running, the tick is skipped instead of overlapping.
func (a *Aggregator) Run(ctx context.Context) {
	a.logger.Infof("Starting price aggregation loop, interval=%s, symbols=%v", a.interval, a.symbols)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Stopping price aggregation loop")
			return
		case <-ticker.C:
			if !a.cycleMu.TryLock() {
				a.logger.Warn("Previous aggregation cycle still running, skipping tick")
				continue
			}
			a.AggregateAndStore(ctx)
			a.cycleMu.Unlock()
		}
	}
}

// AggregateAndStore runs one aggregation cycle: fetch quotes from every
// source through the gateway, group them by symbol, compute the best bid/ask
// per supported symbol, and append one aggregated row per symbol. Failures
// are isolated per source and per symbol; the cycle always completes.
func (a *Aggregator) AggregateAndStore(ctx context.Context) {
	a.logger.Debug("Starting price aggregation from external sources")

	var allQuotes []model.Quote
	for _, src := range a.sources {
		quotes, err := a.fetcher.Fetch(ctx, src, a.symbols)
		if err != nil {
			a.logger.Errorf("[%s] No quotes available, source skipped this cycle: %v", src.Name(), err)
			continue
		}
		allQuotes = append(allQuotes, quotes...)
	}

	if len(allQuotes) == 0 {
		a.logger.Warn("No price data received from any source")
		return
	}

	quotesBySymbol := make(map[string][]model.Quote)
	for _, q := range allQuotes {
		quotesBySymbol[q.Symbol] = append(quotesBySymbol[q.Symbol], q)
	}

	for _, symbol := range a.symbols {
		symbolQuotes := quotesBySymbol[symbol]
		if len(symbolQuotes) == 0 {
			a.logger.Warnf("No price data available for symbol: %s", symbol)
			continue
		}

		aggregated, err := calculateBestPrices(symbol, symbolQuotes)
		if err != nil {
			a.logger.Errorf("Error aggregating prices for symbol %s: %v", symbol, err)
			continue
		}
		if aggregated.BestBid.GreaterThan(aggregated.BestAsk) {
			a.logger.Warnf("Best bid (%s) is higher than best ask (%s) for %s, crossed sources",
				aggregated.BestBid, aggregated.BestAsk, symbol)
		}

		if err := a.store.Save(ctx, aggregated); err != nil {
			a.logger.Errorf("Error persisting aggregated price for symbol %s: %v", symbol, err)
			continue
		}

		a.logger.WithFields(logrus.Fields{
			"symbol":  symbol,
			"bestBid": aggregated.BestBid,
			"bestAsk": aggregated.BestAsk,
			"sources": sourceNames(symbolQuotes),
		}).Info("Saved aggregated price")
	}

	a.logger.Debug("Price aggregation completed")
}

// calculateBestPrices selects max bid and min ask over the quotes that carry
// the respective side. A crossed result is legal and persisted as-is.
func calculateBestPrices(symbol string, quotes []model.Quote) (*model.AggregatedQuote, error) {
	var bestBid, bestAsk *decimal.Decimal

	for i := range quotes {
		if bid := quotes[i].Bid; bid != nil {
			if bestBid == nil || bid.GreaterThan(*bestBid) {
				bestBid = bid
			}
		}
		if ask := quotes[i].Ask; ask != nil {
			if bestAsk == nil || ask.LessThan(*bestAsk) {
				bestAsk = ask
			}
		}
	}

	if bestBid == nil {
		return nil, fmt.Errorf("no valid bid prices found for %s", symbol)
	}
	if bestAsk == nil {
		return nil, fmt.Errorf("no valid ask prices found for %s", symbol)
	}

	return &model.AggregatedQuote{
		Symbol:    symbol,
		BestBid:   *bestBid,
		BestAsk:   *bestAsk,
		Timestamp: time.Now().UTC(),
	}, nil
}

func sourceNames(quotes []model.Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	names := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if _, ok := seen[q.Source]; ok {
			continue
		}
		seen[q.Source] = struct{}{}
		names = append(names, q.Source)
	}
	return names
}
