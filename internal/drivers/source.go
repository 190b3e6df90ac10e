// Package drivers defines the contract every upstream price source adapter
// implements, plus shared helpers for the per-source packages.
package drivers

import (
	"context"
	"errors"

	"github.com/quangvu-go/pricehub/internal/model"
)

// ErrEmptyPayload is returned when an upstream answers successfully but with
// no usable data. An empty payload is a failure, not "no data": it triggers
// the same retry/fallback path as a network error.
var ErrEmptyPayload = errors.New("upstream returned empty payload")

// Source is one external price source. FetchQuotes returns the source's
// current bid/ask for the requested symbols, already translated into the
// canonical Quote shape. Symbols outside the requested set are filtered out.
type Source interface {
	Name() string
	FetchQuotes(ctx context.Context, symbols []string) ([]model.Quote, error)
}

// SymbolSet builds a lookup set for symbol filtering.
func SymbolSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}
