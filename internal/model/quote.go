package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single source's view of a symbol at fetch time.
// Bid or Ask may be nil when the upstream omits one side.
// Quotes are ephemeral and never persisted individually.
type Quote struct {
	Symbol string
	Bid    *decimal.Decimal
	Ask    *decimal.Decimal
	Source string
}

// AggregatedQuote is the authoritative best bid/ask for a symbol at a point
// in time. Rows are append-only: written once per aggregation cycle, never
// updated or deleted.
type AggregatedQuote struct {
	ID        uint            `gorm:"column:id;primaryKey" json:"id"`
	Symbol    string          `gorm:"column:symbol;size:20;not null;index:idx_aggregated_quotes_symbol_timestamp" json:"symbol"`
	BestBid   decimal.Decimal `gorm:"column:best_bid;type:numeric(20,8);not null" json:"bestBid"`
	BestAsk   decimal.Decimal `gorm:"column:best_ask;type:numeric(20,8);not null" json:"bestAsk"`
	Timestamp time.Time       `gorm:"column:timestamp;not null;index:idx_aggregated_quotes_symbol_timestamp" json:"timestamp"`
}

func (AggregatedQuote) TableName() string {
	return "aggregated_quotes"
}
