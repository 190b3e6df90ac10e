package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade from the user's point of view.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Valid reports whether the side is one of BUY or SELL.
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// Trade is the immutable record of one executed settlement.
// TotalAmount is always Price * Quantity rounded half-up to 8 decimals.
// ClientOrderID, when present, is unique across all trades and serves as
// the idempotency key for replayed requests.
type Trade struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"tradeId"`
	UserID        uint            `gorm:"column:user_id;not null;index" json:"userId"`
	Symbol        string          `gorm:"column:symbol;size:20;not null" json:"symbol"`
	Side          TradeSide       `gorm:"column:side;size:4;not null" json:"side"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(20,8);not null" json:"price"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(20,8);not null" json:"quantity"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(20,8);not null" json:"totalAmount"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null" json:"createdAt"`
	ClientOrderID *string         `gorm:"column:client_order_id;size:50;uniqueIndex" json:"clientOrderId,omitempty"`
}

func (Trade) TableName() string {
	return "trades"
}
