package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email;size:100;not null" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// WalletBalance is one row per (user, currency). Balance never goes negative
// after a committed mutation. Version is the optimistic concurrency token,
// incremented on every successful update.
type WalletBalance struct {
	ID        uint            `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint            `gorm:"column:user_id;not null;uniqueIndex:idx_wallet_balances_user_currency" json:"userId"`
	Currency  string          `gorm:"column:currency;size:10;not null;uniqueIndex:idx_wallet_balances_user_currency" json:"currency"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(20,8);not null" json:"balance"`
	Version   int64           `gorm:"column:version;not null" json:"-"`
	UpdatedAt time.Time       `gorm:"column:updated_at;not null" json:"lastUpdated"`
}

func (WalletBalance) TableName() string {
	return "wallet_balances"
}
