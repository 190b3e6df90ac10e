package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quangvu-go/pricehub/internal/model"
)

// ErrTradeNotFound is returned when no trade matches the lookup.
var ErrTradeNotFound = errors.New("trade not found")

// TradeRepository reads the immutable trade log. Inserts happen only inside
// WalletRepository.Settle so they share the settlement transaction.
type TradeRepository interface {
	FindByClientOrderID(ctx context.Context, clientOrderID string) (*model.Trade, error)
	FindByUserID(ctx context.Context, userID uint, symbol string, page, size int) ([]model.Trade, int64, error)
}

type gormTradeRepository struct {
	db *gorm.DB
}

func NewGormTradeRepository(db *gorm.DB) TradeRepository {
	return &gormTradeRepository{db: db}
}

func (r *gormTradeRepository) FindByClientOrderID(ctx context.Context, clientOrderID string) (*model.Trade, error) {
	var trade model.Trade
	err := r.db.WithContext(ctx).
		Where("client_order_id = ?", clientOrderID).
		First(&trade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

// FindByUserID returns one page of a user's trades, newest first, optionally
// filtered by symbol, along with the total row count for paging metadata.
func (r *gormTradeRepository) FindByUserID(ctx context.Context, userID uint, symbol string, page, size int) ([]model.Trade, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Trade{}).Where("user_id = ?", userID)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trades []model.Trade
	err := query.
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&trades).Error
	if err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}
