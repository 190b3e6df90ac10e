package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quangvu-go/pricehub/internal/model"
)

// ErrQuoteNotFound is returned when no aggregated quote exists for a symbol.
var ErrQuoteNotFound = errors.New("aggregated quote not found")

// QuoteRepository is the append-only store of aggregated quotes. Rows are
// written once per aggregation cycle and read by the latest timestamp; they
// are never updated or deleted.
type QuoteRepository interface {
	Save(ctx context.Context, quote *model.AggregatedQuote) error
	GetLatest(ctx context.Context, symbol string) (*model.AggregatedQuote, error)
	GetLatestBatch(ctx context.Context, symbols []string) ([]model.AggregatedQuote, error)
}

type gormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) QuoteRepository {
	return &gormQuoteRepository{db: db}
}

func (r *gormQuoteRepository) Save(ctx context.Context, quote *model.AggregatedQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *gormQuoteRepository) GetLatest(ctx context.Context, symbol string) (*model.AggregatedQuote, error) {
	var quote model.AggregatedQuote
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC").
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// GetLatestBatch returns the most recent aggregated quote per symbol, at most
// one row for each requested symbol. Symbols with no history are omitted.
func (r *gormQuoteRepository) GetLatestBatch(ctx context.Context, symbols []string) ([]model.AggregatedQuote, error) {
	subQuery := r.db.Model(&model.AggregatedQuote{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY symbol ORDER BY timestamp DESC) as rn").
		Where("symbol IN (?)", symbols)

	var quotes []model.AggregatedQuote
	err := r.db.WithContext(ctx).
		Table("(?) as ranked_quotes", subQuery).
		Where("rn = 1").
		Order("symbol").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}
