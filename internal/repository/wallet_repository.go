package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quangvu-go/pricehub/internal/model"
)

var (
	// ErrWalletNotFound is returned when no wallet row exists for the
	// requested (user, currency).
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrVersionConflict signals a lost update: another settlement committed
	// between our read and write. The caller retries the whole settlement.
	ErrVersionConflict = errors.New("wallet version conflict")
)

// WalletRepository stores per-user, per-currency balances. Settle is the only
// mutation path; all other methods are plain reads.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uint) ([]model.WalletBalance, error)
	GetByUserIDAndCurrency(ctx context.Context, userID uint, currency string) (*model.WalletBalance, error)

	// Settle runs one atomic settlement: it locks the wallet rows for the
	// given currencies with SELECT ... FOR UPDATE, invokes apply to validate
	// and mutate the in-memory balances, then writes both rows back with a
	// version compare-and-swap and inserts the trade, all in one
	// read-committed transaction. Locks are always acquired in alphabetical
	// currency order so that opposing settlements for the same user cannot
	// deadlock. Returns ErrVersionConflict when a CAS write touches zero rows.
	Settle(ctx context.Context, userID uint, currencies []string,
		apply func(wallets map[string]*model.WalletBalance) error,
		trade *model.Trade) (map[string]*model.WalletBalance, error)
}

type gormWalletRepository struct {
	db *gorm.DB
}

func NewGormWalletRepository(db *gorm.DB) WalletRepository {
	return &gormWalletRepository{db: db}
}

func (r *gormWalletRepository) GetByUserID(ctx context.Context, userID uint) ([]model.WalletBalance, error) {
	var wallets []model.WalletBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *gormWalletRepository) GetByUserIDAndCurrency(ctx context.Context, userID uint, currency string) (*model.WalletBalance, error) {
	var wallet model.WalletBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency = ?", userID, currency).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *gormWalletRepository) Settle(ctx context.Context, userID uint, currencies []string,
	apply func(wallets map[string]*model.WalletBalance) error,
	trade *model.Trade) (map[string]*model.WalletBalance, error) {

	// Fixed lock order across all call sites
	ordered := make([]string, len(currencies))
	copy(ordered, currencies)
	sort.Strings(ordered)

	wallets := make(map[string]*model.WalletBalance, len(ordered))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, currency := range ordered {
			var wallet model.WalletBalance
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND currency = ?", userID, currency).
				First(&wallet).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s for user %d", ErrWalletNotFound, currency, userID)
				}
				return err
			}
			wallets[currency] = &wallet
		}

		if err := apply(wallets); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, currency := range ordered {
			wallet := wallets[currency]
			result := tx.Model(&model.WalletBalance{}).
				Where("id = ? AND version = ?", wallet.ID, wallet.Version).
				Updates(map[string]interface{}{
					"balance":    wallet.Balance,
					"version":    wallet.Version + 1,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != 1 {
				return ErrVersionConflict
			}
			wallet.Version++
			wallet.UpdatedAt = now
		}

		return tx.Create(trade).Error
	})
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
