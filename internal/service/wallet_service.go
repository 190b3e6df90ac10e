package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/model"
	"github.com/quangvu-go/pricehub/internal/repository"
)

// WalletService answers wallet balance queries.
type WalletService struct {
	wallets repository.WalletRepository
	logger  *logrus.Logger
}

func NewWalletService(wallets repository.WalletRepository, logger *logrus.Logger) *WalletService {
	return &WalletService{wallets: wallets, logger: logger}
}

func (ws *WalletService) GetUserWalletBalances(ctx context.Context, userID uint) ([]model.WalletBalance, error) {
	ws.logger.Debugf("Fetching wallet balances for user: %d", userID)
	return ws.wallets.GetByUserID(ctx, userID)
}

func (ws *WalletService) GetUserWalletBalance(ctx context.Context, userID uint, currency string) (*model.WalletBalance, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	ws.logger.Debugf("Fetching wallet balance for user: %d, currency: %s", userID, currency)
	return ws.wallets.GetByUserIDAndCurrency(ctx, userID, currency)
}
