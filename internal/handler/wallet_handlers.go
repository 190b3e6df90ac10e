package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/service"
)

type WalletHandler struct {
	walletService *service.WalletService
	logger        *logrus.Logger
}

func NewWalletHandler(walletService *service.WalletService, logger *logrus.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetBalances returns all wallet balances for a user.
func (h *WalletHandler) GetBalances(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Message: err.Error()})
		return
	}

	balances, err := h.walletService.GetUserWalletBalances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Wallet balances retrieved", balances)
}

// GetBalance returns one (user, currency) wallet balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Message: err.Error()})
		return
	}

	balance, err := h.walletService.GetUserWalletBalance(c.Request.Context(), userID, c.Param("currency"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Wallet balance retrieved", balance)
}
