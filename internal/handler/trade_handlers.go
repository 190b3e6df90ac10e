package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/service"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

type TradeHandler struct {
	tradeService *service.TradeService
	logger       *logrus.Logger
}

func NewTradeHandler(tradeService *service.TradeService, logger *logrus.Logger) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		logger:       logger,
	}
}

// ExecuteTrade settles a buy/sell order at the latest aggregated price.
func (h *TradeHandler) ExecuteTrade(c *gin.Context) {
	var request service.TradeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: fmt.Sprintf("malformed request body: %v", err),
		})
		return
	}

	result, err := h.tradeService.ExecuteTrade(c.Request.Context(), &request)
	if err != nil {
		h.logger.Warnf("Trade request failed: userId=%d symbol=%s: %v",
			request.UserID, request.Symbol, err)
		respondError(c, err)
		return
	}

	respondOK(c, "Trade executed successfully", result)
}

// GetHistory returns one page of a user's trades, newest first.
func (h *TradeHandler) GetHistory(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Message: err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultHistoryPageSize)))
	if size < 1 {
		size = defaultHistoryPageSize
	}
	if size > maxHistoryPageSize {
		size = maxHistoryPageSize
	}

	history, err := h.tradeService.GetUserTradeHistory(c.Request.Context(), userID, page, size, c.Query("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Trade history retrieved", history)
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("user ID must be a positive integer")
	}
	return uint(id), nil
}
