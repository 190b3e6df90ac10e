package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/service"
)

type PriceHandler struct {
	priceService *service.PriceService
	logger       *logrus.Logger
}

func NewPriceHandler(priceService *service.PriceService, logger *logrus.Logger) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		logger:       logger,
	}
}

// GetLatest returns the most recent aggregated best bid/ask for a symbol.
func (h *PriceHandler) GetLatest(c *gin.Context) {
	quote, err := h.priceService.GetLatestPrice(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Latest price retrieved", quote)
}
