package router

import (
	"github.com/gin-gonic/gin"

	"github.com/quangvu-go/pricehub/internal/handler"
)

func registerPriceRoutes(router *gin.RouterGroup, priceHandler *handler.PriceHandler) {
	prices := router.Group("/prices")
	{
		prices.GET("/:symbol", priceHandler.GetLatest)
	}
}
