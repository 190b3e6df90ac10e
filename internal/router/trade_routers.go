package router

import (
	"github.com/gin-gonic/gin"

	"github.com/quangvu-go/pricehub/internal/handler"
)

func registerTradeRoutes(router *gin.RouterGroup, tradeHandler *handler.TradeHandler) {
	trades := router.Group("/trades")
	{
		trades.POST("", tradeHandler.ExecuteTrade)
		trades.GET("/history/user/:userId", tradeHandler.GetHistory)
	}
}
