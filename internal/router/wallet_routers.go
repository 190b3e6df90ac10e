package router

import (
	"github.com/gin-gonic/gin"

	"github.com/quangvu-go/pricehub/internal/handler"
)

func registerWalletRoutes(router *gin.RouterGroup, walletHandler *handler.WalletHandler) {
	wallets := router.Group("/wallets")
	{
		wallets.GET("/user/:userId", walletHandler.GetBalances)
		wallets.GET("/user/:userId/currency/:currency", walletHandler.GetBalance)
	}
}
