package router

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quangvu-go/pricehub/internal/handler"
)

type Config struct {
	TradeHandler  *handler.TradeHandler
	PriceHandler  *handler.PriceHandler
	WalletHandler *handler.WalletHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()
	router.Use(requestID())

	api := router.Group("/api/v1/")
	registerTradeRoutes(api, cfg.TradeHandler)
	registerPriceRoutes(api, cfg.PriceHandler)
	registerWalletRoutes(api, cfg.WalletHandler)

	return router
}

// requestID tags every request with a correlation id, generating one when
// the client did not send its own.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
