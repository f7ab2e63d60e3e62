package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/filebank-ledger/internal/api_gateway/handler"
	"github.com/filebank-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	customerHandler *handler.CustomerHandler,
	accountHandler *handler.AccountHandler,
	transferHandler *handler.TransferHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.POST("/authenticate", customerHandler.Authenticate)
			customers.GET("/:id", customerHandler.GetByID)
			customers.PUT("/:id", customerHandler.Update)
			customers.GET("/:id/accounts", accountHandler.ListByCustomer)
			customers.POST("/:id/accounts", accountHandler.Create)
		}

		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.ListByEmail)
			accounts.GET("/:number", accountHandler.GetByNumber)
			accounts.GET("/:number/transactions", accountHandler.GetTransactions)
			accounts.POST("/:number/deposits", accountHandler.Deposit)
			accounts.POST("/:number/withdrawals", accountHandler.Withdraw)
		}

		v1.POST("/transfers", transferHandler.Create)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
