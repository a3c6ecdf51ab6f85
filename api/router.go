package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Commerce commerce.Storage
	Backup   backup.Storage
	// Ping reports store connectivity for /health. Nil means always healthy.
	Ping   func(ctx context.Context) error
	Logger *zap.Logger
}

// InitRoutes registers all endpoints on the given Gin engine. It builds the
// ledgers, the settlement engine and the backup service from deps, then binds
// each HTTP method and path to the appropriate handler function.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e.Use(requestID(), requestLogger(logger), gin.Recovery())

	accounts := commerce.NewAccountLedger(deps.Commerce, logger)
	inventory := commerce.NewInventoryLedger(deps.Commerce, logger)
	engine := commerce.NewSettlementEngine(accounts, inventory, deps.Commerce, logger)
	backupService := backup.NewService(deps.Backup, logger)

	customerHandler := NewCustomerHandler(accounts, logger)
	productHandler := NewProductHandler(inventory, logger)
	purchaseHandler := NewPurchaseHandler(engine, logger)
	playerHandler := NewPlayerHandler(backupService, logger)

	api := e.Group("/api")

	customers := api.Group("/customers")
	customers.GET("", customerHandler.handleList)
	customers.POST("", customerHandler.handleCreate)
	customers.GET("/:id", customerHandler.handleGet)
	customers.DELETE("/:id", customerHandler.handleDelete)
	customers.PUT("/:id/balance", customerHandler.handleSetBalance)
	customers.POST("/:id/credit", customerHandler.handleCredit)
	customers.POST("/:id/debit", customerHandler.handleDebit)

	products := api.Group("/products")
	products.GET("", productHandler.handleList)
	products.POST("", productHandler.handleCreate)
	products.GET("/:id", productHandler.handleGet)
	products.DELETE("/:id", productHandler.handleDelete)
	products.PUT("/:id/stock", productHandler.handleSetStock)
	products.POST("/:id/add-stock", productHandler.handleAddStock)
	products.POST("/:id/remove-stock", productHandler.handleRemoveStock)

	api.POST("/purchases", purchaseHandler.handleCreatePurchase)
	api.GET("/purchases", purchaseHandler.handleSearchPurchases)

	players := api.Group("/" + backup.DefaultCollection)
	players.GET("", playerHandler.handleList)
	players.GET("/:nick", playerHandler.handleLoad)
	players.POST("/:nick", playerHandler.handleSave)
	players.DELETE("/:nick", playerHandler.handleDelete)

	e.GET("/health", healthHandler(deps.Ping))
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "connected"
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				database = "disconnected"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
