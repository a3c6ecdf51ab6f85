package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// purchaseHandler exposes the settlement engine over HTTP.
type purchaseHandler struct {
	engine *commerce.SettlementEngine
	logger *zap.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(engine *commerce.SettlementEngine, logger *zap.Logger) *purchaseHandler {
	return &purchaseHandler{
		engine: engine,
		logger: logger,
	}
}

// handleCreatePurchase handles the POST /api/purchases endpoint. The body of
// the response is the settlement outcome itself.
func (h *purchaseHandler) handleCreatePurchase(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customerId" binding:"required"`
		ProductID  string `json:"productId" binding:"required"`
		Quantity   *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		c.JSON(http.StatusBadRequest, commerce.Outcome{
			Success:   false,
			Message:   "required fields: customerId, productId, quantity",
			ErrorCode: "INVALID_DATA",
		})
		return
	}

	outcome := h.engine.Settle(c.Request.Context(), req.CustomerID, req.ProductID, *req.Quantity)
	c.JSON(settlementStatus(outcome), outcome)
}

func (h *purchaseHandler) handleSearchPurchases(c *gin.Context) {
	customerID := c.Query("customerId")
	productID := c.Query("productId")

	purchases, metadata, err := h.engine.SearchPurchases(c.Request.Context(), customerID, productID)
	if err != nil {
		h.logger.Error("error searching purchases",
			zap.String("customer_filter", customerID),
			zap.String("product_filter", productID),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to search purchases")
		return
	}

	ok(c, http.StatusOK, gin.H{"results": purchases, "metadata": metadata}, "")
}
