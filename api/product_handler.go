package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// productHandler implements HTTP handlers for product operations.
type productHandler struct {
	inventory *commerce.InventoryLedger
	logger    *zap.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(inventory *commerce.InventoryLedger, logger *zap.Logger) *productHandler {
	return &productHandler{
		inventory: inventory,
		logger:    logger,
	}
}

func (h *productHandler) respondError(c *gin.Context, err error, productID string) {
	status, code := commerceError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("product operation failed", zap.String("product_id", productID), zap.Error(err))
		fail(c, status, code, "internal error")
		return
	}
	fail(c, status, code, err.Error())
}

func (h *productHandler) handleList(c *gin.Context) {
	products, err := h.inventory.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	ok(c, http.StatusOK, products, "")
}

func (h *productHandler) handleGet(c *gin.Context) {
	id := c.Param("id")
	product, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, product, "")
}

func (h *productHandler) handleCreate(c *gin.Context) {
	var req struct {
		ID            string   `json:"id" binding:"required"`
		Name          string   `json:"name" binding:"required"`
		StockQuantity *int     `json:"stockQuantity" binding:"required"`
		UnitPrice     *float64 `json:"unitPrice" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		fail(c, http.StatusBadRequest, "INVALID_DATA", "required fields: id, name, stockQuantity, unitPrice")
		return
	}

	product, err := commerce.NewProduct(req.ID, req.Name, *req.StockQuantity, *req.UnitPrice)
	if err != nil {
		h.respondError(c, err, req.ID)
		return
	}
	if err := h.inventory.Create(c.Request.Context(), product); err != nil {
		h.respondError(c, err, product.ID)
		return
	}
	ok(c, http.StatusCreated, product, "Product created successfully")
}

func (h *productHandler) handleSetStock(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		StockQuantity *int `json:"stockQuantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "stockQuantity must be a non-negative integer")
		return
	}

	product, err := h.inventory.SetStock(c.Request.Context(), id, *req.StockQuantity)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, product, "Stock updated successfully")
}

// quantityRequest is the body of add-stock and remove-stock calls.
type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *productHandler) handleAddStock(c *gin.Context) {
	id := c.Param("id")
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be a positive integer")
		return
	}

	product, err := h.inventory.Add(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, product, "Stock added successfully")
}

func (h *productHandler) handleRemoveStock(c *gin.Context) {
	id := c.Param("id")
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be a positive integer")
		return
	}

	product, err := h.inventory.Remove(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, product, "Stock removed successfully")
}

func (h *productHandler) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, nil, "Product deleted successfully")
}
