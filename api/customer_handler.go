package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// customerHandler implements HTTP handlers for customer operations.
type customerHandler struct {
	accounts *commerce.AccountLedger
	logger   *zap.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(accounts *commerce.AccountLedger, logger *zap.Logger) *customerHandler {
	return &customerHandler{
		accounts: accounts,
		logger:   logger,
	}
}

func (h *customerHandler) respondError(c *gin.Context, err error, customerID string) {
	status, code := commerceError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("customer operation failed", zap.String("customer_id", customerID), zap.Error(err))
		fail(c, status, code, "internal error")
		return
	}
	fail(c, status, code, err.Error())
}

func (h *customerHandler) handleList(c *gin.Context) {
	customers, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	ok(c, http.StatusOK, customers, "")
}

func (h *customerHandler) handleGet(c *gin.Context) {
	id := c.Param("id")
	customer, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, customer, "")
}

func (h *customerHandler) handleCreate(c *gin.Context) {
	var req struct {
		ID      string   `json:"id" binding:"required"`
		Name    string   `json:"name" binding:"required"`
		Balance *float64 `json:"balance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		fail(c, http.StatusBadRequest, "INVALID_DATA", "required fields: id, name, balance")
		return
	}

	customer, err := commerce.NewCustomer(req.ID, req.Name, *req.Balance)
	if err != nil {
		h.respondError(c, err, req.ID)
		return
	}
	if err := h.accounts.Create(c.Request.Context(), customer); err != nil {
		h.respondError(c, err, customer.ID)
		return
	}
	ok(c, http.StatusCreated, customer, "Customer created successfully")
}

func (h *customerHandler) handleSetBalance(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Balance *float64 `json:"balance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "balance must be a non-negative number")
		return
	}

	customer, err := h.accounts.SetBalance(c.Request.Context(), id, *req.Balance)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, customer, "Balance updated successfully")
}

// amountRequest is the body of credit and debit calls.
type amountRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

func (h *customerHandler) handleCredit(c *gin.Context) {
	id := c.Param("id")
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive number")
		return
	}

	customer, err := h.accounts.Credit(c.Request.Context(), id, *req.Amount)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, customer, "Balance credited successfully")
}

func (h *customerHandler) handleDebit(c *gin.Context) {
	id := c.Param("id")
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive number")
		return
	}

	customer, err := h.accounts.Debit(c.Request.Context(), id, *req.Amount)
	if err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, customer, "Balance debited successfully")
}

func (h *customerHandler) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, id)
		return
	}
	ok(c, http.StatusOK, nil, "Customer deleted successfully")
}
