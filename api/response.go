package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// response is the envelope returned by every resource endpoint.
type response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, response{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, response{Success: false, ErrorCode: code, Message: message})
}

// commerceError maps a ledger error to an HTTP status and error code.
func commerceError(err error) (int, string) {
	switch {
	case errors.Is(err, commerce.ErrCustomerNotFound):
		return http.StatusNotFound, "CUSTOMER_NOT_FOUND"
	case errors.Is(err, commerce.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, commerce.ErrCustomerExists):
		return http.StatusConflict, "DUPLICATE_CUSTOMER"
	case errors.Is(err, commerce.ErrProductExists):
		return http.StatusConflict, "DUPLICATE_PRODUCT"
	case errors.Is(err, commerce.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, commerce.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, commerce.ErrInsufficientFunds):
		return http.StatusBadRequest, "INSUFFICIENT_FUNDS"
	case errors.Is(err, commerce.ErrInsufficientStock):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, commerce.ErrInvalidData), errors.Is(err, commerce.ErrEmptyID):
		return http.StatusBadRequest, "INVALID_DATA"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// settlementStatus maps a settlement outcome to an HTTP status.
func settlementStatus(o commerce.Outcome) int {
	if o.Success {
		return http.StatusOK
	}
	switch o.ErrorCode {
	case commerce.CodeCustomerNotFound, commerce.CodeProductNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
