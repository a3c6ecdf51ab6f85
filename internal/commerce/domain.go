package commerce

import (
	"fmt"
	"strings"
	"time"
)

// Customer is a buyer holding a spendable balance.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is a sellable item with a stock count and a unit price.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StockQuantity int       `json:"stockQuantity"`
	UnitPrice     float64   `json:"unitPrice"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Purchase is the record produced by a successful settlement. It is never
// mutated after creation.
type Purchase struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	ProductID   string    `json:"productId"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"totalAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCustomer builds a Customer from raw input, trimming id and name.
func NewCustomer(id, name string, balance float64) (*Customer, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", ErrInvalidData)
	}
	if !finite(balance) || balance < 0 {
		return nil, fmt.Errorf("%w: balance must be a non-negative finite number", ErrInvalidAmount)
	}

	now := time.Now()
	return &Customer{
		ID:        id,
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewProduct builds a Product from raw input, trimming id and name.
func NewProduct(id, name string, stockQuantity int, unitPrice float64) (*Product, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", ErrInvalidData)
	}
	if stockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidQuantity)
	}
	if !finite(unitPrice) || unitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price must be a non-negative finite number", ErrInvalidAmount)
	}

	now := time.Now()
	return &Product{
		ID:            id,
		Name:          name,
		StockQuantity: stockQuantity,
		UnitPrice:     unitPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
