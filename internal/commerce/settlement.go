package commerce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorCode identifies why a settlement failed.
type ErrorCode string

const (
	CodeInvalidQuantity   ErrorCode = "INVALID_QUANTITY"
	CodeCustomerNotFound  ErrorCode = "CUSTOMER_NOT_FOUND"
	CodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeSettlementFailed  ErrorCode = "SETTLEMENT_FAILED"
)

// Outcome is the structured result of one settlement. Callers must check
// Success; a failed settlement is not reported as a Go error.
type Outcome struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Purchase  *Purchase `json:"purchase,omitempty"`
	ErrorCode ErrorCode `json:"errorCode,omitempty"`
}

func failure(code ErrorCode, message string) Outcome {
	return Outcome{Success: false, Message: message, ErrorCode: code}
}

// PurchaseMetadata summarizes a purchase search.
type PurchaseMetadata struct {
	Quantity    int     `json:"quantity"`
	TotalUnits  int     `json:"totalUnits"`
	TotalAmount float64 `json:"totalAmount"`
}

// SettlementEngine applies purchases against the account and inventory
// ledgers. The balance debit and the stock removal are two independent
// writes: if the removal fails after the debit succeeded the debit is not
// reversed.
type SettlementEngine struct {
	accounts  *AccountLedger
	inventory *InventoryLedger
	purchases PurchaseStorage
	logger    *zap.Logger
	now       func() time.Time
}

// NewSettlementEngine creates a new SettlementEngine. purchases may be nil,
// in which case successful purchases are not recorded.
func NewSettlementEngine(accounts *AccountLedger, inventory *InventoryLedger, purchases PurchaseStorage, logger *zap.Logger) *SettlementEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementEngine{
		accounts:  accounts,
		inventory: inventory,
		purchases: purchases,
		logger:    logger,
		now:       time.Now,
	}
}

// Settle validates and applies one purchase. Preconditions are all checked
// before any mutation; the balance is always debited before stock is removed.
func (e *SettlementEngine) Settle(ctx context.Context, customerID, productID string, quantity int) Outcome {
	if quantity <= 0 {
		return failure(CodeInvalidQuantity, "Quantity must be greater than zero")
	}

	customer, err := e.accounts.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return failure(CodeCustomerNotFound, "Customer not found")
		}
		return e.settlementFailed(err, customerID, productID, quantity)
	}

	product, err := e.inventory.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return failure(CodeProductNotFound, "Product not found")
		}
		return e.settlementFailed(err, customerID, productID, quantity)
	}

	if product.StockQuantity < quantity {
		return failure(CodeInsufficientStock, "Insufficient stock")
	}

	totalAmount, err := totalFor(product.UnitPrice, quantity)
	if err != nil {
		return e.settlementFailed(err, customerID, productID, quantity)
	}
	if customer.Balance < totalAmount {
		return failure(CodeInsufficientFunds, "Insufficient funds")
	}

	if _, err := e.accounts.Debit(ctx, customerID, totalAmount); err != nil {
		return e.settlementFailed(err, customerID, productID, quantity)
	}

	if _, err := e.inventory.Remove(ctx, productID, quantity); err != nil {
		e.logger.Error("stock removal failed after debit, customer left debited",
			zap.String("customer_id", customerID),
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Float64("total_amount", totalAmount),
			zap.Error(err),
		)
		return e.settlementFailed(err, customerID, productID, quantity)
	}

	purchase := &Purchase{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProductID:   productID,
		Quantity:    quantity,
		TotalAmount: totalAmount,
		Timestamp:   e.now(),
	}

	if e.purchases != nil {
		if err := e.purchases.SavePurchase(ctx, purchase); err != nil {
			e.logger.Warn("failed to record purchase", zap.String("purchase_id", purchase.ID), zap.Error(err))
		}
	}

	e.logger.Info("purchase settled",
		zap.String("purchase_id", purchase.ID),
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Float64("total_amount", totalAmount),
	)

	return Outcome{
		Success:  true,
		Message:  "Purchase completed successfully",
		Purchase: purchase,
	}
}

func (e *SettlementEngine) settlementFailed(err error, customerID, productID string, quantity int) Outcome {
	e.logger.Error("settlement failed",
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Error(err),
	)
	return failure(CodeSettlementFailed, fmt.Sprintf("Failed to complete purchase: %v", err))
}

// SearchPurchases lists recorded purchases, optionally filtered by customer
// and product, together with aggregate metadata.
func (e *SettlementEngine) SearchPurchases(ctx context.Context, customerID, productID string) ([]*Purchase, PurchaseMetadata, error) {
	if e.purchases == nil {
		return []*Purchase{}, PurchaseMetadata{}, nil
	}

	all, err := e.purchases.GetAllPurchases(ctx)
	if err != nil {
		e.logger.Error("failed to get purchases from storage", zap.Error(err))
		return nil, PurchaseMetadata{}, fmt.Errorf("failed to retrieve purchases: %w", err)
	}

	filtered := make([]*Purchase, 0)
	metadata := PurchaseMetadata{}
	for _, p := range all {
		if customerID != "" && p.CustomerID != customerID {
			continue
		}
		if productID != "" && p.ProductID != productID {
			continue
		}

		filtered = append(filtered, p)
		metadata.Quantity++
		metadata.TotalUnits += p.Quantity
		total, err := addAmount(metadata.TotalAmount, p.TotalAmount)
		if err != nil {
			return nil, PurchaseMetadata{}, fmt.Errorf("failed to total purchases: %w", err)
		}
		metadata.TotalAmount = total
	}

	e.logger.Info("purchase search completed",
		zap.String("customer_filter", customerID),
		zap.String("product_filter", productID),
		zap.Int("results_count", len(filtered)),
	)

	return filtered, metadata, nil
}
