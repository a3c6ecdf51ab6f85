package commerce

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// InventoryLedger owns read/modify access to product stock. Like the
// AccountLedger it performs unguarded read-modify-write cycles.
type InventoryLedger struct {
	storage ProductStorage
	logger  *zap.Logger
}

// NewInventoryLedger creates a new InventoryLedger.
func NewInventoryLedger(storage ProductStorage, logger *zap.Logger) *InventoryLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryLedger{
		storage: storage,
		logger:  logger,
	}
}

func (l *InventoryLedger) Create(ctx context.Context, p *Product) error {
	if err := l.storage.CreateProduct(ctx, p); err != nil {
		return err
	}
	l.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.Int("stock_quantity", p.StockQuantity),
		zap.Float64("unit_price", p.UnitPrice),
	)
	return nil
}

// Get returns the product with the given ID or ErrProductNotFound.
func (l *InventoryLedger) Get(ctx context.Context, id string) (*Product, error) {
	return l.storage.ReadProduct(ctx, id)
}

func (l *InventoryLedger) List(ctx context.Context) ([]*Product, error) {
	products, err := l.storage.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

func (l *InventoryLedger) Delete(ctx context.Context, id string) error {
	if err := l.storage.DeleteProduct(ctx, id); err != nil {
		return err
	}
	l.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (l *InventoryLedger) SetStock(ctx context.Context, id string, newQuantity int) (*Product, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidQuantity)
	}

	p, err := l.storage.UpdateProductStock(ctx, id, newQuantity)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("stock updated", zap.String("product_id", id), zap.Int("stock_quantity", newQuantity))
	return p, nil
}

func (l *InventoryLedger) Add(ctx context.Context, id string, quantity int) (*Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity to add must be positive", ErrInvalidQuantity)
	}

	p, err := l.storage.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StockQuantity > math.MaxInt-quantity {
		return nil, fmt.Errorf("%w: adding %d units would overflow stock of %d", ErrInvalidQuantity, quantity, p.StockQuantity)
	}
	return l.SetStock(ctx, id, p.StockQuantity+quantity)
}

// Remove takes quantity units out of stock, failing with ErrInsufficientStock
// when fewer are available.
func (l *InventoryLedger) Remove(ctx context.Context, id string, quantity int) (*Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity to remove must be positive", ErrInvalidQuantity)
	}

	p, err := l.storage.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StockQuantity < quantity {
		return nil, ErrInsufficientStock
	}
	return l.SetStock(ctx, id, p.StockQuantity-quantity)
}
