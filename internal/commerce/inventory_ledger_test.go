package commerce

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestInventory(t *testing.T, stock int) *InventoryLedger {
	t.Helper()
	ledger := NewInventoryLedger(NewLocalStorage(), zaptest.NewLogger(t))
	p, err := NewProduct("prod-1", "Notebook", stock, 500)
	require.NoError(t, err)
	require.NoError(t, ledger.Create(context.Background(), p))
	return ledger
}

func TestInventoryLedger_SetStock(t *testing.T) {
	ledger := newTestInventory(t, 10)
	ctx := context.Background()

	p, err := ledger.SetStock(ctx, "prod-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockQuantity)

	_, err = ledger.SetStock(ctx, "prod-1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ledger.SetStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryLedger_Add(t *testing.T) {
	ledger := newTestInventory(t, 10)
	ctx := context.Background()

	p, err := ledger.Add(ctx, "prod-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 15, p.StockQuantity)

	_, err = ledger.Add(ctx, "prod-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ledger.Add(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryLedger_Remove(t *testing.T) {
	ledger := newTestInventory(t, 10)
	ctx := context.Background()

	p, err := ledger.Remove(ctx, "prod-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, p.StockQuantity)

	_, err = ledger.Remove(ctx, "prod-1", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ledger.Remove(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryLedger_RemoveInsufficientStockLeavesStock(t *testing.T) {
	ledger := newTestInventory(t, 5)
	ctx := context.Background()

	_, err := ledger.Remove(ctx, "prod-1", 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	p, err := ledger.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)
}

func TestInventoryLedger_AddOverflow(t *testing.T) {
	ledger := newTestInventory(t, 10)
	ctx := context.Background()

	_, err := ledger.Add(ctx, "prod-1", math.MaxInt)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "overflow")

	p, err := ledger.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQuantity)
}
