package commerce

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSettlementFixture(t *testing.T, storage Storage, balance float64, stock int, unitPrice float64) *SettlementEngine {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	c, err := NewCustomer("cliente1", "Joao", balance)
	require.NoError(t, err)
	require.NoError(t, storage.CreateCustomer(ctx, c))

	p, err := NewProduct("produto1", "Notebook", stock, unitPrice)
	require.NoError(t, err)
	require.NoError(t, storage.CreateProduct(ctx, p))

	return NewSettlementEngine(
		NewAccountLedger(storage, logger),
		NewInventoryLedger(storage, logger),
		storage,
		logger,
	)
}

func assertState(t *testing.T, storage Storage, balance float64, stock int) {
	t.Helper()
	ctx := context.Background()

	c, err := storage.ReadCustomer(ctx, "cliente1")
	require.NoError(t, err)
	assert.Equal(t, balance, c.Balance, "balance")

	p, err := storage.ReadProduct(ctx, "produto1")
	require.NoError(t, err)
	assert.Equal(t, stock, p.StockQuantity, "stock")
}

func TestSettle_Success(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 1000, 10, 500)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 1)

	require.True(t, outcome.Success, outcome.Message)
	assert.Empty(t, outcome.ErrorCode)
	require.NotNil(t, outcome.Purchase)
	assert.NotEmpty(t, outcome.Purchase.ID)
	assert.Equal(t, "cliente1", outcome.Purchase.CustomerID)
	assert.Equal(t, "produto1", outcome.Purchase.ProductID)
	assert.Equal(t, 1, outcome.Purchase.Quantity)
	assert.Equal(t, 500.0, outcome.Purchase.TotalAmount)
	assert.Equal(t, fixed, outcome.Purchase.Timestamp)
	assertState(t, storage, 500, 9)

	purchases, err := storage.GetAllPurchases(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, outcome.Purchase.ID, purchases[0].ID)
}

func TestSettle_MultipleUnits(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 2000, 10, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 3)

	require.True(t, outcome.Success, outcome.Message)
	assert.Equal(t, 1500.0, outcome.Purchase.TotalAmount)
	assertState(t, storage, 500, 7)
}

func TestSettle_Failures(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		stock    int
		customer string
		product  string
		quantity int
		wantCode ErrorCode
		wantMsg  string
	}{
		{"zero quantity", 1000, 10, "cliente1", "produto1", 0, CodeInvalidQuantity, "Quantity must be greater than zero"},
		{"negative quantity", 1000, 10, "cliente1", "produto1", -3, CodeInvalidQuantity, "Quantity must be greater than zero"},
		{"unknown customer", 1000, 10, "nobody", "produto1", 1, CodeCustomerNotFound, "Customer not found"},
		{"unknown product", 1000, 10, "cliente1", "nothing", 1, CodeProductNotFound, "Product not found"},
		{"insufficient funds", 100, 10, "cliente1", "produto1", 1, CodeInsufficientFunds, "Insufficient funds"},
		{"insufficient stock", 1000, 5, "cliente1", "produto1", 10, CodeInsufficientStock, "Insufficient stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewLocalStorage()
			engine := newSettlementFixture(t, storage, tt.balance, tt.stock, 500)

			outcome := engine.Settle(context.Background(), tt.customer, tt.product, tt.quantity)

			assert.False(t, outcome.Success)
			assert.Equal(t, tt.wantCode, outcome.ErrorCode)
			assert.Equal(t, tt.wantMsg, outcome.Message)
			assert.Nil(t, outcome.Purchase)
			assertState(t, storage, tt.balance, tt.stock)

			purchases, err := storage.GetAllPurchases(context.Background())
			require.NoError(t, err)
			assert.Empty(t, purchases)
		})
	}
}

func TestSettle_StockCheckedBeforeFunds(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 1, 1, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 2)

	assert.Equal(t, CodeInsufficientStock, outcome.ErrorCode)
}

type failingStockStorage struct {
	*LocalStorage
}

func (f failingStockStorage) UpdateProductStock(context.Context, string, int) (*Product, error) {
	return nil, errors.New("connection reset")
}

func TestSettle_StockRemovalFailureKeepsDebit(t *testing.T) {
	storage := failingStockStorage{NewLocalStorage()}
	engine := newSettlementFixture(t, storage, 1000, 10, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 1)

	assert.False(t, outcome.Success)
	assert.Equal(t, CodeSettlementFailed, outcome.ErrorCode)
	assert.Contains(t, outcome.Message, "connection reset")
	// The debit is not compensated.
	assertState(t, storage, 500, 10)
}

type failingBalanceStorage struct {
	*LocalStorage
}

func (f failingBalanceStorage) UpdateCustomerBalance(context.Context, string, float64) (*Customer, error) {
	return nil, errors.New("write timeout")
}

func TestSettle_DebitFailureLeavesStock(t *testing.T) {
	storage := failingBalanceStorage{NewLocalStorage()}
	engine := newSettlementFixture(t, storage, 1000, 10, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 1)

	assert.False(t, outcome.Success)
	assert.Equal(t, CodeSettlementFailed, outcome.ErrorCode)
	assert.Contains(t, outcome.Message, "write timeout")
	assert.Nil(t, outcome.Purchase)
	assertState(t, storage, 1000, 10)

	purchases, err := storage.GetAllPurchases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestSettle_TotalOutOfRange(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 1000, 10, math.MaxFloat64)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 2)

	assert.False(t, outcome.Success)
	assert.Equal(t, CodeSettlementFailed, outcome.ErrorCode)
	assertState(t, storage, 1000, 10)
}

func TestSettle_NonFiniteStoredBalance(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 1000, 10, 500)
	// Written straight to storage, bypassing ledger validation.
	_, err := storage.UpdateCustomerBalance(context.Background(), "cliente1", math.Inf(1))
	require.NoError(t, err)

	var outcome Outcome
	require.NotPanics(t, func() {
		outcome = engine.Settle(context.Background(), "cliente1", "produto1", 1)
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, CodeSettlementFailed, outcome.ErrorCode)
	assertState(t, storage, math.Inf(1), 10)
}

type failingReadStorage struct {
	*LocalStorage
}

func (f failingReadStorage) ReadCustomer(context.Context, string) (*Customer, error) {
	return nil, errors.New("store unavailable")
}

func TestSettle_LookupFailure(t *testing.T) {
	storage := failingReadStorage{NewLocalStorage()}
	engine := newSettlementFixture(t, storage, 1000, 10, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 1)

	assert.False(t, outcome.Success)
	assert.Equal(t, CodeSettlementFailed, outcome.ErrorCode)
}

type failingPurchaseStorage struct {
	*LocalStorage
}

func (f failingPurchaseStorage) SavePurchase(context.Context, *Purchase) error {
	return errors.New("audit log down")
}

func TestSettle_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	storage := failingPurchaseStorage{NewLocalStorage()}
	engine := newSettlementFixture(t, storage, 1000, 10, 500)

	outcome := engine.Settle(context.Background(), "cliente1", "produto1", 2)

	require.True(t, outcome.Success)
	assertState(t, storage, 0, 8)
}

func TestSettle_ConcurrentDistinctPairs(t *testing.T) {
	storage := NewLocalStorage()
	logger := zaptest.NewLogger(t)
	ctx := context.Background()
	engine := NewSettlementEngine(NewAccountLedger(storage, logger), NewInventoryLedger(storage, logger), storage, logger)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		c, err := NewCustomer("c-"+id, id, 100)
		require.NoError(t, err)
		require.NoError(t, storage.CreateCustomer(ctx, c))
		p, err := NewProduct("p-"+id, id, 4, 10)
		require.NoError(t, err)
		require.NoError(t, storage.CreateProduct(ctx, p))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			outcome := engine.Settle(ctx, "c-"+id, "p-"+id, 2)
			assert.True(t, outcome.Success, outcome.Message)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		c, err := storage.ReadCustomer(ctx, "c-"+id)
		require.NoError(t, err)
		assert.Equal(t, 80.0, c.Balance)
		p, err := storage.ReadProduct(ctx, "p-"+id)
		require.NoError(t, err)
		assert.Equal(t, 2, p.StockQuantity)
	}
}

func TestSearchPurchases(t *testing.T) {
	storage := NewLocalStorage()
	engine := newSettlementFixture(t, storage, 5000, 10, 500)
	ctx := context.Background()

	other, err := NewProduct("produto2", "Mouse", 10, 25.5)
	require.NoError(t, err)
	require.NoError(t, storage.CreateProduct(ctx, other))

	require.True(t, engine.Settle(ctx, "cliente1", "produto1", 2).Success)
	require.True(t, engine.Settle(ctx, "cliente1", "produto2", 4).Success)

	all, meta, err := engine.SearchPurchases(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, PurchaseMetadata{Quantity: 2, TotalUnits: 6, TotalAmount: 1102}, meta)

	byProduct, meta, err := engine.SearchPurchases(ctx, "cliente1", "produto2")
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, 102.0, meta.TotalAmount)

	none, meta, err := engine.SearchPurchases(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, meta.Quantity)
}
