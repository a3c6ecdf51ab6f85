package commerce

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AccountLedger owns read/modify access to customer balances. Every mutation
// is a read followed by a write on the same record with no version check, so
// concurrent debits against one customer can race.
type AccountLedger struct {
	storage CustomerStorage
	logger  *zap.Logger
}

// NewAccountLedger creates a new AccountLedger.
func NewAccountLedger(storage CustomerStorage, logger *zap.Logger) *AccountLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountLedger{
		storage: storage,
		logger:  logger,
	}
}

// Create stores a new customer.
func (l *AccountLedger) Create(ctx context.Context, c *Customer) error {
	if err := l.storage.CreateCustomer(ctx, c); err != nil {
		return err
	}
	l.logger.Info("customer created", zap.String("customer_id", c.ID), zap.Float64("balance", c.Balance))
	return nil
}

// Get returns the customer with the given ID or ErrCustomerNotFound.
func (l *AccountLedger) Get(ctx context.Context, id string) (*Customer, error) {
	return l.storage.ReadCustomer(ctx, id)
}

func (l *AccountLedger) List(ctx context.Context) ([]*Customer, error) {
	customers, err := l.storage.GetAllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}
	return customers, nil
}

func (l *AccountLedger) Delete(ctx context.Context, id string) error {
	if err := l.storage.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	l.logger.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

// SetBalance overwrites the balance of a customer.
func (l *AccountLedger) SetBalance(ctx context.Context, id string, newBalance float64) (*Customer, error) {
	if !finite(newBalance) {
		return nil, fmt.Errorf("%w: balance must be a finite number", ErrInvalidAmount)
	}
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: balance cannot be negative", ErrInvalidAmount)
	}

	c, err := l.storage.UpdateCustomerBalance(ctx, id, newBalance)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("balance updated", zap.String("customer_id", id), zap.Float64("balance", newBalance))
	return c, nil
}

// Credit adds amount to the balance of a customer.
func (l *AccountLedger) Credit(ctx context.Context, id string, amount float64) (*Customer, error) {
	if !finite(amount) || amount <= 0 {
		return nil, fmt.Errorf("%w: amount to credit must be positive", ErrInvalidAmount)
	}

	c, err := l.storage.ReadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := addAmount(c.Balance, amount)
	if err != nil {
		return nil, err
	}
	return l.SetBalance(ctx, id, balance)
}

// Debit subtracts amount from the balance of a customer. It fails with
// ErrInsufficientFunds, leaving the balance untouched, when the balance is
// lower than amount.
func (l *AccountLedger) Debit(ctx context.Context, id string, amount float64) (*Customer, error) {
	if !finite(amount) || amount <= 0 {
		return nil, fmt.Errorf("%w: amount to debit must be positive", ErrInvalidAmount)
	}

	c, err := l.storage.ReadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Balance < amount {
		return nil, ErrInsufficientFunds
	}
	balance, err := subAmount(c.Balance, amount)
	if err != nil {
		return nil, err
	}
	return l.SetBalance(ctx, id, balance)
}
