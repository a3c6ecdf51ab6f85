package commerce

import (
	"context"
	"sort"
	"sync"
	"time"
)

// CustomerStorage is the Aggregate Store surface used by the AccountLedger.
type CustomerStorage interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	ReadCustomer(ctx context.Context, id string) (*Customer, error)
	UpdateCustomerBalance(ctx context.Context, id string, balance float64) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetAllCustomers(ctx context.Context) ([]*Customer, error)
}

// ProductStorage is the Aggregate Store surface used by the InventoryLedger.
type ProductStorage interface {
	CreateProduct(ctx context.Context, p *Product) error
	ReadProduct(ctx context.Context, id string) (*Product, error)
	UpdateProductStock(ctx context.Context, id string, stockQuantity int) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetAllProducts(ctx context.Context) ([]*Product, error)
}

// PurchaseStorage keeps the append-only purchase audit log.
type PurchaseStorage interface {
	SavePurchase(ctx context.Context, p *Purchase) error
	GetAllPurchases(ctx context.Context) ([]*Purchase, error)
}

// Storage is the main interface for our commerce storage layer. None of the
// methods are atomic across records.
type Storage interface {
	CustomerStorage
	ProductStorage
	PurchaseStorage
}

// LocalStorage provides an in-memory implementation of Storage. Records are
// copied in and out so callers never share memory with the map.
type LocalStorage struct {
	mu        sync.RWMutex
	customers map[string]Customer
	products  map[string]Product
	purchases []Purchase
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage instantiates a new LocalStorage with empty collections.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		customers: map[string]Customer{},
		products:  map[string]Product{},
	}
}

// Returns ErrEmptyID if the customer has an empty ID and ErrCustomerExists
// if the ID is taken.
func (l *LocalStorage) CreateCustomer(_ context.Context, c *Customer) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.customers[c.ID]; ok {
		return ErrCustomerExists
	}
	l.customers[c.ID] = *c
	return nil
}

// ReadCustomer retrieves a customer by ID.
// Returns ErrCustomerNotFound if the customer is not found.
func (l *LocalStorage) ReadCustomer(_ context.Context, id string) (*Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (l *LocalStorage) UpdateCustomerBalance(_ context.Context, id string, balance float64) (*Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	l.customers[id] = c
	return &c, nil
}

func (l *LocalStorage) DeleteCustomer(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(l.customers, id)
	return nil
}

// GetAllCustomers returns every customer ordered by ID.
func (l *LocalStorage) GetAllCustomers(_ context.Context) ([]*Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	customers := make([]*Customer, 0, len(l.customers))
	for _, c := range l.customers {
		c := c
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (l *LocalStorage) CreateProduct(_ context.Context, p *Product) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.products[p.ID]; ok {
		return ErrProductExists
	}
	l.products[p.ID] = *p
	return nil
}

// ReadProduct retrieves a product by ID.
// Returns ErrProductNotFound if the product is not found.
func (l *LocalStorage) ReadProduct(_ context.Context, id string) (*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (l *LocalStorage) UpdateProductStock(_ context.Context, id string, stockQuantity int) (*Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.StockQuantity = stockQuantity
	p.UpdatedAt = time.Now()
	l.products[id] = p
	return &p, nil
}

func (l *LocalStorage) DeleteProduct(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(l.products, id)
	return nil
}

// GetAllProducts returns every product ordered by ID.
func (l *LocalStorage) GetAllProducts(_ context.Context) ([]*Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	products := make([]*Product, 0, len(l.products))
	for _, p := range l.products {
		p := p
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (l *LocalStorage) SavePurchase(_ context.Context, p *Purchase) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purchases = append(l.purchases, *p)
	return nil
}

// GetAllPurchases returns the audit log in insertion order.
func (l *LocalStorage) GetAllPurchases(_ context.Context) ([]*Purchase, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	purchases := make([]*Purchase, len(l.purchases))
	for i := range l.purchases {
		p := l.purchases[i]
		purchases[i] = &p
	}
	return purchases, nil
}
