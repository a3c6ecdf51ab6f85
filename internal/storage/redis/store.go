// Package redis implements the commerce and backup storage interfaces on
// Redis. Records are JSON strings under namespaced keys; a set per
// collection indexes the ids.
//
// Key layout (namespace "commerce"):
//
//	commerce:customer:<id>   customer JSON
//	commerce:customers       set of customer ids
//	commerce:product:<id>    product JSON
//	commerce:products        set of product ids
//	commerce:purchases       list of purchase JSON, oldest first
//	commerce:player:<nick>   player data JSON
//	commerce:players         set of nicks
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

var (
	_ commerce.Storage = (*Store)(nil)
	_ backup.Storage   = (*Store)(nil)
)

var ErrInvalidConfiguration = errors.New("redis: invalid configuration")

// Options configures a Store.
type Options struct {
	RedisURL  string
	Namespace string
	Logger    *zap.Logger
}

// Store is a Redis backed Aggregate Store.
type Store struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

// New parses opts.RedisURL, connects and pings the server.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.RedisURL == "" {
		return nil, fmt.Errorf("redis URL is required: %w", ErrInvalidConfiguration)
	}
	redisOpt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", ErrInvalidConfiguration)
	}

	s := NewFromClient(redis.NewClient(redisOpt), opts.Namespace, opts.Logger)
	if err := s.Ping(ctx); err != nil {
		_ = s.client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	s.logger.Info("connected to redis", zap.String("namespace", s.namespace), zap.Int("db", redisOpt.DB))
	return s, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, namespace string, logger *zap.Logger) *Store {
	if namespace == "" {
		namespace = "commerce"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, namespace: namespace, logger: logger}
}

func (s *Store) key(parts ...string) string {
	k := s.namespace
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Migrate is a no-op; Redis needs no schema.
func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis: close: %w", err)
	}
	s.logger.Info("redis connection closed")
	return nil
}

// create stores v under key only if the key is free and adds id to index.
func (s *Store) create(ctx context.Context, key, index, id string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, key, raw, 0).Result()
	if err != nil || !ok {
		return ok, err
	}
	return true, s.client.SAdd(ctx, index, id).Err()
}

// read decodes the JSON at key into v. It reports false when the key is absent.
func (s *Store) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, v)
}

// replace overwrites an existing key. It reports false when the key is absent.
func (s *Store) replace(ctx context.Context, key string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return s.client.SetXX(ctx, key, raw, 0).Result()
}

func (s *Store) remove(ctx context.Context, key, index, id string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if err := s.client.SRem(ctx, index, id).Err(); err != nil {
		return false, err
	}
	return n > 0, nil
}

// loadAll reads every record whose id is in index, calling decode for each
// raw value. Ids whose record vanished are skipped.
func (s *Store) loadAll(ctx context.Context, index string, keyOf func(string) string, decode func([]byte) error) error {
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(str)); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Customers ====================

func (s *Store) customerKey(id string) string { return s.key("customer", id) }

func (s *Store) CreateCustomer(ctx context.Context, c *commerce.Customer) error {
	if c.ID == "" {
		return commerce.ErrEmptyID
	}
	ok, err := s.create(ctx, s.customerKey(c.ID), s.key("customers"), c.ID, c)
	if err != nil {
		return fmt.Errorf("redis: create customer: %w", err)
	}
	if !ok {
		return commerce.ErrCustomerExists
	}
	return nil
}

func (s *Store) ReadCustomer(ctx context.Context, id string) (*commerce.Customer, error) {
	var c commerce.Customer
	found, err := s.read(ctx, s.customerKey(id), &c)
	if err != nil {
		return nil, fmt.Errorf("redis: read customer: %w", err)
	}
	if !found {
		return nil, commerce.ErrCustomerNotFound
	}
	return &c, nil
}

func (s *Store) UpdateCustomerBalance(ctx context.Context, id string, balance float64) (*commerce.Customer, error) {
	c, err := s.ReadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	ok, err := s.replace(ctx, s.customerKey(id), c)
	if err != nil {
		return nil, fmt.Errorf("redis: update customer balance: %w", err)
	}
	if !ok {
		return nil, commerce.ErrCustomerNotFound
	}
	return c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	ok, err := s.remove(ctx, s.customerKey(id), s.key("customers"), id)
	if err != nil {
		return fmt.Errorf("redis: delete customer: %w", err)
	}
	if !ok {
		return commerce.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) GetAllCustomers(ctx context.Context) ([]*commerce.Customer, error) {
	customers := make([]*commerce.Customer, 0)
	err := s.loadAll(ctx, s.key("customers"), s.customerKey, func(raw []byte) error {
		var c commerce.Customer
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		customers = append(customers, &c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: list customers: %w", err)
	}
	return customers, nil
}

// ==================== Products ====================

func (s *Store) productKey(id string) string { return s.key("product", id) }

func (s *Store) CreateProduct(ctx context.Context, p *commerce.Product) error {
	if p.ID == "" {
		return commerce.ErrEmptyID
	}
	ok, err := s.create(ctx, s.productKey(p.ID), s.key("products"), p.ID, p)
	if err != nil {
		return fmt.Errorf("redis: create product: %w", err)
	}
	if !ok {
		return commerce.ErrProductExists
	}
	return nil
}

func (s *Store) ReadProduct(ctx context.Context, id string) (*commerce.Product, error) {
	var p commerce.Product
	found, err := s.read(ctx, s.productKey(id), &p)
	if err != nil {
		return nil, fmt.Errorf("redis: read product: %w", err)
	}
	if !found {
		return nil, commerce.ErrProductNotFound
	}
	return &p, nil
}

func (s *Store) UpdateProductStock(ctx context.Context, id string, stockQuantity int) (*commerce.Product, error) {
	p, err := s.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.StockQuantity = stockQuantity
	p.UpdatedAt = time.Now()
	ok, err := s.replace(ctx, s.productKey(id), p)
	if err != nil {
		return nil, fmt.Errorf("redis: update product stock: %w", err)
	}
	if !ok {
		return nil, commerce.ErrProductNotFound
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	ok, err := s.remove(ctx, s.productKey(id), s.key("products"), id)
	if err != nil {
		return fmt.Errorf("redis: delete product: %w", err)
	}
	if !ok {
		return commerce.ErrProductNotFound
	}
	return nil
}

func (s *Store) GetAllProducts(ctx context.Context) ([]*commerce.Product, error) {
	products := make([]*commerce.Product, 0)
	err := s.loadAll(ctx, s.key("products"), s.productKey, func(raw []byte) error {
		var p commerce.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		products = append(products, &p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: list products: %w", err)
	}
	return products, nil
}

// ==================== Purchases ====================

func (s *Store) SavePurchase(ctx context.Context, p *commerce.Purchase) error {
	if p.ID == "" {
		return commerce.ErrEmptyID
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("redis: save purchase: %w", err)
	}
	if err := s.client.RPush(ctx, s.key("purchases"), raw).Err(); err != nil {
		return fmt.Errorf("redis: save purchase: %w", err)
	}
	return nil
}

func (s *Store) GetAllPurchases(ctx context.Context) ([]*commerce.Purchase, error) {
	values, err := s.client.LRange(ctx, s.key("purchases"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list purchases: %w", err)
	}
	purchases := make([]*commerce.Purchase, 0, len(values))
	for _, v := range values {
		var p commerce.Purchase
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			return nil, fmt.Errorf("redis: decode purchase: %w", err)
		}
		purchases = append(purchases, &p)
	}
	return purchases, nil
}

// ==================== Player data ====================

func (s *Store) playerKey(nick string) string { return s.key("player", nick) }

func (s *Store) SavePlayerData(ctx context.Context, data *backup.PlayerData) (*backup.PlayerData, error) {
	saved := *data
	saved.UpdatedAt = time.Now()
	raw, err := json.Marshal(&saved)
	if err != nil {
		return nil, fmt.Errorf("redis: save player data: %w", err)
	}
	if err := s.client.Set(ctx, s.playerKey(saved.Nick), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis: save player data: %w", err)
	}
	if err := s.client.SAdd(ctx, s.key("players"), saved.Nick).Err(); err != nil {
		return nil, fmt.Errorf("redis: index player data: %w", err)
	}
	return &saved, nil
}

func (s *Store) LoadPlayerData(ctx context.Context, nick string) (*backup.PlayerData, error) {
	var d backup.PlayerData
	found, err := s.read(ctx, s.playerKey(nick), &d)
	if err != nil {
		return nil, fmt.Errorf("redis: load player data: %w", err)
	}
	if !found {
		return nil, backup.ErrNotFound
	}
	return &d, nil
}

func (s *Store) DeletePlayerData(ctx context.Context, nick string) error {
	ok, err := s.remove(ctx, s.playerKey(nick), s.key("players"), nick)
	if err != nil {
		return fmt.Errorf("redis: delete player data: %w", err)
	}
	if !ok {
		return backup.ErrNotFound
	}
	return nil
}

func (s *Store) ListPlayerData(ctx context.Context) ([]*backup.PlayerData, error) {
	all := make([]*backup.PlayerData, 0)
	err := s.loadAll(ctx, s.key("players"), s.playerKey, func(raw []byte) error {
		var d backup.PlayerData
		if err := json.Unmarshal(raw, &d); err != nil {
			return err
		}
		all = append(all, &d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: list player data: %w", err)
	}
	return all, nil
}
