// Package mongo implements the commerce and backup storage interfaces on
// MongoDB. Each aggregate lives in its own collection keyed by a unique "id"
// (or "nick" for player data). No operation spans more than one document.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

// Collection name constants.
const (
	colCustomers  = "customers"
	colProducts   = "products"
	colPurchases  = "purchases"
	colPlayerData = "player_data"
)

// compile-time interface checks
var (
	_ commerce.Storage = (*Store)(nil)
	_ backup.Storage   = (*Store)(nil)
)

// Store is a MongoDB backed Aggregate Store. It is constructed once in main
// and passed by reference to whoever needs it.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Open connects to uri and verifies the connection with a ping.
func Open(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("database", database))
	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

// Migrate creates the unique indexes every collection relies on.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

func migrationIndexes() map[string][]mongo.IndexModel {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	return map[string][]mongo.IndexModel{
		colCustomers:  {unique("id")},
		colProducts:   {unique("id")},
		colPurchases:  {unique("id"), {Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "timestamp", Value: 1}}}},
		colPlayerData: {unique("nick"), {Keys: bson.D{{Key: "id", Value: 1}}}},
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect: %w", err)
	}
	s.logger.Info("disconnected from mongodb")
	return nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func now() time.Time {
	return time.Now().UTC()
}

// ==================== Customers ====================

func (s *Store) CreateCustomer(ctx context.Context, c *commerce.Customer) error {
	if c.ID == "" {
		return commerce.ErrEmptyID
	}
	if _, err := s.db.Collection(colCustomers).InsertOne(ctx, toCustomerModel(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return commerce.ErrCustomerExists
		}
		return fmt.Errorf("mongo: create customer: %w", err)
	}
	return nil
}

func (s *Store) ReadCustomer(ctx context.Context, id string) (*commerce.Customer, error) {
	var m customerModel
	err := s.db.Collection(colCustomers).FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, commerce.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("mongo: read customer: %w", err)
	}
	return fromCustomerModel(&m), nil
}

func (s *Store) UpdateCustomerBalance(ctx context.Context, id string, balance float64) (*commerce.Customer, error) {
	var m customerModel
	err := s.db.Collection(colCustomers).FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"balance": balance, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, commerce.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("mongo: update customer balance: %w", err)
	}
	return fromCustomerModel(&m), nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.Collection(colCustomers).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return commerce.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) GetAllCustomers(ctx context.Context) ([]*commerce.Customer, error) {
	var models []customerModel
	if err := s.findAll(ctx, colCustomers, bson.D{{Key: "id", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("mongo: list customers: %w", err)
	}
	result := make([]*commerce.Customer, len(models))
	for i := range models {
		result[i] = fromCustomerModel(&models[i])
	}
	return result, nil
}

// ==================== Products ====================

func (s *Store) CreateProduct(ctx context.Context, p *commerce.Product) error {
	if p.ID == "" {
		return commerce.ErrEmptyID
	}
	if _, err := s.db.Collection(colProducts).InsertOne(ctx, toProductModel(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return commerce.ErrProductExists
		}
		return fmt.Errorf("mongo: create product: %w", err)
	}
	return nil
}

func (s *Store) ReadProduct(ctx context.Context, id string) (*commerce.Product, error) {
	var m productModel
	err := s.db.Collection(colProducts).FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, commerce.ErrProductNotFound
		}
		return nil, fmt.Errorf("mongo: read product: %w", err)
	}
	return fromProductModel(&m), nil
}

func (s *Store) UpdateProductStock(ctx context.Context, id string, stockQuantity int) (*commerce.Product, error) {
	var m productModel
	err := s.db.Collection(colProducts).FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"stockQuantity": stockQuantity, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, commerce.ErrProductNotFound
		}
		return nil, fmt.Errorf("mongo: update product stock: %w", err)
	}
	return fromProductModel(&m), nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.Collection(colProducts).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return commerce.ErrProductNotFound
	}
	return nil
}

func (s *Store) GetAllProducts(ctx context.Context) ([]*commerce.Product, error) {
	var models []productModel
	if err := s.findAll(ctx, colProducts, bson.D{{Key: "id", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("mongo: list products: %w", err)
	}
	result := make([]*commerce.Product, len(models))
	for i := range models {
		result[i] = fromProductModel(&models[i])
	}
	return result, nil
}

// ==================== Purchases ====================

func (s *Store) SavePurchase(ctx context.Context, p *commerce.Purchase) error {
	if p.ID == "" {
		return commerce.ErrEmptyID
	}
	if _, err := s.db.Collection(colPurchases).InsertOne(ctx, toPurchaseModel(p)); err != nil {
		return fmt.Errorf("mongo: save purchase: %w", err)
	}
	return nil
}

func (s *Store) GetAllPurchases(ctx context.Context) ([]*commerce.Purchase, error) {
	var models []purchaseModel
	if err := s.findAll(ctx, colPurchases, bson.D{{Key: "timestamp", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("mongo: list purchases: %w", err)
	}
	result := make([]*commerce.Purchase, len(models))
	for i := range models {
		result[i] = fromPurchaseModel(&models[i])
	}
	return result, nil
}

// ==================== Player data ====================

func (s *Store) SavePlayerData(ctx context.Context, data *backup.PlayerData) (*backup.PlayerData, error) {
	m := toPlayerDataModel(data)
	m.UpdatedAt = now()

	var saved playerDataModel
	err := s.db.Collection(colPlayerData).FindOneAndReplace(ctx,
		bson.M{"nick": m.Nick},
		m,
		options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("mongo: save player data: %w", err)
	}
	return fromPlayerDataModel(&saved), nil
}

func (s *Store) LoadPlayerData(ctx context.Context, nick string) (*backup.PlayerData, error) {
	var m playerDataModel
	err := s.db.Collection(colPlayerData).FindOne(ctx, bson.M{"nick": nick}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, backup.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: load player data: %w", err)
	}
	return fromPlayerDataModel(&m), nil
}

func (s *Store) DeletePlayerData(ctx context.Context, nick string) error {
	res, err := s.db.Collection(colPlayerData).DeleteOne(ctx, bson.M{"nick": nick})
	if err != nil {
		return fmt.Errorf("mongo: delete player data: %w", err)
	}
	if res.DeletedCount == 0 {
		return backup.ErrNotFound
	}
	return nil
}

func (s *Store) ListPlayerData(ctx context.Context) ([]*backup.PlayerData, error) {
	var models []playerDataModel
	if err := s.findAll(ctx, colPlayerData, bson.D{{Key: "nick", Value: 1}}, &models); err != nil {
		return nil, fmt.Errorf("mongo: list player data: %w", err)
	}
	result := make([]*backup.PlayerData, len(models))
	for i := range models {
		result[i] = fromPlayerDataModel(&models[i])
	}
	return result, nil
}

func (s *Store) findAll(ctx context.Context, col string, sort bson.D, out any) error {
	cur, err := s.db.Collection(col).Find(ctx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
