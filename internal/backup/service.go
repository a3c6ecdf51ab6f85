package backup

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service provides player inventory backup operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Save validates data and stores it under the trimmed nick key. The stored
// nick always matches the key.
func (s *Service) Save(ctx context.Context, nick string, data *PlayerData) (*PlayerData, error) {
	key, err := NormalizeKey(nick)
	if err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	toSave := *data
	toSave.Nick = key
	if toSave.Inventory == nil {
		toSave.Inventory = []InventoryItem{}
	}

	saved, err := s.storage.SavePlayerData(ctx, &toSave)
	if err != nil {
		s.logger.Error("failed to save player data", zap.String("nick", key), zap.Error(err))
		return nil, fmt.Errorf("failed to save player data: %w", err)
	}

	s.logger.Info("player data saved", zap.String("nick", key), zap.Int("items", len(saved.Inventory)))
	return saved, nil
}

// Load returns the data stored for nick or ErrNotFound.
func (s *Service) Load(ctx context.Context, nick string) (*PlayerData, error) {
	key, err := NormalizeKey(nick)
	if err != nil {
		return nil, err
	}
	return s.storage.LoadPlayerData(ctx, key)
}

func (s *Service) Delete(ctx context.Context, nick string) error {
	key, err := NormalizeKey(nick)
	if err != nil {
		return err
	}
	if err := s.storage.DeletePlayerData(ctx, key); err != nil {
		return err
	}
	s.logger.Info("player data deleted", zap.String("nick", key))
	return nil
}

func (s *Service) ListAll(ctx context.Context) ([]*PlayerData, error) {
	return s.storage.ListPlayerData(ctx)
}
