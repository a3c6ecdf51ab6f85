package backup

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Storage persists PlayerData keyed by nick.
type Storage interface {
	// SavePlayerData inserts or replaces the record for data.Nick.
	SavePlayerData(ctx context.Context, data *PlayerData) (*PlayerData, error)
	LoadPlayerData(ctx context.Context, nick string) (*PlayerData, error)
	DeletePlayerData(ctx context.Context, nick string) error
	ListPlayerData(ctx context.Context) ([]*PlayerData, error)
}

// LocalStorage is an in-memory Storage.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]PlayerData
}

var _ Storage = (*LocalStorage)(nil)

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[string]PlayerData{}}
}

func (l *LocalStorage) SavePlayerData(_ context.Context, data *PlayerData) (*PlayerData, error) {
	saved := *data
	saved.Inventory = append([]InventoryItem{}, data.Inventory...)
	saved.UpdatedAt = time.Now()

	l.mu.Lock()
	l.m[saved.Nick] = saved
	l.mu.Unlock()

	out := saved
	out.Inventory = append([]InventoryItem{}, saved.Inventory...)
	return &out, nil
}

func (l *LocalStorage) LoadPlayerData(_ context.Context, nick string) (*PlayerData, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.m[nick]
	if !ok {
		return nil, ErrNotFound
	}
	d.Inventory = append([]InventoryItem{}, d.Inventory...)
	return &d, nil
}

func (l *LocalStorage) DeletePlayerData(_ context.Context, nick string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[nick]; !ok {
		return ErrNotFound
	}
	delete(l.m, nick)
	return nil
}

func (l *LocalStorage) ListPlayerData(_ context.Context) ([]*PlayerData, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]*PlayerData, 0, len(l.m))
	for _, d := range l.m {
		d := d
		d.Inventory = append([]InventoryItem{}, d.Inventory...)
		all = append(all, &d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Nick < all[j].Nick })
	return all, nil
}
