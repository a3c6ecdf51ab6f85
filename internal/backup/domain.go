// Package backup stores and restores player inventory snapshots keyed by
// nickname, and provides an HTTP client for game servers to reach them.
package backup

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("player data not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrInvalidData = errors.New("invalid player data")
)

// InventoryItem is one occupied inventory slot.
type InventoryItem struct {
	TypeID string `json:"typeId"`
	Amount int    `json:"amount"`
	Slot   int    `json:"slot"`
}

// PlayerData is the saved inventory of one player.
type PlayerData struct {
	ID        string          `json:"id"`
	Nick      string          `json:"nick"`
	Inventory []InventoryItem `json:"inventory"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

// NewPlayerData validates raw input and returns a PlayerData whose id and
// nick are trimmed and whose inventory is never nil.
func NewPlayerData(id, nick string, inventory []InventoryItem) (*PlayerData, error) {
	p := &PlayerData{
		ID:        strings.TrimSpace(id),
		Nick:      strings.TrimSpace(nick),
		Inventory: inventory,
	}
	if p.Inventory == nil {
		p.Inventory = []InventoryItem{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants of a PlayerData value.
func (p *PlayerData) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidData)
	}
	if strings.TrimSpace(p.Nick) == "" {
		return fmt.Errorf("%w: player nick is required", ErrInvalidData)
	}
	for i, item := range p.Inventory {
		if strings.TrimSpace(item.TypeID) == "" {
			return fmt.Errorf("%w: item %d: typeId is required", ErrInvalidData, i)
		}
		if item.Amount < 0 {
			return fmt.Errorf("%w: item %d: amount must be a non-negative integer", ErrInvalidData, i)
		}
		if item.Slot < 0 {
			return fmt.Errorf("%w: item %d: slot must be a non-negative integer", ErrInvalidData, i)
		}
	}
	return nil
}

// NormalizeKey trims a nickname key and rejects empty ones.
func NormalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: key must be a non-empty string", ErrInvalidKey)
	}
	return key, nil
}
