package mongo

import (
	"time"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
	"github.com/emiliano-diaz/commerce-api/internal/commerce"
)

type customerModel struct {
	ID        string    `bson:"id"`
	Name      string    `bson:"name"`
	Balance   float64   `bson:"balance"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toCustomerModel(c *commerce.Customer) *customerModel {
	return &customerModel{
		ID:        c.ID,
		Name:      c.Name,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func fromCustomerModel(m *customerModel) *commerce.Customer {
	return &commerce.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type productModel struct {
	ID            string    `bson:"id"`
	Name          string    `bson:"name"`
	StockQuantity int       `bson:"stockQuantity"`
	UnitPrice     float64   `bson:"unitPrice"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toProductModel(p *commerce.Product) *productModel {
	return &productModel{
		ID:            p.ID,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		UnitPrice:     p.UnitPrice,
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}

func fromProductModel(m *productModel) *commerce.Product {
	return &commerce.Product{
		ID:            m.ID,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
		UnitPrice:     m.UnitPrice,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type purchaseModel struct {
	ID          string    `bson:"id"`
	CustomerID  string    `bson:"customerId"`
	ProductID   string    `bson:"productId"`
	Quantity    int       `bson:"quantity"`
	TotalAmount float64   `bson:"totalAmount"`
	Timestamp   time.Time `bson:"timestamp"`
}

func toPurchaseModel(p *commerce.Purchase) *purchaseModel {
	return &purchaseModel{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		ProductID:   p.ProductID,
		Quantity:    p.Quantity,
		TotalAmount: p.TotalAmount,
		Timestamp:   p.Timestamp.UTC(),
	}
}

func fromPurchaseModel(m *purchaseModel) *commerce.Purchase {
	return &commerce.Purchase{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		TotalAmount: m.TotalAmount,
		Timestamp:   m.Timestamp,
	}
}

type inventoryItemModel struct {
	TypeID string `bson:"typeId"`
	Amount int    `bson:"amount"`
	Slot   int    `bson:"slot"`
}

type playerDataModel struct {
	ID        string               `bson:"id"`
	Nick      string               `bson:"nick"`
	Inventory []inventoryItemModel `bson:"inventory"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func toPlayerDataModel(p *backup.PlayerData) *playerDataModel {
	items := make([]inventoryItemModel, len(p.Inventory))
	for i, it := range p.Inventory {
		items[i] = inventoryItemModel{TypeID: it.TypeID, Amount: it.Amount, Slot: it.Slot}
	}
	return &playerDataModel{
		ID:        p.ID,
		Nick:      p.Nick,
		Inventory: items,
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func fromPlayerDataModel(m *playerDataModel) *backup.PlayerData {
	items := make([]backup.InventoryItem, len(m.Inventory))
	for i, it := range m.Inventory {
		items[i] = backup.InventoryItem{TypeID: it.TypeID, Amount: it.Amount, Slot: it.Slot}
	}
	return &backup.PlayerData{
		ID:        m.ID,
		Nick:      m.Nick,
		Inventory: items,
		UpdatedAt: m.UpdatedAt,
	}
}
