package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CentralStorageName identifies the hotel's single warehouse location.
const CentralStorageName = "Central Storage"

// MinibarLocationName is the name of the location owned by a room.
func MinibarLocationName(roomNumber string) string {
	return "Minibar " + roomNumber
}

type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type InventoryItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockEntry is the quantity of one item at one location. Quantity never drops below zero.
type StockEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ItemID     uint           `gorm:"not null;uniqueIndex:idx_stock_item_location" json:"item_id"`
	LocationID uint           `gorm:"not null;uniqueIndex:idx_stock_item_location;index" json:"location_id"`
	Quantity   int            `gorm:"not null;default:0" json:"quantity"`
	Item       *InventoryItem `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Location   *Location      `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (StockEntry) TableName() string { return "stock" }

type Receipt struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Reference string        `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Supplier  string        `gorm:"size:255;not null" json:"supplier"`
	Lines     []ReceiptLine `gorm:"foreignKey:ReceiptID" json:"lines"`
	CreatedAt time.Time     `json:"created_at"`
}

type ReceiptLine struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ReceiptID uint           `gorm:"index;not null" json:"receipt_id"`
	ItemID    uint           `gorm:"index;not null" json:"item_id"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	Item      *InventoryItem `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
}

func (ReceiptLine) TableName() string { return "receipt_items" }
