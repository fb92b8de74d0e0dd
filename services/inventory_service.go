package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-pms/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService manages the item catalogue and read views over locations and stock.
type InventoryService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewInventoryService(db *gorm.DB, log zerolog.Logger) *InventoryService {
	return &InventoryService{DB: db, log: log.With().Str("service", "inventory").Logger()}
}

type ItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type ItemStock struct {
	Item    *models.InventoryItem `json:"item"`
	Entries []models.StockEntry   `json:"entries"`
	Total   int                   `json:"total"`
}

func (s *InventoryService) CreateItem(ctx context.Context, in ItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}

	item := models.InventoryItem{Name: name, Description: strings.TrimSpace(in.Description), Price: in.Price}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: item %q already exists", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	loggerFor(ctx, s.log).Info().Uint("item_id", item.ID).Str("name", item.Name).Msg("inventory item created")
	return &item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uint) (*models.InventoryItem, error) {
	return findByID[models.InventoryItem](s.DB.WithContext(ctx), "item", id)
}

func (s *InventoryService) ListItems(ctx context.Context, offset, limit int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.DB.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *InventoryService) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.DB.WithContext(ctx).Order("id").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (s *InventoryService) StockAtLocation(ctx context.Context, locationID uint) ([]models.StockEntry, error) {
	db := s.DB.WithContext(ctx)
	if err := ensureExists[models.Location](db, "location", locationID); err != nil {
		return nil, err
	}

	var entries []models.StockEntry
	if err := db.Preload("Item").Where("location_id = ?", locationID).Order("item_id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock for location %d: %w", locationID, err)
	}
	return entries, nil
}

// StockForItem lists an item's entries across all locations with the system-wide total.
func (s *InventoryService) StockForItem(ctx context.Context, itemID uint) (*ItemStock, error) {
	db := s.DB.WithContext(ctx)
	item, err := findByID[models.InventoryItem](db, "item", itemID)
	if err != nil {
		return nil, err
	}

	out := &ItemStock{Item: item}
	if err := db.Preload("Location").Where("item_id = ?", itemID).Order("location_id").Find(&out.Entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock for item %d: %w", itemID, err)
	}
	for _, e := range out.Entries {
		out.Total += e.Quantity
	}
	return out, nil
}
