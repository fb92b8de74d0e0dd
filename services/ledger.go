package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger store primitives. Every helper takes the *gorm.DB it must run on,
// normally the transaction of the calling operation.

func findByID[T any](tx *gorm.DB, entity string, id uint, preloads ...string) (*T, error) {
	var out T
	q := tx
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: entity, ID: id}
		}
		return nil, fmt.Errorf("failed to load %s %d: %w", entity, id, err)
	}
	return &out, nil
}

// lockByID loads a row with SELECT ... FOR UPDATE so concurrent writers of the same row queue up.
func lockByID[T any](tx *gorm.DB, entity string, id uint) (*T, error) {
	return findByID[T](tx.Clauses(clause.Locking{Strength: "UPDATE"}), entity, id)
}

func ensureExists[T any](tx *gorm.DB, entity string, id uint) error {
	var count int64
	if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s %d: %w", entity, id, err)
	}
	if count == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// incrementStock upserts the (item, location) entry and adds qty in a single statement.
func incrementStock(tx *gorm.DB, itemID, locationID uint, qty int) error {
	entry := models.StockEntry{ItemID: itemID, LocationID: locationID, Quantity: qty}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to add stock for item %d at location %d: %w", itemID, locationID, err)
	}
	return nil
}

// decrementStock subtracts qty only if enough is on hand. The guarded UPDATE is the
// serialization point for concurrent removals of the same entry.
func decrementStock(tx *gorm.DB, itemID, locationID uint, qty int) error {
	res := tx.Model(&models.StockEntry{}).
		Where("item_id = ? AND location_id = ? AND quantity >= ?", itemID, locationID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to remove stock for item %d at location %d: %w", itemID, locationID, res.Error)
	}
	if res.RowsAffected == 0 {
		available, err := stockQuantity(tx, itemID, locationID)
		if err != nil {
			return err
		}
		return &InsufficientStockError{ItemID: itemID, LocationID: locationID, Requested: qty, Available: available}
	}
	return nil
}

func stockQuantity(tx *gorm.DB, itemID, locationID uint) (int, error) {
	var entry models.StockEntry
	err := tx.Where("item_id = ? AND location_id = ?", itemID, locationID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock for item %d at location %d: %w", itemID, locationID, err)
	}
	return entry.Quantity, nil
}

func loadStockEntry(tx *gorm.DB, itemID, locationID uint) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := tx.Preload("Item").Preload("Location").
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StockEntry{ItemID: itemID, LocationID: locationID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stock for item %d at location %d: %w", itemID, locationID, err)
	}
	return &entry, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func validateStay(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalid("date", "is required")
	}
	if !end.After(start) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidDateRange)
	}
	return nil
}

func positiveQuantity(qty int) error {
	if qty <= 0 {
		return invalid("quantity", "must be greater than 0")
	}
	return nil
}

// loggerFor prefers the request-scoped logger carried by ctx.
func loggerFor(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
