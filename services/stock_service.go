package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StockService enforces quantity conservation across locations.
// Stock only enters through ReceiveGoods/AddStock and only leaves through RemoveStock;
// transfers move it without changing the total.
type StockService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewStockService(db *gorm.DB, log zerolog.Logger) *StockService {
	return &StockService{DB: db, log: log.With().Str("service", "stock").Logger()}
}

type ReceiptLineInput struct {
	ItemID   uint
	Quantity int
}

type TransferInput struct {
	ItemID                uint
	Quantity              int
	SourceLocationID      uint
	DestinationLocationID uint
}

type TransferResult struct {
	Source      *models.StockEntry `json:"source"`
	Destination *models.StockEntry `json:"destination"`
}

// CentralStorage returns the warehouse location created at startup.
func (s *StockService) CentralStorage(ctx context.Context) (*models.Location, error) {
	return centralStorage(s.DB.WithContext(ctx))
}

func centralStorage(tx *gorm.DB) (*models.Location, error) {
	var loc models.Location
	err := tx.Where("name = ?", models.CentralStorageName).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "central_storage"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load central storage: %w", err)
	}
	return &loc, nil
}

func (s *StockService) AddStock(ctx context.Context, itemID, locationID uint, qty int) (*models.StockEntry, error) {
	if err := positiveQuantity(qty); err != nil {
		return nil, err
	}

	var entry *models.StockEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists[models.InventoryItem](tx, "item", itemID); err != nil {
			return err
		}
		if err := ensureExists[models.Location](tx, "location", locationID); err != nil {
			return err
		}
		if err := incrementStock(tx, itemID, locationID, qty); err != nil {
			return err
		}
		var err error
		entry, err = loadStockEntry(tx, itemID, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().
		Uint("item_id", itemID).Uint("location_id", locationID).Int("quantity", qty).
		Int("on_hand", entry.Quantity).Msg("stock added")
	return entry, nil
}

func (s *StockService) RemoveStock(ctx context.Context, itemID, locationID uint, qty int) (*models.StockEntry, error) {
	if err := positiveQuantity(qty); err != nil {
		return nil, err
	}

	var entry *models.StockEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decrementStock(tx, itemID, locationID, qty); err != nil {
			return err
		}
		var err error
		entry, err = loadStockEntry(tx, itemID, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().
		Uint("item_id", itemID).Uint("location_id", locationID).Int("quantity", qty).
		Int("on_hand", entry.Quantity).Msg("stock removed")
	return entry, nil
}

// TransferStock moves qty units between two locations as one unit of work.
// Any failure after the source was debited rolls the debit back.
func (s *StockService) TransferStock(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := positiveQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.SourceLocationID == in.DestinationLocationID {
		return nil, fmt.Errorf("%w: source and destination location are the same", ErrInvalidTransfer)
	}

	result := &TransferResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decrementStock(tx, in.ItemID, in.SourceLocationID, in.Quantity); err != nil {
			return err
		}
		if err := ensureExists[models.Location](tx, "location", in.DestinationLocationID); err != nil {
			return err
		}
		if err := incrementStock(tx, in.ItemID, in.DestinationLocationID, in.Quantity); err != nil {
			return err
		}

		var err error
		if result.Source, err = loadStockEntry(tx, in.ItemID, in.SourceLocationID); err != nil {
			return err
		}
		result.Destination, err = loadStockEntry(tx, in.ItemID, in.DestinationLocationID)
		return err
	})
	if err != nil {
		loggerFor(ctx, s.log).Warn().Err(err).
			Uint("item_id", in.ItemID).Uint("from", in.SourceLocationID).Uint("to", in.DestinationLocationID).
			Msg("stock transfer rejected")
		return nil, err
	}

	loggerFor(ctx, s.log).Info().
		Uint("item_id", in.ItemID).Uint("from", in.SourceLocationID).Uint("to", in.DestinationLocationID).
		Int("quantity", in.Quantity).Msg("stock transferred")
	return result, nil
}

// ReceiveGoods books a supplier delivery into central storage. The receipt header,
// every line and every stock increment commit together or not at all.
func (s *StockService) ReceiveGoods(ctx context.Context, supplier string, lines []ReceiptLineInput) (*models.Receipt, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return nil, invalid("supplier", "is required")
	}
	if len(lines) == 0 {
		return nil, invalid("items", "must contain at least one line")
	}
	for _, line := range lines {
		if err := positiveQuantity(line.Quantity); err != nil {
			return nil, err
		}
	}

	receipt := models.Receipt{Reference: uuid.NewString(), Supplier: supplier}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		storage, err := centralStorage(tx)
		if err != nil {
			return err
		}
		if err := tx.Omit("Lines").Create(&receipt).Error; err != nil {
			return fmt.Errorf("failed to create receipt: %w", err)
		}

		for _, line := range lines {
			if err := ensureExists[models.InventoryItem](tx, "item", line.ItemID); err != nil {
				return err
			}
			if err := incrementStock(tx, line.ItemID, storage.ID, line.Quantity); err != nil {
				return err
			}
			rl := models.ReceiptLine{ReceiptID: receipt.ID, ItemID: line.ItemID, Quantity: line.Quantity}
			if err := tx.Create(&rl).Error; err != nil {
				return fmt.Errorf("failed to create receipt line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().
		Uint("receipt_id", receipt.ID).Str("supplier", supplier).Int("lines", len(lines)).
		Msg("goods received")
	return s.GetReceipt(ctx, receipt.ID)
}

func (s *StockService) GetReceipt(ctx context.Context, id uint) (*models.Receipt, error) {
	return findByID[models.Receipt](s.DB.WithContext(ctx), "receipt", id, "Lines", "Lines.Item")
}

func (s *StockService) ListReceipts(ctx context.Context, offset, limit int) ([]models.Receipt, error) {
	var receipts []models.Receipt
	if err := s.DB.WithContext(ctx).Preload("Lines").Order("id DESC").
		Offset(offset).Limit(limit).Find(&receipts).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

// Quantity reports the on-hand quantity; a missing entry counts as zero.
func (s *StockService) Quantity(ctx context.Context, itemID, locationID uint) (int, error) {
	return stockQuantity(s.DB.WithContext(ctx), itemID, locationID)
}
