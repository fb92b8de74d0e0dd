package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FolioService posts in-stay charges and payments and computes the bill.
type FolioService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewFolioService(db *gorm.DB, log zerolog.Logger) *FolioService {
	return &FolioService{DB: db, log: log.With().Str("service", "folio").Logger()}
}

type ChargeInput struct {
	Description string
	Quantity    int
	// UnitPrice defaults to the item's catalogue price when ItemID is set.
	UnitPrice *decimal.Decimal
	ItemID    *uint
}

type PaymentInput struct {
	Amount decimal.Decimal
	Method string
	Notes  string
}

type Bill struct {
	Reservation        *models.Reservation `json:"reservation"`
	Charges            []models.RoomCharge `json:"charges"`
	Payments           []models.Payment    `json:"payments"`
	Nights             int                 `json:"nights"`
	TotalAccommodation decimal.Decimal     `json:"total_accommodation"`
	TotalCharges       decimal.Decimal     `json:"total_charges"`
	GrandTotal         decimal.Decimal     `json:"grand_total"`
	TotalPaid          decimal.Decimal     `json:"total_paid"`
	Balance            decimal.Decimal     `json:"balance"`
}

func openForPosting(r *models.Reservation) error {
	if r.Status != models.ReservationConfirmed && r.Status != models.ReservationCheckedIn {
		return fmt.Errorf("%w: reservation %d is %s", ErrReservationClosed, r.ID, r.Status)
	}
	return nil
}

// PostCharge records a charge. A charge for a stocked item consumes it from the
// room's minibar in the same transaction; short stock aborts the charge.
func (s *FolioService) PostCharge(ctx context.Context, reservationID uint, in ChargeInput) (*models.RoomCharge, error) {
	if err := positiveQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if in.ItemID == nil && in.UnitPrice == nil {
		return nil, invalid("unit_price", "is required for service charges")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, invalid("unit_price", "must not be negative")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" && in.ItemID == nil {
		return nil, invalid("description", "is required for service charges")
	}

	var charge models.RoomCharge
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := lockByID[models.Reservation](tx, "reservation", reservationID)
		if err != nil {
			return err
		}
		if err := openForPosting(r); err != nil {
			return err
		}

		var unit decimal.Decimal
		if in.UnitPrice != nil {
			unit = *in.UnitPrice
		}
		if in.ItemID != nil {
			item, err := findByID[models.InventoryItem](tx, "item", *in.ItemID)
			if err != nil {
				return err
			}
			if in.UnitPrice == nil {
				unit = item.Price
			}
			if description == "" {
				description = item.Name
			}
			room, err := findByID[models.Room](tx, "room", r.RoomID)
			if err != nil {
				return err
			}
			if err := decrementStock(tx, item.ID, room.LocationID, in.Quantity); err != nil {
				return err
			}
		}

		charge = models.RoomCharge{
			ReservationID: r.ID,
			ItemID:        in.ItemID,
			Description:   description,
			Quantity:      in.Quantity,
			UnitPrice:     unit,
			TotalPrice:    unit.Mul(decimal.NewFromInt(int64(in.Quantity))),
			ChargedAt:     time.Now().UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&charge).Error; err != nil {
			return fmt.Errorf("failed to record charge: %w", err)
		}
		return nil
	})
	if err != nil {
		loggerFor(ctx, s.log).Warn().Err(err).Uint("reservation_id", reservationID).Msg("charge rejected")
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", reservationID).Uint("charge_id", charge.ID).
		Str("total", charge.TotalPrice.StringFixed(2)).Msg("charge posted")
	return findByID[models.RoomCharge](s.DB.WithContext(ctx), "charge", charge.ID, "Item")
}

// RecordPayment appends a payment. Overpayment is accepted and shows as a negative balance.
func (s *FolioService) RecordPayment(ctx context.Context, reservationID uint, in PaymentInput) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, invalid("amount", "must be greater than 0")
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		return nil, invalid("method", "is required")
	}

	payment := models.Payment{ReservationID: reservationID, Amount: in.Amount, Method: method, PaidAt: time.Now().UTC()}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		payment.Notes = &notes
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists[models.Reservation](tx, "reservation", reservationID); err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", reservationID).Uint("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).Str("method", method).Msg("payment recorded")
	return &payment, nil
}

func (s *FolioService) ListCharges(ctx context.Context, reservationID uint) ([]models.RoomCharge, error) {
	db := s.DB.WithContext(ctx)
	if err := ensureExists[models.Reservation](db, "reservation", reservationID); err != nil {
		return nil, err
	}
	return listCharges(db, reservationID)
}

func (s *FolioService) ListPayments(ctx context.Context, reservationID uint) ([]models.Payment, error) {
	db := s.DB.WithContext(ctx)
	if err := ensureExists[models.Reservation](db, "reservation", reservationID); err != nil {
		return nil, err
	}
	return listPayments(db, reservationID)
}

func listCharges(tx *gorm.DB, reservationID uint) ([]models.RoomCharge, error) {
	var charges []models.RoomCharge
	if err := tx.Preload("Item").Where("reservation_id = ?", reservationID).Order("id").Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("failed to list charges for reservation %d: %w", reservationID, err)
	}
	return charges, nil
}

func listPayments(tx *gorm.DB, reservationID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := tx.Where("reservation_id = ?", reservationID).Order("id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments for reservation %d: %w", reservationID, err)
	}
	return payments, nil
}

// GetBill reads the reservation, charges and payments in one transaction so the totals agree.
func (s *FolioService) GetBill(ctx context.Context, reservationID uint) (*Bill, error) {
	bill := &Bill{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if bill.Reservation, err = loadReservation(tx, reservationID); err != nil {
			return err
		}
		if bill.Charges, err = listCharges(tx, reservationID); err != nil {
			return err
		}
		bill.Payments, err = listPayments(tx, reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	bill.Nights = bill.Reservation.Nights()
	bill.TotalAccommodation = bill.Reservation.AccommodationPrice
	bill.TotalCharges = decimal.Zero
	for _, c := range bill.Charges {
		bill.TotalCharges = bill.TotalCharges.Add(c.TotalPrice)
	}
	bill.TotalPaid = decimal.Zero
	for _, p := range bill.Payments {
		bill.TotalPaid = bill.TotalPaid.Add(p.Amount)
	}
	bill.GrandTotal = bill.TotalAccommodation.Add(bill.TotalCharges)
	bill.Balance = bill.GrandTotal.Sub(bill.TotalPaid)
	return bill, nil
}
