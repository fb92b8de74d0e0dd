package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrInsufficientStock  = errors.New("insufficient_stock")
	ErrInvalidTransfer    = errors.New("invalid_transfer")
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrRateGap            = errors.New("rate_gap")
	ErrNoValidPriceList   = errors.New("no_valid_price_list")
	ErrRoomTypeSoldOut    = errors.New("room_type_sold_out")
	ErrRoomUnavailable    = errors.New("room_unavailable")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrReservationClosed  = errors.New("reservation_closed")
	ErrValidation         = errors.New("validation_failed")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrForbidden          = errors.New("forbidden")
)

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + "_not_found"
	}
	return fmt.Sprintf("%s_not_found: id %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type InsufficientStockError struct {
	ItemID     uint
	LocationID uint
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: item %d at location %d, requested %d, available %d",
		e.ItemID, e.LocationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Short is the number of units missing to satisfy the request.
func (e *InsufficientStockError) Short() int { return e.Requested - e.Available }

// RateGapError names every night of a stay without a rate.
type RateGapError struct {
	RoomType   string
	RatePlanID uint
	Missing    []time.Time
}

func (e *RateGapError) Error() string {
	return fmt.Sprintf("rate_gap: no rate for %q under plan %d on %s",
		e.RoomType, e.RatePlanID, strings.Join(e.MissingDates(), ", "))
}

func (e *RateGapError) Is(target error) bool { return target == ErrRateGap }

func (e *RateGapError) MissingDates() []string {
	out := make([]string, len(e.Missing))
	for i, d := range e.Missing {
		out[i] = utils.FormatDate(d)
	}
	return out
}

type TransitionError struct {
	From models.ReservationStatus
	To   models.ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid_transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation_failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
