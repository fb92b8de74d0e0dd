package services

import (
	"context"
	"fmt"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService drives the reservation state machine and the room status coupled to it.
type ReservationService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewReservationService(db *gorm.DB, log zerolog.Logger) *ReservationService {
	return &ReservationService{DB: db, log: log.With().Str("service", "reservations").Logger()}
}

type ReservationInput struct {
	RoomID     uint
	RatePlanID uint
	Guest      GuestInput
	Start      time.Time
	End        time.Time
}

// ReservationPatch is an administrative correction. Availability is not re-checked
// and the accommodation price is left untouched.
type ReservationPatch struct {
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	Status       *models.ReservationStatus
}

type ReservationFilter struct {
	Start  time.Time
	End    time.Time
	RoomID *uint
	Status *models.ReservationStatus
}

func loadReservation(tx *gorm.DB, id uint) (*models.Reservation, error) {
	return findByID[models.Reservation](tx, "reservation", id, "Room", "Guest", "RatePlan")
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return loadReservation(s.DB.WithContext(ctx), id)
}

// List returns reservations overlapping [Start, End) when both are set.
func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Preload("Guest")
	if !f.Start.IsZero() && !f.End.IsZero() {
		q = q.Where("check_in_date < ? AND check_out_date > ?", utils.Day(f.End), utils.Day(f.Start))
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var out []models.Reservation
	if err := q.Order("check_in_date").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return out, nil
}

// CreateReservation books a specific room at the front desk.
func (s *ReservationService) CreateReservation(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	start, end := utils.Day(in.Start), utils.Day(in.End)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}
	guestIn, err := normalizeGuest(in.Guest)
	if err != nil {
		return nil, err
	}

	var reservation models.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockByID[models.Room](tx, "room", in.RoomID)
		if err != nil {
			return err
		}
		quote, err := priceStay(tx, start, end, room.Type, in.RatePlanID)
		if err != nil {
			return err
		}
		taken, err := unavailableRoomIDs(tx, start, end, []uint{room.ID})
		if err != nil {
			return err
		}
		if _, busy := taken[room.ID]; busy {
			return fmt.Errorf("%w: room %s is booked or blocked for the requested dates", ErrRoomUnavailable, room.Number)
		}

		guest, err := upsertGuest(tx, guestIn)
		if err != nil {
			return err
		}
		planID := in.RatePlanID
		reservation = models.Reservation{
			RoomID:             room.ID,
			GuestID:            guest.ID,
			RatePlanID:         &planID,
			CheckInDate:        start,
			CheckOutDate:       end,
			Status:             models.ReservationConfirmed,
			AccommodationPrice: quote.Total,
		}
		return tx.Omit(clause.Associations).Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", reservation.ID).Uint("room_id", reservation.RoomID).
		Str("price", reservation.AccommodationPrice.StringFixed(2)).Msg("reservation created")
	return s.Get(ctx, reservation.ID)
}

func (s *ReservationService) CheckIn(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCheckedIn, models.RoomOccupied)
}

func (s *ReservationService) CheckOut(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCheckedOut, models.RoomDirtyAvailable)
}

func (s *ReservationService) Cancel(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCancelled, "")
}

func (s *ReservationService) MarkNoShow(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationNoShow, "")
}

// transition moves the reservation to next and, when roomStatus is set, the room with it.
func (s *ReservationService) transition(ctx context.Context, id uint, next models.ReservationStatus, roomStatus models.RoomStatus) (*models.Reservation, error) {
	var from models.ReservationStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := lockByID[models.Reservation](tx, "reservation", id)
		if err != nil {
			return err
		}
		from = r.Status
		if !r.Status.CanTransitionTo(next) {
			return &TransitionError{From: r.Status, To: next}
		}

		if err := tx.Model(&models.Reservation{ID: id}).Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update reservation %d: %w", id, err)
		}
		if roomStatus != "" {
			if err := tx.Model(&models.Room{ID: r.RoomID}).Update("status", roomStatus).Error; err != nil {
				return fmt.Errorf("failed to update room %d: %w", r.RoomID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", id).
		Str("from", string(from)).Str("to", string(next)).Msg("reservation status changed")
	return s.Get(ctx, id)
}

func (s *ReservationService) Update(ctx context.Context, id uint, patch ReservationPatch) (*models.Reservation, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := lockByID[models.Reservation](tx, "reservation", id)
		if err != nil {
			return err
		}
		if r.Status.IsTerminal() {
			return fmt.Errorf("%w: reservation %d is %s", ErrReservationClosed, id, r.Status)
		}

		start, end := r.CheckInDate, r.CheckOutDate
		updates := map[string]interface{}{}
		if patch.CheckInDate != nil {
			start = utils.Day(*patch.CheckInDate)
			updates["check_in_date"] = start
		}
		if patch.CheckOutDate != nil {
			end = utils.Day(*patch.CheckOutDate)
			updates["check_out_date"] = end
		}
		if err := validateStay(start, end); err != nil {
			return err
		}
		if patch.Status != nil {
			if !patch.Status.IsValid() {
				return invalid("status", "is not a known reservation status")
			}
			if *patch.Status != r.Status {
				updates["status"] = *patch.Status
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Reservation{ID: id}).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update reservation %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", id).Msg("reservation updated")
	return s.Get(ctx, id)
}
