package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityService answers "what can be booked" and takes public bookings.
type AvailabilityService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewAvailabilityService(db *gorm.DB, log zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{DB: db, log: log.With().Str("service", "availability").Logger()}
}

type AvailabilityQuery struct {
	Start  time.Time
	End    time.Time
	Guests int
}

type AvailableRoomType struct {
	RoomType       string          `json:"room_type"`
	Capacity       int             `json:"capacity"`
	AvailableRooms int             `json:"available_rooms"`
	Nights         int             `json:"nights"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	RatePlanID     uint            `json:"rate_plan_id"`
	RatePlanName   string          `json:"rate_plan_name"`
}

type GuestInput struct {
	Name        string
	Email       string
	Phone       string
	Preferences datatypes.JSON
}

type PublicReservationInput struct {
	RoomType   string
	RatePlanID uint
	Guest      GuestInput
	Start      time.Time
	End        time.Time
	Guests     int
}

// unavailableRoomIDs returns rooms held by a blocking reservation or a block overlapping [start, end).
// An interval ending exactly at start, or starting exactly at end, does not overlap.
func unavailableRoomIDs(tx *gorm.DB, start, end time.Time, roomIDs []uint) (map[uint]struct{}, error) {
	out := make(map[uint]struct{})
	if roomIDs != nil && len(roomIDs) == 0 {
		return out, nil
	}

	res := tx.Model(&models.Reservation{}).
		Where("status IN ?", models.BlockingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", end, start)
	blocks := tx.Model(&models.RoomBlock{}).
		Where("start_date < ? AND end_date > ?", end, start)
	if roomIDs != nil {
		res = res.Where("room_id IN ?", roomIDs)
		blocks = blocks.Where("room_id IN ?", roomIDs)
	}

	var reserved, blocked []uint
	if err := res.Distinct().Pluck("room_id", &reserved).Error; err != nil {
		return nil, fmt.Errorf("failed to load overlapping reservations: %w", err)
	}
	if err := blocks.Distinct().Pluck("room_id", &blocked).Error; err != nil {
		return nil, fmt.Errorf("failed to load overlapping room blocks: %w", err)
	}
	for _, id := range reserved {
		out[id] = struct{}{}
	}
	for _, id := range blocked {
		out[id] = struct{}{}
	}
	return out, nil
}

func roomIDs(rooms []models.Room) []uint {
	ids := make([]uint, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	return ids
}

func (s *AvailabilityService) FindAvailableRoomTypes(ctx context.Context, q AvailabilityQuery) ([]AvailableRoomType, error) {
	start, end := utils.Day(q.Start), utils.Day(q.End)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}
	if q.Guests < 0 {
		return nil, invalid("guests", "must not be negative")
	}

	db := s.DB.WithContext(ctx)
	var rooms []models.Room
	if err := db.Where("capacity >= ?", q.Guests).Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	taken, err := unavailableRoomIDs(db, start, end, roomIDs(rooms))
	if err != nil {
		return nil, err
	}

	type group struct {
		free     int
		capacity int
	}
	groups := make(map[string]*group)
	for _, r := range rooms {
		if _, busy := taken[r.ID]; busy {
			continue
		}
		g, ok := groups[r.Type]
		if !ok {
			g = &group{}
			groups[r.Type] = g
		}
		g.free++
		if r.Capacity > g.capacity {
			g.capacity = r.Capacity
		}
	}
	if len(groups) == 0 {
		return []AvailableRoomType{}, nil
	}

	plans, err := listRatePlans(db)
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]AvailableRoomType, 0, len(types)*len(plans))
	for _, t := range types {
		for _, plan := range plans {
			quote, err := priceStay(db, start, end, t, plan.ID)
			if errors.Is(err, ErrRateGap) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, AvailableRoomType{
				RoomType:       t,
				Capacity:       groups[t].capacity,
				AvailableRooms: groups[t].free,
				Nights:         quote.Nights,
				TotalPrice:     quote.Total,
				RatePlanID:     plan.ID,
				RatePlanName:   plan.Name,
			})
		}
	}
	return out, nil
}

// CreatePublicReservation books the lowest-id free room of the requested type.
// Candidate rooms are locked for the rest of the transaction, so two bookings racing for
// the last room of a type serialize and the second one sees the first reservation.
func (s *AvailabilityService) CreatePublicReservation(ctx context.Context, in PublicReservationInput) (*models.Reservation, error) {
	start, end := utils.Day(in.Start), utils.Day(in.End)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}
	roomType := strings.TrimSpace(in.RoomType)
	if roomType == "" {
		return nil, invalid("room_type", "is required")
	}
	guestIn, err := normalizeGuest(in.Guest)
	if err != nil {
		return nil, err
	}

	var reservation models.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The room lock must be the first statement of the transaction. Under
		// REPEATABLE READ the first plain read fixes the snapshot, and a snapshot
		// taken before the lock would miss a reservation committed while waiting.
		var rooms []models.Room
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("type = ?", roomType)
		if in.Guests > 0 {
			q = q.Where("capacity >= ?", in.Guests)
		}
		if err := q.Order("id").Find(&rooms).Error; err != nil {
			return fmt.Errorf("failed to lock rooms of type %q: %w", roomType, err)
		}

		quote, err := priceStay(tx, start, end, roomType, in.RatePlanID)
		if errors.Is(err, ErrRateGap) {
			return fmt.Errorf("%w: %w", ErrNoValidPriceList, err)
		}
		if err != nil {
			return err
		}

		taken, err := unavailableRoomIDs(tx, start, end, roomIDs(rooms))
		if err != nil {
			return err
		}

		var chosen *models.Room
		for i := range rooms {
			if _, busy := taken[rooms[i].ID]; !busy {
				chosen = &rooms[i]
				break
			}
		}
		if chosen == nil {
			return fmt.Errorf("%w: %s", ErrRoomTypeSoldOut, roomType)
		}

		guest, err := upsertGuest(tx, guestIn)
		if err != nil {
			return err
		}

		planID := in.RatePlanID
		reservation = models.Reservation{
			RoomID:             chosen.ID,
			GuestID:            guest.ID,
			RatePlanID:         &planID,
			CheckInDate:        start,
			CheckOutDate:       end,
			Status:             models.ReservationConfirmed,
			AccommodationPrice: quote.Total,
		}
		if err := tx.Omit(clause.Associations).Create(&reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		loggerFor(ctx, s.log).Warn().Err(err).Str("room_type", roomType).
			Str("check_in", utils.FormatDate(start)).Str("check_out", utils.FormatDate(end)).
			Msg("public booking rejected")
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("reservation_id", reservation.ID).Uint("room_id", reservation.RoomID).
		Str("price", reservation.AccommodationPrice.StringFixed(2)).Msg("public booking confirmed")
	return loadReservation(s.DB.WithContext(ctx), reservation.ID)
}

func normalizeGuest(in GuestInput) (GuestInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return in, invalid("guest.name", "is required")
	}
	if in.Email == "" {
		return in, invalid("guest.email", "is required")
	}
	return in, nil
}

// upsertGuest reuses the guest with the same email, refreshing its contact details.
func upsertGuest(tx *gorm.DB, in GuestInput) (*models.Guest, error) {
	var guest models.Guest
	err := tx.Where("email = ?", in.Email).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		guest = models.Guest{Name: in.Name, Email: in.Email, Phone: in.Phone, Preferences: in.Preferences}
		if err := tx.Create(&guest).Error; err != nil {
			return nil, fmt.Errorf("failed to create guest: %w", err)
		}
		return &guest, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}

	updates := map[string]interface{}{"name": in.Name}
	if in.Phone != "" {
		updates["phone"] = in.Phone
	}
	if len(in.Preferences) > 0 {
		updates["preferences"] = in.Preferences
	}
	if err := tx.Model(&guest).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update guest %d: %w", guest.ID, err)
	}
	return &guest, nil
}
