package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-pms/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// GuestService is the read side of guest records; guests are written by the booking paths.
type GuestService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewGuestService(db *gorm.DB, log zerolog.Logger) *GuestService {
	return &GuestService{DB: db, log: log.With().Str("service", "guests").Logger()}
}

type GuestHistory struct {
	Guest        *models.Guest        `json:"guest"`
	Reservations []models.Reservation `json:"reservations"`
}

// List returns guests newest first, optionally filtered by a name or email fragment.
func (s *GuestService) List(ctx context.Context, search string, offset, limit int) ([]models.Guest, error) {
	q := s.DB.WithContext(ctx).Model(&models.Guest{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR email LIKE ?", like, like)
	}

	var guests []models.Guest
	if err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

func (s *GuestService) Get(ctx context.Context, id uint) (*models.Guest, error) {
	return findByID[models.Guest](s.DB.WithContext(ctx), "guest", id)
}

func (s *GuestService) History(ctx context.Context, id uint) (*GuestHistory, error) {
	db := s.DB.WithContext(ctx)
	guest, err := findByID[models.Guest](db, "guest", id)
	if err != nil {
		return nil, err
	}

	out := &GuestHistory{Guest: guest}
	if err := db.Preload("Room").Where("guest_id = ?", id).Order("check_in_date DESC").Find(&out.Reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations for guest %d: %w", id, err)
	}
	return out, nil
}
