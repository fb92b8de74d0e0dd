package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type RoomService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewRoomService(db *gorm.DB, log zerolog.Logger) *RoomService {
	return &RoomService{DB: db, log: log.With().Str("service", "rooms").Logger()}
}

type RoomInput struct {
	Number   string
	Type     string
	Capacity int
}

type RoomPatch struct {
	Type     *string
	Capacity *int
}

type RoomFilter struct {
	Status *models.RoomStatus
	Type   string
	Offset int
	Limit  int
}

type BlockInput struct {
	RoomID    uint
	Reason    string
	StartDate time.Time
	EndDate   time.Time
}

// CreateRoom creates the room together with its minibar location.
func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*models.Room, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, invalid("number", "is required")
	}
	roomType := strings.TrimSpace(in.Type)
	if roomType == "" {
		roomType = "Standard"
	}
	if in.Capacity < 1 {
		return nil, invalid("capacity", "must be at least 1")
	}

	room := models.Room{Number: number, Type: roomType, Capacity: in.Capacity, Status: models.RoomCleanAvailable}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		minibar := models.Location{Name: models.MinibarLocationName(number)}
		if err := tx.Create(&minibar).Error; err != nil {
			return err
		}
		room.LocationID = minibar.ID
		return tx.Omit("Location").Create(&room).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: room %q already exists", ErrDuplicate, number)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	loggerFor(ctx, s.log).Info().Uint("room_id", room.ID).Str("number", number).
		Uint("location_id", room.LocationID).Msg("room created")
	return s.GetRoom(ctx, room.ID)
}

func (s *RoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	return findByID[models.Room](s.DB.WithContext(ctx), "room", id, "Location")
}

func (s *RoomService) ListRooms(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Model(&models.Room{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}

	var rooms []models.Room
	if err := q.Order("number").Offset(f.Offset).Limit(f.Limit).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, id uint, patch RoomPatch) (*models.Room, error) {
	updates := map[string]interface{}{}
	if patch.Type != nil {
		t := strings.TrimSpace(*patch.Type)
		if t == "" {
			return nil, invalid("type", "must not be empty")
		}
		updates["type"] = t
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 1 {
			return nil, invalid("capacity", "must be at least 1")
		}
		updates["capacity"] = *patch.Capacity
	}

	db := s.DB.WithContext(ctx)
	if err := ensureExists[models.Room](db, "room", id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Room{ID: id}).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update room %d: %w", id, err)
		}
	}
	return s.GetRoom(ctx, id)
}

func (s *RoomService) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if !status.IsValid() {
		return nil, invalid("status", "is not a known room status")
	}

	db := s.DB.WithContext(ctx)
	res := db.Model(&models.Room{ID: id}).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update room %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := ensureExists[models.Room](db, "room", id); err != nil {
			return nil, err
		}
	}

	loggerFor(ctx, s.log).Info().Uint("room_id", id).Str("status", string(status)).Msg("room status changed")
	return s.GetRoom(ctx, id)
}

func (s *RoomService) CreateBlock(ctx context.Context, in BlockInput) (*models.RoomBlock, error) {
	start, end := utils.Day(in.StartDate), utils.Day(in.EndDate)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if err := ensureExists[models.Room](db, "room", in.RoomID); err != nil {
		return nil, err
	}

	block := models.RoomBlock{RoomID: in.RoomID, Reason: strings.TrimSpace(in.Reason), StartDate: start, EndDate: end}
	if err := db.Create(&block).Error; err != nil {
		return nil, fmt.Errorf("failed to create room block: %w", err)
	}

	loggerFor(ctx, s.log).Info().Uint("room_id", in.RoomID).Uint("block_id", block.ID).
		Str("start", utils.FormatDate(start)).Str("end", utils.FormatDate(end)).Msg("room blocked")
	return &block, nil
}

func (s *RoomService) DeleteBlock(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.RoomBlock{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete room block %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "room_block", ID: id}
	}
	return nil
}

// ListBlocks returns blocks overlapping [start, end) when both are set.
func (s *RoomService) ListBlocks(ctx context.Context, roomID *uint, start, end time.Time) ([]models.RoomBlock, error) {
	q := s.DB.WithContext(ctx).Preload("Room")
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("start_date < ? AND end_date > ?", utils.Day(end), utils.Day(start))
	}

	var blocks []models.RoomBlock
	if err := q.Order("start_date").Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("failed to list room blocks: %w", err)
	}
	return blocks, nil
}
