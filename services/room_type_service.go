package services

import (
	"context"
	"fmt"

	"hotel-pms/models"
)

// RoomTypeSummary describes one room type as derived from the room inventory.
type RoomTypeSummary struct {
	Type        string `json:"type"`
	Rooms       int    `json:"rooms"`
	MaxCapacity int    `json:"max_capacity"`
}

// ListRoomTypes aggregates the distinct types of the existing rooms.
func (s *RoomService) ListRoomTypes(ctx context.Context) ([]RoomTypeSummary, error) {
	var out []RoomTypeSummary
	err := s.DB.WithContext(ctx).Model(&models.Room{}).
		Select("type, COUNT(*) AS rooms, MAX(capacity) AS max_capacity").
		Group("type").Order("type").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return out, nil
}
