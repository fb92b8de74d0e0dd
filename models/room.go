package models

import (
	"time"
)

type RoomStatus string

const (
	RoomCleanAvailable     RoomStatus = "clean_available"
	RoomDirtyAvailable     RoomStatus = "dirty_available"
	RoomOccupied           RoomStatus = "occupied"
	RoomCleaningInProgress RoomStatus = "cleaning_in_progress"
	RoomUnderMaintenance   RoomStatus = "under_maintenance"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomCleanAvailable, RoomDirtyAvailable, RoomOccupied, RoomCleaningInProgress, RoomUnderMaintenance:
		return true
	default:
		return false
	}
}

// Room owns exactly one minibar Location, created together with the room.
type Room struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Number   string     `gorm:"size:20;uniqueIndex;not null" json:"number"`
	Type     string     `gorm:"size:100;index;not null" json:"type"`
	Capacity int        `gorm:"not null;default:2" json:"capacity"`
	Status   RoomStatus `gorm:"size:32;not null;default:clean_available" json:"status"`

	LocationID uint      `gorm:"column:location_id;uniqueIndex;not null" json:"location_id"`
	Location   *Location `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomBlock takes a room off sale for [StartDate, EndDate).
type RoomBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"index;not null" json:"room_id"`
	Room      *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Reason    string    `gorm:"size:255" json:"reason"`
	StartDate time.Time `gorm:"type:date;index;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;index;not null" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
