package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RatePlan struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Rate is the price of one night for a room type under a rate plan.
type Rate struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Date       time.Time       `gorm:"column:rate_date;type:date;not null;uniqueIndex:idx_rate_night" json:"date"`
	RoomType   string          `gorm:"size:100;not null;uniqueIndex:idx_rate_night" json:"room_type"`
	RatePlanID uint            `gorm:"not null;uniqueIndex:idx_rate_night" json:"rate_plan_id"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	RatePlan   *RatePlan       `gorm:"foreignKey:RatePlanID;references:ID" json:"rate_plan,omitempty"`
}
