package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Guest is identified by email; repeat bookings reuse the record.
type Guest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"size:50" json:"phone,omitempty"`
	Preferences datatypes.JSON `json:"preferences,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

// BlockingStatuses hold a room for their stay interval.
var BlockingStatuses = []ReservationStatus{ReservationConfirmed, ReservationCheckedIn}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled, ReservationNoShow},
	ReservationCheckedIn: {ReservationCheckedOut},
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	default:
		return false
	}
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled || s == ReservationNoShow
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	RoomID     uint  `gorm:"index:idx_reservation_room_stay;not null" json:"room_id"`
	GuestID    uint  `gorm:"index;not null" json:"guest_id"`
	RatePlanID *uint `gorm:"index" json:"rate_plan_id,omitempty"`

	CheckInDate  time.Time         `gorm:"type:date;not null;index:idx_reservation_room_stay" json:"check_in_date"`
	CheckOutDate time.Time         `gorm:"type:date;not null" json:"check_out_date"`
	Status       ReservationStatus `gorm:"size:32;not null;default:confirmed;index" json:"status"`

	// AccommodationPrice is fixed when the reservation is created.
	AccommodationPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"accommodation_price"`

	Room     *Room        `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Guest    *Guest       `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
	RatePlan *RatePlan    `gorm:"foreignKey:RatePlanID;references:ID" json:"rate_plan,omitempty"`
	Charges  []RoomCharge `gorm:"foreignKey:ReservationID" json:"-"`
	Payments []Payment    `gorm:"foreignKey:ReservationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Nights is the number of nights billed for the stay.
func (r Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// RoomCharge is an in-stay charge. ItemID is nil for pure services.
type RoomCharge struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"index;not null" json:"reservation_id"`
	ItemID        *uint           `gorm:"index" json:"item_id,omitempty"`
	Item          *InventoryItem  `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ChargedAt     time.Time       `gorm:"not null" json:"charged_at"`
}

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"index;not null" json:"reservation_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        string          `gorm:"size:50;not null" json:"method"`
	Notes         *string         `gorm:"size:500" json:"notes,omitempty"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
}
