package models

import "time"

type Role string

const (
	RoleOwner        Role = "owner"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleStorekeeper  Role = "storekeeper"
	RoleHousekeeper  Role = "housekeeper"
	RoleGuest        Role = "guest"
)

// EmployeeRoles are the staff roles listed on the employee roster.
var EmployeeRoles = []Role{RoleManager, RoleReceptionist, RoleStorekeeper, RoleHousekeeper}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleReceptionist, RoleStorekeeper, RoleHousekeeper, RoleGuest:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null;default:guest" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// HasRole reports whether the caller holds one of the allowed roles.
func HasRole(caller *Caller, allowed []Role) bool {
	if caller == nil {
		return false
	}
	for _, r := range allowed {
		if caller.Role == r {
			return true
		}
	}
	return false
}
