package model

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles
const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

// Staff account statuses
const (
	StaffStatusActive   = "ACTIVE"
	StaffStatusInactive = "INACTIVE"
)

// ValidStaffRole reports whether role is one of the known staff roles
func ValidStaffRole(role string) bool {
	return role == RoleOwner || role == RoleStaff
}

// StaffUser represents a staff or owner account, bound to exactly one gym.
// Members keep a created-by reference to staff rows for audit, so staff are
// only ever tombstoned, never removed (RESTRICT, not CASCADE).
type StaffUser struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);not null;index"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'STAFF'"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	GymID     uint           `json:"gym_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym Gym `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
}
