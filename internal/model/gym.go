package model

import (
	"time"

	"gorm.io/gorm"
)

// Gym represents a single branch, the tenant root of the system.
// Every other record carries a GymID reference back to one of these rows.
// Gyms are never hard-deleted by application flows; children reference
// them with RESTRICT so the database refuses it while any child exists.
type Gym struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Address   string         `json:"address" gorm:"type:text"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
