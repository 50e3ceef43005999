package model

import (
	"time"

	"gorm.io/gorm"
)

// MembershipPlan is a pricing/duration template owned by a gym. Price is
// stored in minor currency units. Deactivating a plan (Active=false) hides
// it from new assignments; memberships already sold against it keep their
// original end dates.
type MembershipPlan struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	DurationDays int            `json:"duration_days" gorm:"not null"`
	Price        int64          `json:"price" gorm:"not null"`
	Active       bool           `json:"active" gorm:"default:true"`
	Description  string         `json:"description" gorm:"type:text"`
	GymID        uint           `json:"gym_id" gorm:"index;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym Gym `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
}
