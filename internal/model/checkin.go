package model

import (
	"time"

	"gorm.io/gorm"
)

// CheckIn records one admitted gym visit. AdmittedBy is free text (a staff
// name or a kiosk identifier), deliberately not a foreign key: self-service
// check-ins have no staff actor. Rows are immutable after creation and are
// only soft-deleted to void erroneous entries.
type CheckIn struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	GymID      uint           `json:"gym_id" gorm:"index;not null"`
	MemberID   uint           `json:"member_id" gorm:"index;not null"`
	VisitedAt  time.Time      `json:"visited_at" gorm:"not null;index"`
	AdmittedBy string         `json:"admitted_by" gorm:"type:varchar(100)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym    Gym    `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
	Member Member `json:"member,omitempty" gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT"`
}
