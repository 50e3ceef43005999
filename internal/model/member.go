package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Member statuses
const (
	MemberStatusActive   = "ACTIVE"
	MemberStatusInactive = "INACTIVE"
)

// Member genders
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// ValidGender reports whether g is one of the known gender codes
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// MemberCodeFromID derives the human-readable member code from a row id.
// Numbering is global across gyms (codes are opaque identifiers, not
// per-branch counters), zero-padded to four digits and growing past that.
func MemberCodeFromID(id uint) string {
	return fmt.Sprintf("MBR-%04d", id)
}

// Member represents a gym customer. The Code is assigned once from the
// row's own id right after insert and is never regenerated, never reused,
// and survives soft-delete and restore. Phone (and email, when present)
// must be unique among the gym's live members only; a tombstoned member's
// phone may be reclaimed by restoring that member, and the same phone may
// exist independently at another gym.
type Member struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Code        string         `json:"code" gorm:"type:varchar(20);index"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Phone       string         `json:"phone" gorm:"type:varchar(30);not null;index"`
	Email       string         `json:"email" gorm:"type:varchar(100)"`
	Gender      string         `json:"gender" gorm:"type:varchar(1)"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	Status      string         `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	GymID       uint           `json:"gym_id" gorm:"index;not null"`
	CreatedByID uint           `json:"created_by_id" gorm:"index;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym       Gym       `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
	CreatedBy StaffUser `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}
