package model

import (
	"time"

	"gorm.io/gorm"
)

// Membership statuses. EXPIRED and CANCELLED are terminal for a row.
const (
	MembershipStatusActive         = "ACTIVE"
	MembershipStatusExpired        = "EXPIRED"
	MembershipStatusCancelled      = "CANCELLED"
	MembershipStatusPendingRenewal = "PENDING_RENEWAL"
)

// MembershipStatusTerminal reports whether status permits no further transitions
func MembershipStatusTerminal(status string) bool {
	return status == MembershipStatusExpired || status == MembershipStatusCancelled
}

// Membership links one member to one plan for a fixed period. EndDate is
// computed from the plan's duration at assignment time and is never
// recomputed when the plan changes later. Status transitions are driven by
// the lifecycle engine, never written free-form.
type Membership struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	MemberID  uint           `json:"member_id" gorm:"index;not null"`
	PlanID    uint           `json:"plan_id" gorm:"index;not null"`
	StartDate time.Time      `json:"start_date" gorm:"not null"`
	EndDate   time.Time      `json:"end_date" gorm:"not null;index"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	AutoRenew bool           `json:"auto_renew" gorm:"default:false"`
	GymID     uint           `json:"gym_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym    Gym            `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
	Member Member         `json:"member,omitempty" gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT"`
	Plan   MembershipPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:RESTRICT"`
}
