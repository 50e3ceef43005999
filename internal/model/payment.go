package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment purposes
const (
	PaymentPurposeMembership = "MEMBERSHIP"
	PaymentPurposeClass      = "CLASS"
	PaymentPurposeRetail     = "RETAIL"
)

// Payment methods
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodDebitCard    = "DEBIT_CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodEWallet      = "E_WALLET"
)

// Payment statuses
const (
	PaymentStatusPaid      = "PAID"
	PaymentStatusPending   = "PENDING"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusCancelled = "CANCELLED"
)

// ValidPaymentPurpose reports whether p is a known payment purpose
func ValidPaymentPurpose(p string) bool {
	switch p {
	case PaymentPurposeMembership, PaymentPurposeClass, PaymentPurposeRetail:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDebitCard, PaymentMethodBankTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment is a financial ledger entry. Amount is in minor currency units
// and immutable once created; corrections are new records, not edits.
// Payments outlive their member: ledger queries never filter by the
// member's tombstone state.
type Payment struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	GymID        uint           `json:"gym_id" gorm:"index;not null"`
	MemberID     uint           `json:"member_id" gorm:"index;not null"`
	MembershipID *uint          `json:"membership_id,omitempty" gorm:"index"`
	Amount       int64          `json:"amount" gorm:"not null"`
	Purpose      string         `json:"purpose" gorm:"type:varchar(20);not null"`
	Method       string         `json:"method" gorm:"type:varchar(20);not null"`
	Status       string         `json:"status" gorm:"type:varchar(20);not null;index"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Gym    Gym    `json:"gym,omitempty" gorm:"foreignKey:GymID;constraint:OnDelete:RESTRICT"`
	Member Member `json:"member,omitempty" gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT"`
}
