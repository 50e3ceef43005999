package service

import (
	"errors"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// paymentTransitions are the only legal status moves. Anything else is an
// InvalidTransitionError; the amount never changes either way.
var paymentTransitions = map[string][]string{
	model.PaymentStatusPending: {model.PaymentStatusPaid, model.PaymentStatusCancelled},
	model.PaymentStatusPaid:    {model.PaymentStatusRefunded},
}

// PaymentService owns the financial ledger. Payments are never hard-deleted
// and stay queryable after their member is tombstoned: financial history
// outlives customer history.
type PaymentService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, log: log}
}

// PaymentAttrs carries the fields accepted when recording a payment
type PaymentAttrs struct {
	MemberID     uint
	MembershipID *uint
	Amount       int64
	Purpose      string
	Method       string
	Status       string
	Notes        string
}

// Record creates a ledger entry. Enumerated fields are validated before any
// write; the member may be tombstoned (late settlements still land) but
// must belong to the gym.
func (s *PaymentService) Record(gymID uint, attrs PaymentAttrs) (*model.Payment, error) {
	if !model.ValidPaymentPurpose(attrs.Purpose) {
		return nil, &InvalidEnumError{Field: "purpose", Value: attrs.Purpose}
	}
	if !model.ValidPaymentMethod(attrs.Method) {
		return nil, &InvalidEnumError{Field: "method", Value: attrs.Method}
	}
	if !model.ValidPaymentStatus(attrs.Status) {
		return nil, &InvalidEnumError{Field: "status", Value: attrs.Status}
	}
	if attrs.Amount < 0 {
		return nil, &BusinessRuleError{Rule: "payment_amount_non_negative", Detail: "amount must not be negative"}
	}

	var payment model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var member model.Member
		err := tx.Unscoped().First(&member, attrs.MemberID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if member.GymID != gymID {
			return &TenantIsolationError{Entity: "member"}
		}

		if attrs.MembershipID != nil {
			var membership model.Membership
			if err := tx.First(&membership, *attrs.MembershipID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if membership.GymID != gymID || membership.MemberID != member.ID {
				return &TenantIsolationError{Entity: "membership"}
			}
		}

		payment = model.Payment{
			GymID:        gymID,
			MemberID:     attrs.MemberID,
			MembershipID: attrs.MembershipID,
			Amount:       attrs.Amount,
			Purpose:      attrs.Purpose,
			Method:       attrs.Method,
			Status:       attrs.Status,
			Notes:        attrs.Notes,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment recorded",
		zap.Uint("payment_id", payment.ID),
		zap.Uint("member_id", payment.MemberID),
		zap.Int64("amount", payment.Amount),
		zap.String("purpose", payment.Purpose),
		zap.String("status", payment.Status),
		zap.Uint("gym_id", gymID))
	return &payment, nil
}

// TransitionStatus moves a payment along PENDING->PAID, PENDING->CANCELLED
// or PAID->REFUNDED. Only the status column is written.
func (s *PaymentService) TransitionStatus(gymID, paymentID uint, newStatus string) (*model.Payment, error) {
	if !model.ValidPaymentStatus(newStatus) {
		return nil, &InvalidEnumError{Field: "status", Value: newStatus}
	}

	var payment model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if payment.GymID != gymID {
			return &TenantIsolationError{Entity: "payment"}
		}

		allowed := false
		for _, to := range paymentTransitions[payment.Status] {
			if to == newStatus {
				allowed = true
				break
			}
		}
		if !allowed {
			return &InvalidTransitionError{Entity: "payment", From: payment.Status, To: newStatus}
		}

		if err := tx.Model(&payment).Update("status", newStatus).Error; err != nil {
			return err
		}
		payment.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment status transitioned",
		zap.Uint("payment_id", payment.ID),
		zap.String("status", payment.Status),
		zap.Uint("gym_id", gymID))
	return &payment, nil
}

// Get returns a payment of the gym
func (s *PaymentService) Get(gymID, paymentID uint) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if payment.GymID != gymID {
		return nil, &TenantIsolationError{Entity: "payment"}
	}
	return &payment, nil
}

// ListByMember returns a member's payments, newest first. The member id is
// accepted whether or not the member is tombstoned; the ledger never
// filters on the member's lifecycle state.
func (s *PaymentService) ListByMember(gymID, memberID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.Where("gym_id = ? AND member_id = ?", gymID, memberID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
