package service

import (
	"errors"
	"time"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MemberService owns the member registry: creation with the once-only code
// assignment, phone/email uniqueness among live rows, and the soft-delete /
// restore flow that keeps a returning customer's history intact.
type MemberService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB, log *zap.Logger) *MemberService {
	return &MemberService{db: db, log: log}
}

// MemberAttrs carries the fields accepted at member creation
type MemberAttrs struct {
	Name        string
	Phone       string
	Email       string
	Gender      string
	DateOfBirth *time.Time
}

// RestoreCheck outcomes for FindOrOfferRestore
const (
	RestoreCheckNone         = "none"
	RestoreCheckLiveConflict = "live_conflict"
	RestoreCheckRestorable   = "restorable"
)

// RestoreCheck is the result of probing a phone number before creating a
// member: no collision, a live member already holds it, or a tombstoned
// member holds it and can be restored instead of duplicated.
type RestoreCheck struct {
	Outcome string        `json:"outcome"`
	Member  *model.Member `json:"member,omitempty"`
}

// Create registers a new member. The member code is assigned in a second
// step of the same transaction, derived from the freshly inserted row's id,
// and only when no code is present yet; it is never regenerated.
func (s *MemberService) Create(gymID, staffID uint, attrs MemberAttrs) (*model.Member, error) {
	if attrs.Gender != "" && !model.ValidGender(attrs.Gender) {
		return nil, &InvalidEnumError{Field: "gender", Value: attrs.Gender}
	}

	var member model.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.verifyActor(tx, gymID, staffID); err != nil {
			return err
		}
		if err := s.checkIdentityCollisions(tx, gymID, attrs.Phone, attrs.Email, 0); err != nil {
			return err
		}

		member = model.Member{
			Name:        attrs.Name,
			Phone:       attrs.Phone,
			Email:       attrs.Email,
			Gender:      attrs.Gender,
			DateOfBirth: attrs.DateOfBirth,
			Status:      model.MemberStatusActive,
			GymID:       gymID,
			CreatedByID: staffID,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		// Phase two: the row now has an identity, derive the code from it.
		// The empty-code guard makes the assignment idempotent.
		code := model.MemberCodeFromID(member.ID)
		res := tx.Model(&model.Member{}).
			Where("id = ? AND (code IS NULL OR code = '')", member.ID).
			Update("code", code)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			member.Code = code
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Member created",
		zap.Uint("member_id", member.ID),
		zap.String("code", member.Code),
		zap.Uint("gym_id", gymID),
		zap.Uint("created_by", staffID))
	return &member, nil
}

// FindOrOfferRestore probes a phone number before creation. A tombstoned
// match (regardless of which staff created it) is offered for restoration
// so the returning customer keeps their check-in, payment and membership
// history instead of getting a duplicate identity.
func (s *MemberService) FindOrOfferRestore(gymID uint, phone string) (*RestoreCheck, error) {
	var live model.Member
	err := s.db.Where("phone = ? AND gym_id = ?", phone, gymID).First(&live).Error
	if err == nil {
		return &RestoreCheck{Outcome: RestoreCheckLiveConflict, Member: &live}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var buried model.Member
	err = s.db.Unscoped().
		Where("phone = ? AND gym_id = ? AND deleted_at IS NOT NULL", phone, gymID).
		Order("deleted_at DESC").
		First(&buried).Error
	if err == nil {
		return &RestoreCheck{Outcome: RestoreCheckRestorable, Member: &buried}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &RestoreCheck{Outcome: RestoreCheckNone}, nil
}

// SoftDelete tombstones a member. The guard checks and the tombstone write
// share one transaction so a concurrent assignment cannot slip an ACTIVE
// membership onto an about-to-be-deleted member. Memberships, check-ins and
// payments are left alone: their lifecycle is independent.
func (s *MemberService) SoftDelete(gymID, memberID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		member, err := s.getForUpdate(tx, gymID, memberID)
		if err != nil {
			return err
		}

		var blocking model.Membership
		err = tx.Where("member_id = ? AND status IN ?", member.ID,
			[]string{model.MembershipStatusActive, model.MembershipStatusPendingRenewal}).
			First(&blocking).Error
		if err == nil {
			return &BusinessRuleError{
				Rule:       "member_has_active_membership",
				Detail:     "cancel or expire the membership first",
				BlockingID: blocking.ID,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var pending model.Payment
		err = tx.Where("member_id = ? AND status = ?", member.ID, model.PaymentStatusPending).
			First(&pending).Error
		if err == nil {
			return &BusinessRuleError{
				Rule:       "member_has_pending_payment",
				Detail:     "settle or cancel the payment first",
				BlockingID: pending.ID,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(member).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("Member soft-deleted", zap.Uint("member_id", memberID), zap.Uint("gym_id", gymID))
	return nil
}

// Restore clears a member's tombstone. The code and all history stay as
// they were; any membership the member had is not resurrected, so the caller
// must re-check membership state and assign a new plan if needed.
func (s *MemberService) Restore(gymID, memberID uint) (*model.Member, error) {
	var member model.Member
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().
			Where("id = ? AND deleted_at IS NOT NULL", memberID).
			First(&member).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if member.GymID != gymID {
			return &TenantIsolationError{Entity: "member"}
		}

		// The phone/email may have been handed to a new live member while
		// this row was tombstoned; restoring would break live uniqueness.
		if err := s.checkIdentityCollisions(tx, gymID, member.Phone, member.Email, member.ID); err != nil {
			return err
		}

		if err := tx.Unscoped().Model(&member).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		member.DeletedAt = gorm.DeletedAt{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Member restored",
		zap.Uint("member_id", member.ID),
		zap.String("code", member.Code),
		zap.Uint("gym_id", gymID))
	return &member, nil
}

// Get returns a live member of the gym
func (s *MemberService) Get(gymID, memberID uint) (*model.Member, error) {
	return s.getForUpdate(s.db, gymID, memberID)
}

// List returns all live members of a gym
func (s *MemberService) List(gymID uint) ([]model.Member, error) {
	var members []model.Member
	if err := s.db.Where("gym_id = ?", gymID).Order("id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateStatus flips a member between ACTIVE and INACTIVE
func (s *MemberService) UpdateStatus(gymID, memberID uint, status string) (*model.Member, error) {
	if status != model.MemberStatusActive && status != model.MemberStatusInactive {
		return nil, &InvalidEnumError{Field: "status", Value: status}
	}

	member, err := s.getForUpdate(s.db, gymID, memberID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(member).Update("status", status).Error; err != nil {
		return nil, err
	}
	member.Status = status
	return member, nil
}

// getForUpdate loads a live member and enforces tenant isolation
func (s *MemberService) getForUpdate(tx *gorm.DB, gymID, memberID uint) (*model.Member, error) {
	var member model.Member
	if err := tx.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if member.GymID != gymID {
		return nil, &TenantIsolationError{Entity: "member"}
	}
	return &member, nil
}

// verifyActor checks the acting staff belongs to the gym and is live+active
func (s *MemberService) verifyActor(tx *gorm.DB, gymID, staffID uint) error {
	var staff model.StaffUser
	if err := tx.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if staff.GymID != gymID {
		return &TenantIsolationError{Entity: "staff"}
	}
	if staff.Status != model.StaffStatusActive {
		return &BusinessRuleError{Rule: "staff_inactive", BlockingID: staff.ID}
	}
	return nil
}

// checkIdentityCollisions enforces phone/email uniqueness among the gym's
// live members. Uniqueness is scoped per gym, same as FindOrOfferRestore:
// another gym's rows never block a registration here, and no foreign row id
// ever surfaces in an error. A tombstoned phone match within the gym is
// surfaced with its row id so the caller can offer a restore. excludeID
// skips the row being restored.
func (s *MemberService) checkIdentityCollisions(tx *gorm.DB, gymID uint, phone, email string, excludeID uint) error {
	var live model.Member
	q := tx.Where("gym_id = ? AND phone = ?", gymID, phone)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&live).Error
	if err == nil {
		return &DuplicateIdentityError{Field: "phone"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if excludeID == 0 {
		var buried model.Member
		err = tx.Unscoped().
			Where("gym_id = ? AND phone = ? AND deleted_at IS NOT NULL", gymID, phone).
			Order("deleted_at DESC").
			First(&buried).Error
		if err == nil {
			return &DuplicateIdentityError{Field: "phone", RestorableID: buried.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if email != "" {
		q := tx.Where("gym_id = ? AND email = ?", gymID, email)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		err = q.First(&live).Error
		if err == nil {
			return &DuplicateIdentityError{Field: "email"}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}
