package service

import (
	"errors"
	"time"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MembershipService is the lifecycle engine: it assigns memberships,
// drives the status state machine and is the single authority on whether a
// member currently has gym access.
//
// State machine:
//
//	[created] --assign--> ACTIVE
//	ACTIVE --(asOf > end - window)--> PENDING_RENEWAL
//	PENDING_RENEWAL --renew--> ACTIVE (end date extended)
//	ACTIVE --(asOf > end, auto_renew=false)--> EXPIRED
//	ACTIVE --(asOf > end, auto_renew=true)--> PENDING_RENEWAL
//	PENDING_RENEWAL --(asOf > end, auto_renew=false)--> EXPIRED
//	ACTIVE | PENDING_RENEWAL --cancel--> CANCELLED
//	EXPIRED, CANCELLED terminal.
//
// Auto-renew rows never expire on their own: past their end date they sit
// in PENDING_RENEWAL until the renewal payment settles (Renew) or staff
// cancels them.
type MembershipService struct {
	db                *gorm.DB
	log               *zap.Logger
	renewalWindowDays int
}

// NewMembershipService creates a new membership lifecycle service
func NewMembershipService(db *gorm.DB, log *zap.Logger, renewalWindowDays int) *MembershipService {
	if renewalWindowDays <= 0 {
		renewalWindowDays = 7
	}
	return &MembershipService{db: db, log: log, renewalWindowDays: renewalWindowDays}
}

// AssignInput carries the parameters of a membership assignment. Force
// lets staff explicitly assign to an INACTIVE (but live) member.
type AssignInput struct {
	MemberID  uint
	PlanID    uint
	StartDate time.Time
	AutoRenew bool
	Force     bool
}

// Assign creates an ACTIVE membership. The end date is fixed here, from
// the plan's duration as it is right now; later plan edits never touch it.
func (s *MembershipService) Assign(gymID uint, in AssignInput) (*model.Membership, error) {
	var membership model.Membership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var member model.Member
		if err := tx.First(&member, in.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if member.GymID != gymID {
			return &TenantIsolationError{Entity: "member"}
		}
		if member.Status != model.MemberStatusActive && !in.Force {
			return &BusinessRuleError{
				Rule:       "member_inactive",
				Detail:     "member is INACTIVE; pass force to assign anyway",
				BlockingID: member.ID,
			}
		}

		var plan model.MembershipPlan
		if err := tx.First(&plan, in.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if plan.GymID != gymID {
			return &TenantIsolationError{Entity: "plan"}
		}
		if !plan.Active {
			return &BusinessRuleError{
				Rule:       "plan_inactive",
				Detail:     "plan is deactivated and not assignable",
				BlockingID: plan.ID,
			}
		}

		membership = model.Membership{
			MemberID:  member.ID,
			PlanID:    plan.ID,
			StartDate: in.StartDate,
			EndDate:   in.StartDate.AddDate(0, 0, plan.DurationDays),
			Status:    model.MembershipStatusActive,
			AutoRenew: in.AutoRenew,
			GymID:     gymID,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Membership assigned",
		zap.Uint("membership_id", membership.ID),
		zap.Uint("member_id", membership.MemberID),
		zap.Uint("plan_id", membership.PlanID),
		zap.Time("end_date", membership.EndDate),
		zap.Uint("gym_id", gymID))
	return &membership, nil
}

// RecomputeStatuses is the externally scheduled sweep over every
// non-terminal membership. It is idempotent: re-running with the same asOf
// fires nothing new, and CANCELLED/EXPIRED rows are never touched. gymID 0
// sweeps all tenants.
func (s *MembershipService) RecomputeStatuses(gymID uint, asOf time.Time) (int, error) {
	var transitioned int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		scope := func() *gorm.DB {
			q := tx.Model(&model.Membership{})
			if gymID != 0 {
				q = q.Where("gym_id = ?", gymID)
			}
			return q
		}

		// Past-due ACTIVE rows without auto-renew go straight to EXPIRED.
		res := scope().
			Where("status = ? AND end_date < ? AND auto_renew = ?",
				model.MembershipStatusActive, asOf, false).
			Update("status", model.MembershipStatusExpired)
		if res.Error != nil {
			return res.Error
		}
		transitioned += res.RowsAffected

		// Past-due ACTIVE rows with auto-renew get a grace stop in
		// PENDING_RENEWAL instead, awaiting the renewal payment.
		res = scope().
			Where("status = ? AND end_date < ? AND auto_renew = ?",
				model.MembershipStatusActive, asOf, true).
			Update("status", model.MembershipStatusPendingRenewal)
		if res.Error != nil {
			return res.Error
		}
		transitioned += res.RowsAffected

		// ACTIVE rows inside the renewal window await renewal.
		windowEnd := asOf.AddDate(0, 0, s.renewalWindowDays)
		res = scope().
			Where("status = ? AND end_date >= ? AND end_date < ?",
				model.MembershipStatusActive, asOf, windowEnd).
			Update("status", model.MembershipStatusPendingRenewal)
		if res.Error != nil {
			return res.Error
		}
		transitioned += res.RowsAffected

		// PENDING_RENEWAL rows that ran past their end date without a
		// successful renewal expire, unless auto-renew holds them open.
		res = scope().
			Where("status = ? AND end_date < ? AND auto_renew = ?",
				model.MembershipStatusPendingRenewal, asOf, false).
			Update("status", model.MembershipStatusExpired)
		if res.Error != nil {
			return res.Error
		}
		transitioned += res.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	if transitioned > 0 {
		s.log.Info("Membership statuses recomputed",
			zap.Uint("gym_id", gymID),
			zap.Time("as_of", asOf),
			zap.Int64("transitioned", transitioned))
	}
	return int(transitioned), nil
}

// Renew completes the PENDING_RENEWAL leg of the state machine: the end
// date is extended by the plan's current duration and the row returns to
// ACTIVE. An ACTIVE row may renew early, but only once asOf is inside the
// renewal window; renewing months ahead would silently stack periods.
// Terminal rows refuse.
func (s *MembershipService) Renew(gymID, membershipID uint, asOf time.Time) (*model.Membership, error) {
	var membership model.Membership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.getForUpdate(tx, gymID, membershipID)
		if err != nil {
			return err
		}
		if model.MembershipStatusTerminal(m.Status) {
			return &InvalidTransitionError{Entity: "membership", From: m.Status, To: model.MembershipStatusActive}
		}
		if m.Status == model.MembershipStatusActive {
			windowStart := m.EndDate.AddDate(0, 0, -s.renewalWindowDays)
			if asOf.Before(windowStart) {
				return &BusinessRuleError{
					Rule:       "renewal_outside_window",
					Detail:     "membership is not yet within its renewal window",
					BlockingID: m.ID,
				}
			}
		}

		var member model.Member
		if err := tx.First(&member, m.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var plan model.MembershipPlan
		if err := tx.First(&plan, m.PlanID).Error; err != nil {
			return err
		}

		newEnd := m.EndDate.AddDate(0, 0, plan.DurationDays)
		updates := map[string]interface{}{
			"end_date": newEnd,
			"status":   model.MembershipStatusActive,
		}
		if err := tx.Model(m).Updates(updates).Error; err != nil {
			return err
		}
		m.EndDate = newEnd
		m.Status = model.MembershipStatusActive
		membership = *m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Membership renewed",
		zap.Uint("membership_id", membership.ID),
		zap.Time("end_date", membership.EndDate),
		zap.Uint("gym_id", gymID))
	return &membership, nil
}

// Cancel moves an ACTIVE or PENDING_RENEWAL membership to CANCELLED
func (s *MembershipService) Cancel(gymID, membershipID uint) (*model.Membership, error) {
	var membership model.Membership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.getForUpdate(tx, gymID, membershipID)
		if err != nil {
			return err
		}
		if m.Status != model.MembershipStatusActive && m.Status != model.MembershipStatusPendingRenewal {
			return &InvalidTransitionError{Entity: "membership", From: m.Status, To: model.MembershipStatusCancelled}
		}

		if err := tx.Model(m).Update("status", model.MembershipStatusCancelled).Error; err != nil {
			return err
		}
		m.Status = model.MembershipStatusCancelled
		membership = *m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Membership cancelled",
		zap.Uint("membership_id", membership.ID),
		zap.Uint("gym_id", gymID))
	return &membership, nil
}

// HasGymAccess is the admission predicate consulted by the attendance gate
// and by assignment re-checks: the member must be live and ACTIVE and hold
// a membership in {ACTIVE, PENDING_RENEWAL} whose period covers asOf.
// A tombstoned member never has access, whatever their membership rows say.
func (s *MembershipService) HasGymAccess(gymID, memberID uint, asOf time.Time) (bool, error) {
	var member model.Member
	err := s.db.First(&member, memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if member.GymID != gymID || member.Status != model.MemberStatusActive {
		return false, nil
	}

	var count int64
	err = s.db.Model(&model.Membership{}).
		Where("member_id = ? AND gym_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			memberID, gymID,
			[]string{model.MembershipStatusActive, model.MembershipStatusPendingRenewal},
			asOf, asOf).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get returns a membership of the gym
func (s *MembershipService) Get(gymID, membershipID uint) (*model.Membership, error) {
	return s.getForUpdate(s.db, gymID, membershipID)
}

// ListByMember returns a member's memberships, newest first
func (s *MembershipService) ListByMember(gymID, memberID uint) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.Where("gym_id = ? AND member_id = ?", gymID, memberID).
		Order("start_date DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (s *MembershipService) getForUpdate(tx *gorm.DB, gymID, membershipID uint) (*model.Membership, error) {
	var membership model.Membership
	if err := tx.First(&membership, membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if membership.GymID != gymID {
		return nil, &TenantIsolationError{Entity: "membership"}
	}
	return &membership, nil
}
