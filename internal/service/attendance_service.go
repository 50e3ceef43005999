package service

import (
	"errors"
	"time"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Check-in rejection rules
const (
	RejectMemberDeleted      = "member_deleted"
	RejectNoActiveMembership = "no_active_membership"
)

// AttendanceService is the gate in front of the door: it consults the
// membership lifecycle engine before admitting a visit. Repeated check-ins
// are not deduplicated by time window; each admission is its own row.
type AttendanceService struct {
	db          *gorm.DB
	log         *zap.Logger
	memberships *MembershipService
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *gorm.DB, log *zap.Logger, memberships *MembershipService) *AttendanceService {
	return &AttendanceService{db: db, log: log, memberships: memberships}
}

// CheckIn admits a member as of the given instant, stamped with the
// admitting descriptor (a staff name or kiosk id, never resolved against a
// staff account). Rejections come back as BusinessRuleError with rule
// member_deleted or no_active_membership.
func (s *AttendanceService) CheckIn(gymID, memberID uint, admittedBy string, asOf time.Time) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var member model.Member
		err := tx.Unscoped().First(&member, memberID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if member.GymID != gymID {
			return &TenantIsolationError{Entity: "member"}
		}
		if member.DeletedAt.Valid {
			return &BusinessRuleError{Rule: RejectMemberDeleted, BlockingID: member.ID}
		}

		ok, err := s.memberships.HasGymAccess(gymID, memberID, asOf)
		if err != nil {
			return err
		}
		if !ok {
			return &BusinessRuleError{Rule: RejectNoActiveMembership, BlockingID: member.ID}
		}

		checkIn = model.CheckIn{
			GymID:      gymID,
			MemberID:   memberID,
			VisitedAt:  asOf,
			AdmittedBy: admittedBy,
		}
		return tx.Create(&checkIn).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Member checked in",
		zap.Uint("checkin_id", checkIn.ID),
		zap.Uint("member_id", memberID),
		zap.String("admitted_by", admittedBy),
		zap.Uint("gym_id", gymID))
	return &checkIn, nil
}

// History returns a member's check-ins, newest first
func (s *AttendanceService) History(gymID, memberID uint) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := s.db.Where("gym_id = ? AND member_id = ?", gymID, memberID).
		Order("visited_at DESC").
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}
	return checkIns, nil
}

// VoidEntry soft-deletes an erroneous check-in. This is the only mutation
// a check-in row ever sees after creation.
func (s *AttendanceService) VoidEntry(gymID, checkInID uint) error {
	var checkIn model.CheckIn
	if err := s.db.First(&checkIn, checkInID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if checkIn.GymID != gymID {
		return &TenantIsolationError{Entity: "check-in"}
	}

	if err := s.db.Delete(&checkIn).Error; err != nil {
		return err
	}

	s.log.Info("Check-in voided", zap.Uint("checkin_id", checkInID), zap.Uint("gym_id", gymID))
	return nil
}
