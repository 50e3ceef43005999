package service

import (
	"errors"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffService owns staff/owner accounts. Every staff account belongs to
// exactly one gym; it supplies the acting-staff identity stamped into
// member audit fields, so off-boarded staff are tombstoned, never removed.
type StaffService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(db *gorm.DB, log *zap.Logger) *StaffService {
	return &StaffService{db: db, log: log}
}

// StaffAttrs carries the fields accepted at registration
type StaffAttrs struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

// Register creates a staff account under a gym with a bcrypt-hashed password
func (s *StaffService) Register(gymID uint, attrs StaffAttrs) (*model.StaffUser, error) {
	if !model.ValidStaffRole(attrs.Role) {
		return nil, &InvalidEnumError{Field: "role", Value: attrs.Role}
	}

	var staff model.StaffUser
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.StaffUser{}).Where("email = ?", attrs.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateIdentityError{Field: "email"}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(attrs.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		staff = model.StaffUser{
			Name:     attrs.Name,
			Email:    attrs.Email,
			Password: string(hashed),
			Role:     attrs.Role,
			Phone:    attrs.Phone,
			Status:   model.StaffStatusActive,
			GymID:    gymID,
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Staff registered",
		zap.Uint("staff_id", staff.ID),
		zap.Uint("gym_id", staff.GymID),
		zap.String("role", staff.Role))
	return &staff, nil
}

// Authenticate verifies credentials and returns the staff account. Both an
// unknown email and a wrong password come back as ErrNotFound so the login
// handler cannot leak which one failed.
func (s *StaffService) Authenticate(email, password string) (*model.StaffUser, error) {
	var staff model.StaffUser
	if err := s.db.Where("email = ?", email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return nil, ErrNotFound
	}

	if staff.Status != model.StaffStatusActive {
		return nil, &BusinessRuleError{Rule: "staff_inactive", BlockingID: staff.ID}
	}

	return &staff, nil
}

// VerifyActor checks that the supplied acting-staff id is a live, active
// account of the given gym. The identity itself comes from the caller's
// session; the core only validates tenant membership.
func (s *StaffService) VerifyActor(gymID, staffID uint) error {
	var staff model.StaffUser
	if err := s.db.First(&staff, staffID).Error; err != nil {
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

// SoftDelete tombstones a staff account. Member audit references survive.
func (s *StaffService) SoftDelete(gymID, staffID uint) error {
	var staff model.StaffUser
	if err := s.db.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if staff.GymID != gymID {
		return &TenantIsolationError{Entity: "staff"}
	}

	if err := s.db.Delete(&staff).Error; err != nil {
		return err
	}

	s.log.Info("Staff soft-deleted", zap.Uint("staff_id", staffID), zap.Uint("gym_id", gymID))
	return nil
}

// List returns all live staff accounts of a gym
func (s *StaffService) List(gymID uint) ([]model.StaffUser, error) {
	var staff []model.StaffUser
	if err := s.db.Where("gym_id = ?", gymID).Order("id").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}
