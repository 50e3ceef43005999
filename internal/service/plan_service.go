package service

import (
	"errors"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanService owns the per-gym plan catalog. Plans are templates: editing
// or deactivating one never touches memberships already sold against it.
type PlanService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(db *gorm.DB, log *zap.Logger) *PlanService {
	return &PlanService{db: db, log: log}
}

// PlanAttrs carries the fields accepted when creating or updating a plan
type PlanAttrs struct {
	Name         string
	DurationDays int
	Price        int64
	Description  string
}

func validatePlanAttrs(attrs PlanAttrs) error {
	if attrs.DurationDays <= 0 {
		return &BusinessRuleError{Rule: "plan_duration_positive", Detail: "duration_days must be greater than zero"}
	}
	if attrs.Price < 0 {
		return &BusinessRuleError{Rule: "plan_price_non_negative", Detail: "price must not be negative"}
	}
	return nil
}

// Create adds a plan to a gym's catalog
func (s *PlanService) Create(gymID uint, attrs PlanAttrs) (*model.MembershipPlan, error) {
	if err := validatePlanAttrs(attrs); err != nil {
		return nil, err
	}

	plan := model.MembershipPlan{
		Name:         attrs.Name,
		DurationDays: attrs.DurationDays,
		Price:        attrs.Price,
		Description:  attrs.Description,
		Active:       true,
		GymID:        gymID,
	}
	if err := s.db.Create(&plan).Error; err != nil {
		return nil, err
	}

	s.log.Info("Plan created",
		zap.Uint("plan_id", plan.ID),
		zap.Uint("gym_id", gymID),
		zap.Int("duration_days", plan.DurationDays),
		zap.Int64("price", plan.Price))
	return &plan, nil
}

// Update edits a plan's template fields. Existing memberships keep the end
// dates computed from the old duration.
func (s *PlanService) Update(gymID, planID uint, attrs PlanAttrs) (*model.MembershipPlan, error) {
	if err := validatePlanAttrs(attrs); err != nil {
		return nil, err
	}

	plan, err := s.Get(gymID, planID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":          attrs.Name,
		"duration_days": attrs.DurationDays,
		"price":         attrs.Price,
		"description":   attrs.Description,
	}
	if err := s.db.Model(plan).Updates(updates).Error; err != nil {
		return nil, err
	}

	plan.Name = attrs.Name
	plan.DurationDays = attrs.DurationDays
	plan.Price = attrs.Price
	plan.Description = attrs.Description
	return plan, nil
}

// Deactivate hides a plan from new assignments without deleting history
func (s *PlanService) Deactivate(gymID, planID uint) (*model.MembershipPlan, error) {
	plan, err := s.Get(gymID, planID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(plan).Update("active", false).Error; err != nil {
		return nil, err
	}
	plan.Active = false

	s.log.Info("Plan deactivated", zap.Uint("plan_id", planID), zap.Uint("gym_id", gymID))
	return plan, nil
}

// Get returns a live plan of the gym
func (s *PlanService) Get(gymID, planID uint) (*model.MembershipPlan, error) {
	var plan model.MembershipPlan
	if err := s.db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if plan.GymID != gymID {
		return nil, &TenantIsolationError{Entity: "plan"}
	}
	return &plan, nil
}

// List returns the gym's catalog; activeOnly restricts it to assignable plans
func (s *PlanService) List(gymID uint, activeOnly bool) ([]model.MembershipPlan, error) {
	q := s.db.Where("gym_id = ?", gymID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var plans []model.MembershipPlan
	if err := q.Order("id").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
