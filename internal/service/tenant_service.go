package service

import (
	"errors"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantService owns the Gym entity, the tenant root every other record
// hangs off. There is no delete operation: the schema's RESTRICT foreign
// keys refuse to drop a gym while any child row references it.
type TenantService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(db *gorm.DB, log *zap.Logger) *TenantService {
	return &TenantService{db: db, log: log}
}

// Create registers a new gym branch
func (s *TenantService) Create(name, address, phone string) (*model.Gym, error) {
	gym := model.Gym{
		Name:    name,
		Address: address,
		Phone:   phone,
	}

	if err := s.db.Create(&gym).Error; err != nil {
		return nil, err
	}

	s.log.Info("Gym created", zap.Uint("gym_id", gym.ID), zap.String("name", gym.Name))
	return &gym, nil
}

// Get returns a gym by id
func (s *TenantService) Get(id uint) (*model.Gym, error) {
	var gym model.Gym
	if err := s.db.First(&gym, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gym, nil
}
