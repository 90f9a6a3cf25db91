package services

import (
	"context"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// SpecialtyServiceImpl implements domain.SpecialtyService.
type SpecialtyServiceImpl struct {
	specialtyRepo domain.SpecialtyRepository
}

// NewSpecialtyService creates a new specialty service
func NewSpecialtyService(specialtyRepo domain.SpecialtyRepository) domain.SpecialtyService {
	return &SpecialtyServiceImpl{specialtyRepo: specialtyRepo}
}

// Create implements domain.SpecialtyService
func (s *SpecialtyServiceImpl) Create(ctx context.Context, specialty *domain.Specialty) (*domain.Specialty, error) {
	if err := s.specialtyRepo.Create(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}

// GetAll implements domain.SpecialtyService
func (s *SpecialtyServiceImpl) GetAll(ctx context.Context) ([]domain.Specialty, error) {
	return s.specialtyRepo.FindAll(ctx)
}

// Delete implements domain.SpecialtyService
func (s *SpecialtyServiceImpl) Delete(ctx context.Context, id string) error {
	return s.specialtyRepo.Delete(ctx, id)
}
