package services

import (
	"context"
	"log"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// DoctorServiceImpl implements domain.DoctorService.
type DoctorServiceImpl struct {
	doctorRepo    domain.DoctorRepository
	specialtyRepo domain.SpecialtyRepository
	sessionRepo   domain.SessionRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(
	doctorRepo domain.DoctorRepository,
	specialtyRepo domain.SpecialtyRepository,
	sessionRepo domain.SessionRepository,
) domain.DoctorService {
	return &DoctorServiceImpl{
		doctorRepo:    doctorRepo,
		specialtyRepo: specialtyRepo,
		sessionRepo:   sessionRepo,
	}
}

// GetAll implements domain.DoctorService
func (s *DoctorServiceImpl) GetAll(ctx context.Context) ([]domain.Doctor, error) {
	return s.doctorRepo.FindAll(ctx)
}

// GetByID implements domain.DoctorService
func (s *DoctorServiceImpl) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.doctorRepo.FindByID(ctx, id)
}

// Update implements domain.DoctorService. Specialty ids referenced by
// additions are validated before the transactional write.
func (s *DoctorServiceImpl) Update(ctx context.Context, id string, payload *domain.UpdateDoctorPayload) (*domain.Doctor, error) {
	if _, err := s.doctorRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	for _, change := range payload.Specialties {
		if change.ShouldDelete {
			continue
		}
		if _, err := s.specialtyRepo.FindByID(ctx, change.SpecialtyID); err != nil {
			return nil, err
		}
	}

	if err := s.doctorRepo.UpdateWithSpecialties(ctx, id, payload.Doctor, payload.Specialties); err != nil {
		return nil, err
	}

	return s.doctorRepo.FindByID(ctx, id)
}

// Delete implements domain.DoctorService. Soft-deletes the doctor and
// the owning user, then revokes every session of that user so the
// account stops authenticating immediately.
func (s *DoctorServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := s.doctorRepo.SoftDeleteWithUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		log.Printf("SESSION_REVOKE_FAILED: user=%s error=%v", userID, err)
	}
	return nil
}
