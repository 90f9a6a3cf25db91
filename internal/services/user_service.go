package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// UserServiceImpl implements domain.UserService, the admin-driven
// account provisioning flows.
type UserServiceImpl struct {
	userRepo      domain.UserRepository
	doctorRepo    domain.DoctorRepository
	specialtyRepo domain.SpecialtyRepository
	passwordSvc   domain.PasswordService
}

// NewUserService creates a new user service
func NewUserService(
	userRepo domain.UserRepository,
	doctorRepo domain.DoctorRepository,
	specialtyRepo domain.SpecialtyRepository,
	passwordSvc domain.PasswordService,
) domain.UserService {
	return &UserServiceImpl{
		userRepo:      userRepo,
		doctorRepo:    doctorRepo,
		specialtyRepo: specialtyRepo,
		passwordSvc:   passwordSvc,
	}
}

// CreateDoctor implements domain.UserService. Validates every
// specialty id up front, creates the identity row with a forced
// password change, then the profile and links in one transaction; a
// profile failure hard-deletes the identity row.
func (s *UserServiceImpl) CreateDoctor(ctx context.Context, payload *domain.CreateDoctorPayload) (*domain.Doctor, error) {
	for _, specialtyID := range payload.Specialties {
		if _, err := s.specialtyRepo.FindByID(ctx, specialtyID); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := s.passwordSvc.Hash(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:                 uuid.NewString(),
		Email:              payload.Email,
		Name:               payload.Name,
		PasswordHash:       hash,
		Role:               domain.RoleDoctor,
		Status:             domain.StatusActive,
		NeedPasswordChange: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	doctor := &domain.Doctor{
		UserID:              user.ID,
		Name:                payload.Name,
		Email:               payload.Email,
		ContactNumber:       payload.ContactNumber,
		Address:             payload.Address,
		RegistrationNumber:  payload.RegistrationNumber,
		Experience:          payload.Experience,
		Gender:              payload.Gender,
		AppointmentFee:      payload.AppointmentFee,
		CurrentWorkingPlace: payload.CurrentWorkingPlace,
		Designation:         payload.Designation,
	}
	if err := s.doctorRepo.CreateWithSpecialties(ctx, doctor, payload.Specialties); err != nil {
		if delErr := s.userRepo.HardDelete(ctx, user.ID); delErr != nil {
			log.Printf("COMPENSATION_FAILED: orphaned user %s: %v", user.ID, delErr)
		}
		return nil, err
	}

	return s.doctorRepo.FindByID(ctx, doctor.ID)
}
