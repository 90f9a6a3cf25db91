package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// PatientRepositoryImpl implements domain.PatientRepository using GORM
type PatientRepositoryImpl struct {
	db *gorm.DB
}

// DBPatient represents the database model for Patient
type DBPatient struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"uniqueIndex;size:36"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"index;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBPatient) TableName() string {
	return "patients"
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) domain.PatientRepository {
	return &PatientRepositoryImpl{db: db}
}

// Create implements domain.PatientRepository
func (r *PatientRepositoryImpl) Create(ctx context.Context, patient *domain.Patient) error {
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	dbPatient := &DBPatient{
		ID:     patient.ID,
		UserID: patient.UserID,
		Name:   patient.Name,
		Email:  patient.Email,
	}
	if err := r.db.WithContext(ctx).Create(dbPatient).Error; err != nil {
		return err
	}
	patient.CreatedAt = dbPatient.CreatedAt
	patient.UpdatedAt = dbPatient.UpdatedAt
	return nil
}

// FindByUserID implements domain.PatientRepository
func (r *PatientRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	var dbPatient DBPatient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbPatient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbPatient), nil
}

// UpsertByUserID implements domain.PatientRepository. Idempotent:
// repeated OAuth completions reuse the existing profile.
func (r *PatientRepositoryImpl) UpsertByUserID(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	existing, err := r.FindByUserID(ctx, patient.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err := r.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (r *PatientRepositoryImpl) dbToDomain(dbPatient *DBPatient) *domain.Patient {
	return &domain.Patient{
		ID:        dbPatient.ID,
		UserID:    dbPatient.UserID,
		Name:      dbPatient.Name,
		Email:     dbPatient.Email,
		CreatedAt: dbPatient.CreatedAt,
		UpdatedAt: dbPatient.UpdatedAt,
	}
}
