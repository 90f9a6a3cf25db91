package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// SpecialtyRepositoryImpl implements domain.SpecialtyRepository using GORM
type SpecialtyRepositoryImpl struct {
	db *gorm.DB
}

// DBSpecialty represents the database model for Specialty
type DBSpecialty struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"uniqueIndex;size:255"`
	Icon        string
	Description string
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBSpecialty) TableName() string {
	return "specialties"
}

// NewSpecialtyRepository creates a new specialty repository
func NewSpecialtyRepository(db *gorm.DB) domain.SpecialtyRepository {
	return &SpecialtyRepositoryImpl{db: db}
}

// Create implements domain.SpecialtyRepository
func (r *SpecialtyRepositoryImpl) Create(ctx context.Context, specialty *domain.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = uuid.NewString()
	}
	dbSpecialty := &DBSpecialty{
		ID:          specialty.ID,
		Title:       specialty.Title,
		Icon:        specialty.Icon,
		Description: specialty.Description,
	}
	if err := r.db.WithContext(ctx).Create(dbSpecialty).Error; err != nil {
		return err
	}
	specialty.CreatedAt = dbSpecialty.CreatedAt
	return nil
}

// FindByID implements domain.SpecialtyRepository
func (r *SpecialtyRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Specialty, error) {
	var dbSpecialty DBSpecialty
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbSpecialty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSpecialtyNotFound
		}
		return nil, err
	}
	return specialtyToDomain(&dbSpecialty), nil
}

// FindAll implements domain.SpecialtyRepository
func (r *SpecialtyRepositoryImpl) FindAll(ctx context.Context) ([]domain.Specialty, error) {
	var dbSpecialties []DBSpecialty
	if err := r.db.WithContext(ctx).Find(&dbSpecialties).Error; err != nil {
		return nil, err
	}

	specialties := make([]domain.Specialty, 0, len(dbSpecialties))
	for i := range dbSpecialties {
		specialties = append(specialties, *specialtyToDomain(&dbSpecialties[i]))
	}
	return specialties, nil
}

// Delete implements domain.SpecialtyRepository, removing the
// specialty and its doctor links together.
func (r *SpecialtyRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&DBSpecialty{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrSpecialtyNotFound
		}
		return tx.Where("specialty_id = ?", id).Delete(&DBDoctorSpecialty{}).Error
	})
}

func specialtyToDomain(dbSpecialty *DBSpecialty) *domain.Specialty {
	return &domain.Specialty{
		ID:          dbSpecialty.ID,
		Title:       dbSpecialty.Title,
		Icon:        dbSpecialty.Icon,
		Description: dbSpecialty.Description,
		CreatedAt:   dbSpecialty.CreatedAt,
	}
}
