package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// DoctorRepositoryImpl implements domain.DoctorRepository using GORM.
// Multi-row writes (profile + specialty links, profile + user soft
// delete) run inside a single transaction.
type DoctorRepositoryImpl struct {
	db *gorm.DB
}

// DBDoctor represents the database model for Doctor
type DBDoctor struct {
	ID                  string `gorm:"primaryKey;size:36"`
	UserID              string `gorm:"uniqueIndex;size:36"`
	Name                string `gorm:"size:255"`
	Email               string `gorm:"index;size:255"`
	ContactNumber       string `gorm:"size:32"`
	Address             string
	RegistrationNumber  string `gorm:"size:64"`
	Experience          int
	Gender              string `gorm:"size:16"`
	AppointmentFee      int
	CurrentWorkingPlace string
	Designation         string `gorm:"size:255"`
	AverageRating       float64
	IsDeleted           bool `gorm:"index"`
	DeletedAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName returns the table name for GORM
func (DBDoctor) TableName() string {
	return "doctors"
}

// DBDoctorSpecialty is the doctor-specialty join row
type DBDoctorSpecialty struct {
	DoctorID    string `gorm:"primaryKey;size:36"`
	SpecialtyID string `gorm:"primaryKey;size:36"`
}

// TableName returns the table name for GORM
func (DBDoctorSpecialty) TableName() string {
	return "doctor_specialties"
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *gorm.DB) domain.DoctorRepository {
	return &DoctorRepositoryImpl{db: db}
}

// CreateWithSpecialties implements domain.DoctorRepository. Profile
// and specialty links commit together or not at all.
func (r *DoctorRepositoryImpl) CreateWithSpecialties(ctx context.Context, doctor *domain.Doctor, specialtyIDs []string) error {
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	dbDoctor := r.domainToDB(doctor)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dbDoctor).Error; err != nil {
			return err
		}
		for _, specialtyID := range specialtyIDs {
			link := &DBDoctorSpecialty{DoctorID: dbDoctor.ID, SpecialtyID: specialtyID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID implements domain.DoctorRepository, loading linked
// specialties alongside the profile. Soft-deleted doctors are absent.
func (r *DoctorRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	var dbDoctor DBDoctor
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&dbDoctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}

	doctor := r.dbToDomain(&dbDoctor)

	var specialties []DBSpecialty
	err = r.db.WithContext(ctx).
		Joins("JOIN doctor_specialties ON doctor_specialties.specialty_id = specialties.id").
		Where("doctor_specialties.doctor_id = ?", id).
		Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	for i := range specialties {
		doctor.Specialties = append(doctor.Specialties, *specialtyToDomain(&specialties[i]))
	}

	return doctor, nil
}

// FindAll implements domain.DoctorRepository
func (r *DoctorRepositoryImpl) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	var dbDoctors []DBDoctor
	if err := r.db.WithContext(ctx).Where("is_deleted = ?", false).Find(&dbDoctors).Error; err != nil {
		return nil, err
	}

	doctors := make([]domain.Doctor, 0, len(dbDoctors))
	for i := range dbDoctors {
		doctors = append(doctors, *r.dbToDomain(&dbDoctors[i]))
	}
	return doctors, nil
}

// UpdateWithSpecialties implements domain.DoctorRepository. Field
// updates and link changes apply atomically.
func (r *DoctorRepositoryImpl) UpdateWithSpecialties(ctx context.Context, id string, update *domain.DoctorUpdate, changes []domain.SpecialtyChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if update != nil {
			fields := map[string]any{}
			if update.Name != nil {
				fields["name"] = *update.Name
			}
			if update.ContactNumber != nil {
				fields["contact_number"] = *update.ContactNumber
			}
			if update.Address != nil {
				fields["address"] = *update.Address
			}
			if update.Experience != nil {
				fields["experience"] = *update.Experience
			}
			if update.AppointmentFee != nil {
				fields["appointment_fee"] = *update.AppointmentFee
			}
			if update.CurrentWorkingPlace != nil {
				fields["current_working_place"] = *update.CurrentWorkingPlace
			}
			if update.Designation != nil {
				fields["designation"] = *update.Designation
			}
			if len(fields) > 0 {
				if err := tx.Model(&DBDoctor{}).Where("id = ?", id).Updates(fields).Error; err != nil {
					return err
				}
			}
		}

		for _, change := range changes {
			if change.ShouldDelete {
				err := tx.Where("doctor_id = ? AND specialty_id = ?", id, change.SpecialtyID).
					Delete(&DBDoctorSpecialty{}).Error
				if err != nil {
					return err
				}
				continue
			}

			var count int64
			err := tx.Model(&DBDoctorSpecialty{}).
				Where("doctor_id = ? AND specialty_id = ?", id, change.SpecialtyID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				link := &DBDoctorSpecialty{DoctorID: id, SpecialtyID: change.SpecialtyID}
				if err := tx.Create(link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SoftDeleteWithUser implements domain.DoctorRepository. Marks the
// doctor and the owning user deleted and removes specialty links in
// one transaction; session revocation is the caller's next step.
func (r *DoctorRepositoryImpl) SoftDeleteWithUser(ctx context.Context, id string) (string, error) {
	var dbDoctor DBDoctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbDoctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrDoctorNotFound
		}
		return "", err
	}

	now := time.Now()
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DBDoctor{}).Where("id = ?", id).Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&DBUser{}).Where("id = ?", dbDoctor.UserID).Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
			"status":     domain.StatusDeleted,
		}).Error; err != nil {
			return err
		}
		return tx.Where("doctor_id = ?", id).Delete(&DBDoctorSpecialty{}).Error
	})
	if err != nil {
		return "", err
	}
	return dbDoctor.UserID, nil
}

func (r *DoctorRepositoryImpl) domainToDB(doctor *domain.Doctor) *DBDoctor {
	return &DBDoctor{
		ID:                  doctor.ID,
		UserID:              doctor.UserID,
		Name:                doctor.Name,
		Email:               doctor.Email,
		ContactNumber:       doctor.ContactNumber,
		Address:             doctor.Address,
		RegistrationNumber:  doctor.RegistrationNumber,
		Experience:          doctor.Experience,
		Gender:              doctor.Gender,
		AppointmentFee:      doctor.AppointmentFee,
		CurrentWorkingPlace: doctor.CurrentWorkingPlace,
		Designation:         doctor.Designation,
		AverageRating:       doctor.AverageRating,
		IsDeleted:           doctor.IsDeleted,
		DeletedAt:           doctor.DeletedAt,
	}
}

func (r *DoctorRepositoryImpl) dbToDomain(dbDoctor *DBDoctor) *domain.Doctor {
	return &domain.Doctor{
		ID:                  dbDoctor.ID,
		UserID:              dbDoctor.UserID,
		Name:                dbDoctor.Name,
		Email:               dbDoctor.Email,
		ContactNumber:       dbDoctor.ContactNumber,
		Address:             dbDoctor.Address,
		RegistrationNumber:  dbDoctor.RegistrationNumber,
		Experience:          dbDoctor.Experience,
		Gender:              dbDoctor.Gender,
		AppointmentFee:      dbDoctor.AppointmentFee,
		CurrentWorkingPlace: dbDoctor.CurrentWorkingPlace,
		Designation:         dbDoctor.Designation,
		AverageRating:       dbDoctor.AverageRating,
		IsDeleted:           dbDoctor.IsDeleted,
		DeletedAt:           dbDoctor.DeletedAt,
		CreatedAt:           dbDoctor.CreatedAt,
		UpdatedAt:           dbDoctor.UpdatedAt,
	}
}
