package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

func seedSpecialty(t *testing.T, repo domain.SpecialtyRepository, title string) *domain.Specialty {
	t.Helper()
	specialty := &domain.Specialty{Title: title}
	require.NoError(t, repo.Create(context.Background(), specialty))
	return specialty
}

func seedDoctorUser(t *testing.T, userRepo domain.UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		Name:         "Dr. Test",
		PasswordHash: "hashed",
		Role:         domain.RoleDoctor,
		Status:       domain.StatusActive,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return user
}

func TestDoctorRepository_CreateAndFindWithSpecialties(t *testing.T) {
	db := newTestDB(t)
	doctorRepo := NewDoctorRepository(db)
	specialtyRepo := NewSpecialtyRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	user := seedDoctorUser(t, userRepo, "doc@example.com")
	cardio := seedSpecialty(t, specialtyRepo, "Cardiology")
	neuro := seedSpecialty(t, specialtyRepo, "Neurology")

	doctor := &domain.Doctor{
		UserID: user.ID,
		Name:   "Dr. Test",
		Email:  "doc@example.com",
	}
	require.NoError(t, doctorRepo.CreateWithSpecialties(ctx, doctor, []string{cardio.ID, neuro.ID}))

	found, err := doctorRepo.FindByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Len(t, found.Specialties, 2)
}

func TestDoctorRepository_UpdateReconcilesSpecialties(t *testing.T) {
	db := newTestDB(t)
	doctorRepo := NewDoctorRepository(db)
	specialtyRepo := NewSpecialtyRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	user := seedDoctorUser(t, userRepo, "doc2@example.com")
	cardio := seedSpecialty(t, specialtyRepo, "Cardiology")
	neuro := seedSpecialty(t, specialtyRepo, "Neurology")

	doctor := &domain.Doctor{UserID: user.ID, Name: "Dr. Test", Email: "doc2@example.com"}
	require.NoError(t, doctorRepo.CreateWithSpecialties(ctx, doctor, []string{cardio.ID}))

	newName := "Dr. Renamed"
	err := doctorRepo.UpdateWithSpecialties(ctx, doctor.ID,
		&domain.DoctorUpdate{Name: &newName},
		[]domain.SpecialtyChange{
			{SpecialtyID: cardio.ID, ShouldDelete: true},
			{SpecialtyID: neuro.ID, ShouldDelete: false},
			// Re-adding an existing link must not duplicate it.
			{SpecialtyID: neuro.ID, ShouldDelete: false},
		})
	require.NoError(t, err)

	found, err := doctorRepo.FindByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Renamed", found.Name)
	require.Len(t, found.Specialties, 1)
	assert.Equal(t, "Neurology", found.Specialties[0].Title)
}

func TestDoctorRepository_SoftDeleteWithUser(t *testing.T) {
	db := newTestDB(t)
	doctorRepo := NewDoctorRepository(db)
	specialtyRepo := NewSpecialtyRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	user := seedDoctorUser(t, userRepo, "doc3@example.com")
	cardio := seedSpecialty(t, specialtyRepo, "Cardiology")

	doctor := &domain.Doctor{UserID: user.ID, Name: "Dr. Test", Email: "doc3@example.com"}
	require.NoError(t, doctorRepo.CreateWithSpecialties(ctx, doctor, []string{cardio.ID}))

	userID, err := doctorRepo.SoftDeleteWithUser(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = doctorRepo.FindByID(ctx, doctor.ID)
	assert.ErrorIs(t, err, domain.ErrDoctorNotFound)

	// The identity row stays but can no longer authenticate.
	deletedUser, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deletedUser.IsDeleted)
	assert.Equal(t, domain.StatusDeleted, deletedUser.Status)
	assert.False(t, deletedUser.CanAuthenticate())
}

func TestDoctorRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	doctorRepo := NewDoctorRepository(db)

	_, err := doctorRepo.SoftDeleteWithUser(context.Background(), "no-such-doctor")
	assert.ErrorIs(t, err, domain.ErrDoctorNotFound)
}
