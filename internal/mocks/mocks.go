// Package mocks provides func-field test doubles for the domain
// ports. Tests assign only the functions they need; calling an
// unassigned function panics, which surfaces unexpected interactions.
package mocks

import (
	"context"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

type UserRepository struct {
	CreateFn                  func(ctx context.Context, user *domain.User) error
	FindByEmailFn             func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFn                func(ctx context.Context, id string) (*domain.User, error)
	UpdateFn                  func(ctx context.Context, user *domain.User) error
	UpdatePasswordFn          func(ctx context.Context, userID, passwordHash string) error
	MarkEmailVerifiedFn       func(ctx context.Context, userID string) error
	ClearNeedPasswordChangeFn func(ctx context.Context, userID string) error
	HardDeleteFn              func(ctx context.Context, userID string) error
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFn(ctx, user)
}
func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.FindByEmailFn(ctx, email)
}
func (m *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return m.FindByIDFn(ctx, id)
}
func (m *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.UpdateFn(ctx, user)
}
func (m *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.UpdatePasswordFn(ctx, userID, passwordHash)
}
func (m *UserRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	return m.MarkEmailVerifiedFn(ctx, userID)
}
func (m *UserRepository) ClearNeedPasswordChange(ctx context.Context, userID string) error {
	return m.ClearNeedPasswordChangeFn(ctx, userID)
}
func (m *UserRepository) HardDelete(ctx context.Context, userID string) error {
	return m.HardDeleteFn(ctx, userID)
}

type SessionRepository struct {
	CreateFn                 func(ctx context.Context, session *domain.Session) error
	FindByTokenFn            func(ctx context.Context, token string) (*domain.Session, error)
	ExtendFn                 func(ctx context.Context, token string, session *domain.Session) error
	DeleteFn                 func(ctx context.Context, token string) error
	DeleteAllForUserFn       func(ctx context.Context, userID string) error
	DeleteAllForUserExceptFn func(ctx context.Context, userID, keepToken string) error
}

func (m *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return m.CreateFn(ctx, session)
}
func (m *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	return m.FindByTokenFn(ctx, token)
}
func (m *SessionRepository) Extend(ctx context.Context, token string, session *domain.Session) error {
	return m.ExtendFn(ctx, token, session)
}
func (m *SessionRepository) Delete(ctx context.Context, token string) error {
	return m.DeleteFn(ctx, token)
}
func (m *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return m.DeleteAllForUserFn(ctx, userID)
}
func (m *SessionRepository) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	return m.DeleteAllForUserExceptFn(ctx, userID, keepToken)
}

type PatientRepository struct {
	CreateFn         func(ctx context.Context, patient *domain.Patient) error
	FindByUserIDFn   func(ctx context.Context, userID string) (*domain.Patient, error)
	UpsertByUserIDFn func(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
}

func (m *PatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	return m.CreateFn(ctx, patient)
}
func (m *PatientRepository) FindByUserID(ctx context.Context, userID string) (*domain.Patient, error) {
	return m.FindByUserIDFn(ctx, userID)
}
func (m *PatientRepository) UpsertByUserID(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	return m.UpsertByUserIDFn(ctx, patient)
}

type DoctorRepository struct {
	CreateWithSpecialtiesFn func(ctx context.Context, doctor *domain.Doctor, specialtyIDs []string) error
	FindByIDFn              func(ctx context.Context, id string) (*domain.Doctor, error)
	FindAllFn               func(ctx context.Context) ([]domain.Doctor, error)
	UpdateWithSpecialtiesFn func(ctx context.Context, id string, update *domain.DoctorUpdate, changes []domain.SpecialtyChange) error
	SoftDeleteWithUserFn    func(ctx context.Context, id string) (string, error)
}

func (m *DoctorRepository) CreateWithSpecialties(ctx context.Context, doctor *domain.Doctor, specialtyIDs []string) error {
	return m.CreateWithSpecialtiesFn(ctx, doctor, specialtyIDs)
}
func (m *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	return m.FindByIDFn(ctx, id)
}
func (m *DoctorRepository) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	return m.FindAllFn(ctx)
}
func (m *DoctorRepository) UpdateWithSpecialties(ctx context.Context, id string, update *domain.DoctorUpdate, changes []domain.SpecialtyChange) error {
	return m.UpdateWithSpecialtiesFn(ctx, id, update, changes)
}
func (m *DoctorRepository) SoftDeleteWithUser(ctx context.Context, id string) (string, error) {
	return m.SoftDeleteWithUserFn(ctx, id)
}

type SpecialtyRepository struct {
	CreateFn   func(ctx context.Context, specialty *domain.Specialty) error
	FindByIDFn func(ctx context.Context, id string) (*domain.Specialty, error)
	FindAllFn  func(ctx context.Context) ([]domain.Specialty, error)
	DeleteFn   func(ctx context.Context, id string) error
}

func (m *SpecialtyRepository) Create(ctx context.Context, specialty *domain.Specialty) error {
	return m.CreateFn(ctx, specialty)
}
func (m *SpecialtyRepository) FindByID(ctx context.Context, id string) (*domain.Specialty, error) {
	return m.FindByIDFn(ctx, id)
}
func (m *SpecialtyRepository) FindAll(ctx context.Context) ([]domain.Specialty, error) {
	return m.FindAllFn(ctx)
}
func (m *SpecialtyRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

type TokenService struct {
	GenerateAccessTokenFn  func(snapshot domain.TokenClaims) (string, error)
	GenerateRefreshTokenFn func(snapshot domain.TokenClaims) (string, error)
	ValidateAccessTokenFn  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFn func(token string) (*domain.TokenClaims, error)
}

func (m *TokenService) GenerateAccessToken(snapshot domain.TokenClaims) (string, error) {
	return m.GenerateAccessTokenFn(snapshot)
}
func (m *TokenService) GenerateRefreshToken(snapshot domain.TokenClaims) (string, error) {
	return m.GenerateRefreshTokenFn(snapshot)
}
func (m *TokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	return m.ValidateAccessTokenFn(token)
}
func (m *TokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	return m.ValidateRefreshTokenFn(token)
}

type PasswordService struct {
	HashFn   func(password string) (string, error)
	VerifyFn func(hashedPassword, password string) bool
}

func (m *PasswordService) Hash(password string) (string, error) { return m.HashFn(password) }
func (m *PasswordService) Verify(hashedPassword, password string) bool {
	return m.VerifyFn(hashedPassword, password)
}

type NotificationService struct {
	SendEmailFn func(to, subject, templateName string, data map[string]any) error
	SendSMSFn   func(to, message string) error
}

func (m *NotificationService) SendEmail(to, subject, templateName string, data map[string]any) error {
	return m.SendEmailFn(to, subject, templateName, data)
}
func (m *NotificationService) SendSMS(to, message string) error { return m.SendSMSFn(to, message) }

type OTPService struct {
	GenerateFn  func(ctx context.Context, email, purpose string) (*domain.OTPChallenge, error)
	VerifyFn    func(ctx context.Context, email, code, purpose string) error
	CanResendFn func(ctx context.Context, email, purpose string) (bool, int64, error)
}

func (m *OTPService) Generate(ctx context.Context, email, purpose string) (*domain.OTPChallenge, error) {
	return m.GenerateFn(ctx, email, purpose)
}
func (m *OTPService) Verify(ctx context.Context, email, code, purpose string) error {
	return m.VerifyFn(ctx, email, code, purpose)
}
func (m *OTPService) CanResend(ctx context.Context, email, purpose string) (bool, int64, error) {
	return m.CanResendFn(ctx, email, purpose)
}

type AuthService struct {
	RegisterFn       func(ctx context.Context, name, email, password string) (*domain.AuthResult, error)
	LoginFn          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshTokenFn   func(ctx context.Context, refreshToken, sessionToken string) (*domain.AuthResult, error)
	ChangePasswordFn func(ctx context.Context, sessionToken, currentPassword, newPassword string) error
	LogoutFn         func(ctx context.Context, sessionToken string) error
	VerifyEmailFn    func(ctx context.Context, email, otp string) error
	ForgetPasswordFn func(ctx context.Context, email string) error
	ResetPasswordFn  func(ctx context.Context, email, otp, newPassword string) error
	CompleteOAuthFn  func(ctx context.Context, sessionToken string) (*domain.AuthResult, error)
	GetMeFn          func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *AuthService) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	return m.RegisterFn(ctx, name, email, password)
}
func (m *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return m.LoginFn(ctx, email, password)
}
func (m *AuthService) RefreshToken(ctx context.Context, refreshToken, sessionToken string) (*domain.AuthResult, error) {
	return m.RefreshTokenFn(ctx, refreshToken, sessionToken)
}
func (m *AuthService) ChangePassword(ctx context.Context, sessionToken, currentPassword, newPassword string) error {
	return m.ChangePasswordFn(ctx, sessionToken, currentPassword, newPassword)
}
func (m *AuthService) Logout(ctx context.Context, sessionToken string) error {
	return m.LogoutFn(ctx, sessionToken)
}
func (m *AuthService) VerifyEmail(ctx context.Context, email, otp string) error {
	return m.VerifyEmailFn(ctx, email, otp)
}
func (m *AuthService) ForgetPassword(ctx context.Context, email string) error {
	return m.ForgetPasswordFn(ctx, email)
}
func (m *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return m.ResetPasswordFn(ctx, email, otp, newPassword)
}
func (m *AuthService) CompleteOAuth(ctx context.Context, sessionToken string) (*domain.AuthResult, error) {
	return m.CompleteOAuthFn(ctx, sessionToken)
}
func (m *AuthService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	return m.GetMeFn(ctx, userID)
}
