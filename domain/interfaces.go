package domain

import "context"

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, userID string) error
	ClearNeedPasswordChange(ctx context.Context, userID string) error
	// HardDelete removes the row entirely. Used only as the
	// compensating action when profile creation fails after the
	// identity row was committed.
	HardDelete(ctx context.Context, userID string) error
}

// SessionRepository defines session data access operations keyed by
// the opaque session token.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindByToken treats sessions past their expiry as absent.
	FindByToken(ctx context.Context, token string) (*Session, error)
	// Extend slides expiresAt/updatedAt forward on refresh.
	Extend(ctx context.Context, token string, session *Session) error
	Delete(ctx context.Context, token string) error
	// DeleteAllForUser removes every session of a user in one bulk
	// operation, so no stale session survives a password reset.
	DeleteAllForUser(ctx context.Context, userID string) error
	// DeleteAllForUserExcept keeps the caller's own session alive.
	DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error
}

// PatientRepository defines patient profile persistence.
type PatientRepository interface {
	Create(ctx context.Context, patient *Patient) error
	FindByUserID(ctx context.Context, userID string) (*Patient, error)
	// UpsertByUserID creates the profile if absent; idempotent for
	// repeated OAuth completions.
	UpsertByUserID(ctx context.Context, patient *Patient) (*Patient, error)
}

// DoctorRepository defines doctor profile persistence. Multi-row
// writes run inside a single database transaction.
type DoctorRepository interface {
	CreateWithSpecialties(ctx context.Context, doctor *Doctor, specialtyIDs []string) error
	FindByID(ctx context.Context, id string) (*Doctor, error)
	FindAll(ctx context.Context) ([]Doctor, error)
	// UpdateWithSpecialties applies field updates and specialty link
	// changes atomically.
	UpdateWithSpecialties(ctx context.Context, id string, update *DoctorUpdate, changes []SpecialtyChange) error
	// SoftDeleteWithUser marks doctor and owning user deleted in one
	// transaction and reports the owning user id.
	SoftDeleteWithUser(ctx context.Context, id string) (userID string, err error)
}

// SpecialtyRepository defines specialty persistence.
type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *Specialty) error
	FindByID(ctx context.Context, id string) (*Specialty, error)
	FindAll(ctx context.Context) ([]Specialty, error)
	Delete(ctx context.Context, id string) error
}

// TokenService issues and verifies the stateless token pair. Access
// and refresh tokens use distinct secrets and are not interchangeable.
type TokenService interface {
	GenerateAccessToken(snapshot TokenClaims) (string, error)
	GenerateRefreshToken(snapshot TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// NotificationService defines outbound delivery. Failures must never
// corrupt auth state.
type NotificationService interface {
	SendEmail(to, subject, templateName string, data map[string]any) error
	SendSMS(to, message string) error
}

// OTPService defines purpose-scoped single-use challenge operations.
type OTPService interface {
	Generate(ctx context.Context, email, purpose string) (*OTPChallenge, error)
	// Verify consumes the challenge on success; wrong purpose, wrong
	// code past max attempts, or expiry all fail.
	Verify(ctx context.Context, email, code, purpose string) error
	CanResend(ctx context.Context, email, purpose string) (bool, int64, error)
}

// AuthService defines the identity lifecycle orchestration.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken, sessionToken string) (*AuthResult, error)
	ChangePassword(ctx context.Context, sessionToken, currentPassword, newPassword string) error
	Logout(ctx context.Context, sessionToken string) error
	VerifyEmail(ctx context.Context, email, otp string) error
	ForgetPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	CompleteOAuth(ctx context.Context, sessionToken string) (*AuthResult, error)
	GetMe(ctx context.Context, userID string) (*User, error)
}

// UserService defines admin-driven account provisioning.
type UserService interface {
	CreateDoctor(ctx context.Context, payload *CreateDoctorPayload) (*Doctor, error)
}

// DoctorService defines doctor profile management.
type DoctorService interface {
	GetAll(ctx context.Context) ([]Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, id string, payload *UpdateDoctorPayload) (*Doctor, error)
	Delete(ctx context.Context, id string) error
}

// SpecialtyService defines specialty management.
type SpecialtyService interface {
	Create(ctx context.Context, specialty *Specialty) (*Specialty, error)
	GetAll(ctx context.Context) ([]Specialty, error)
	Delete(ctx context.Context, id string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
