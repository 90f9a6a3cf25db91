package domain

import "time"

// Roles assigned to users.
const (
	RolePatient    = "PATIENT"
	RoleDoctor     = "DOCTOR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Account standing. A DELETED or BLOCKED user must never pass
// authorization regardless of token validity.
const (
	StatusActive    = "ACTIVE"
	StatusBlocked   = "BLOCKED"
	StatusSuspended = "SUSPENDED"
	StatusDeleted   = "DELETED"
)

// OTP purposes. A challenge is bound to exactly one purpose and is
// unusable for any other.
const (
	OTPPurposeEmailVerification = "email-verification"
	OTPPurposeForgetPassword    = "forget-password"
)

// User represents an account in the system
type User struct {
	ID                 string
	Email              string
	Name               string
	PasswordHash       string `gorm:"column:password"`
	Role               string
	Status             string
	EmailVerified      bool
	NeedPasswordChange bool
	IsDeleted          bool
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanAuthenticate reports whether the account standing permits any
// authorization at all.
func (u *User) CanAuthenticate() bool {
	return !u.IsDeleted && u.Status != StatusBlocked && u.Status != StatusDeleted
}

// Session is the server-tracked half of the dual-credential model and
// the only revocable credential.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// RemainingRatio returns the fraction of session lifetime left at the
// given instant. The guard advises proactive refresh below 0.20.
func (s *Session) RemainingRatio(now time.Time) float64 {
	lifetime := s.ExpiresAt.Sub(s.CreatedAt)
	if lifetime <= 0 {
		return 0
	}
	return float64(s.ExpiresAt.Sub(now)) / float64(lifetime)
}

// TokenClaims is the identity snapshot embedded in access and refresh
// tokens. Stateless: verified purely by signature and expiry, never
// persisted.
type TokenClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	IsDeleted bool   `json:"isDeleted"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CanAuthenticate mirrors User.CanAuthenticate for the embedded
// snapshot, used when no live session is available to consult.
func (c *TokenClaims) CanAuthenticate() bool {
	return !c.IsDeleted && c.Status != StatusBlocked && c.Status != StatusDeleted
}

// SnapshotOf captures the token snapshot of a user at issuance time.
func SnapshotOf(u *User) TokenClaims {
	return TokenClaims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		IsDeleted: u.IsDeleted,
	}
}

// AuthResult represents the outcome of login, registration, refresh
// and OAuth completion.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionToken string
	ExpiresIn    int64
}

// OTPChallenge is a transient single-use code bound to an email and a
// purpose.
type OTPChallenge struct {
	Email     string
	Code      string
	Purpose   string
	ExpiresAt time.Time
	Attempts  int
}

// Patient profile row owned by a PATIENT user.
type Patient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Doctor profile row owned by a DOCTOR user.
type Doctor struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	ContactNumber       string     `json:"contactNumber"`
	Address             string     `json:"address"`
	RegistrationNumber  string     `json:"registrationNumber"`
	Experience          int        `json:"experience"`
	Gender              string     `json:"gender"`
	AppointmentFee      int        `json:"appointmentFee"`
	CurrentWorkingPlace string     `json:"currentWorkingPlace"`
	Designation         string     `json:"designation"`
	AverageRating       float64    `json:"averageRating"`
	IsDeleted           bool       `json:"isDeleted"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`

	Specialties []Specialty `json:"specialties" gorm:"-"`
}

// Specialty is a medical specialty doctors can be linked to.
type Specialty struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SpecialtyChange is one entry of a doctor-update payload: link or
// unlink a specialty depending on ShouldDelete.
type SpecialtyChange struct {
	SpecialtyID  string `json:"specialtyId"`
	ShouldDelete bool   `json:"shouldDelete"`
}

// CreateDoctorPayload is the admin-driven doctor onboarding input.
type CreateDoctorPayload struct {
	Password            string
	Name                string
	Email               string
	ContactNumber       string
	Address             string
	RegistrationNumber  string
	Experience          int
	Gender              string
	AppointmentFee      int
	CurrentWorkingPlace string
	Designation         string
	Specialties         []string
}

// UpdateDoctorPayload carries partial doctor fields plus specialty
// link changes applied in one transaction.
type UpdateDoctorPayload struct {
	Doctor      *DoctorUpdate
	Specialties []SpecialtyChange
}

// DoctorUpdate holds the mutable doctor profile fields. Nil pointers
// mean "leave unchanged".
type DoctorUpdate struct {
	Name                *string
	ContactNumber       *string
	Address             *string
	Experience          *int
	AppointmentFee      *int
	CurrentWorkingPlace *string
	Designation         *string
}
