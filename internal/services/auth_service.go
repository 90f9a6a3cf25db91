package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// AuthServiceImpl orchestrates the identity lifecycle over the
// repository and service ports. Every operation that can leave partial
// state either runs in a transaction or compensates explicitly.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	patientRepo domain.PatientRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	passwordSvc domain.PasswordService
	otpSvc      domain.OTPService
	sessionTTL  time.Duration
	accessTTL   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	patientRepo domain.PatientRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	passwordSvc domain.PasswordService,
	otpSvc domain.OTPService,
	sessionTTL time.Duration,
	accessTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		passwordSvc: passwordSvc,
		otpSvc:      otpSvc,
		sessionTTL:  sessionTTL,
		accessTTL:   accessTTL,
	}
}

// Register implements domain.AuthService. Creates the identity row,
// then the patient profile; if the profile fails the identity row is
// hard-deleted so no half-registered account survives.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RolePatient,
		Status:       domain.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	patient := &domain.Patient{
		UserID: user.ID,
		Name:   name,
		Email:  email,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		// Compensating delete: the identity row must not outlive a
		// failed profile. The original error is what the caller sees.
		if delErr := s.userRepo.HardDelete(ctx, user.ID); delErr != nil {
			log.Printf("COMPENSATION_FAILED: orphaned user %s: %v", user.ID, delErr)
		}
		return nil, err
	}

	if _, otpErr := s.otpSvc.Generate(ctx, email, domain.OTPPurposeEmailVerification); otpErr != nil {
		log.Printf("VERIFICATION_OTP_FAILED: email=%s error=%v", email, otpErr)
	}

	return s.issueCredentials(ctx, user)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := standingError(user); err != nil {
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueCredentials(ctx, user)
}

// RefreshToken implements domain.AuthService. The new pair is minted
// from the refresh token's embedded snapshot without a store lookup;
// the session's expiry slides forward.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken, sessionToken string) (*domain.AuthResult, error) {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.UserID != session.UserID {
		return nil, domain.ErrUnauthorized
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(*claims)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokenSvc.GenerateRefreshToken(*claims)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.sessionTTL)
	if err := s.sessionRepo.Extend(ctx, sessionToken, session); err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		User: &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		},
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		SessionToken: sessionToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// ChangePassword implements domain.AuthService. The caller keeps its
// own session; every other session of the user is revoked best-effort.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, sessionToken, currentPassword, newPassword string) error {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, currentPassword) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	// Side-steps are best effort. The password change itself already
	// succeeded; failures here are logged, never silently dropped.
	if err := s.sessionRepo.DeleteAllForUserExcept(ctx, user.ID, sessionToken); err != nil {
		log.Printf("SESSION_REVOKE_FAILED: user=%s error=%v", user.ID, err)
	}
	if user.NeedPasswordChange {
		if err := s.userRepo.ClearNeedPasswordChange(ctx, user.ID); err != nil {
			log.Printf("CLEAR_NEED_PASSWORD_CHANGE_FAILED: user=%s error=%v", user.ID, err)
		}
	}

	return nil
}

// Logout implements domain.AuthService. Idempotent: logging out an
// already-dead session succeeds.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionToken string) error {
	return s.sessionRepo.Delete(ctx, sessionToken)
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, otp string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otpSvc.Verify(ctx, email, otp, domain.OTPPurposeEmailVerification); err != nil {
		return err
	}

	return s.userRepo.MarkEmailVerified(ctx, user.ID)
}

// ForgetPassword implements domain.AuthService. Preconditions fail
// loudly so the frontend can tell the user what is wrong.
func (s *AuthServiceImpl) ForgetPassword(ctx context.Context, email string) error {
	user, err := s.resetEligibleUser(ctx, email)
	if err != nil {
		return err
	}

	_, err = s.otpSvc.Generate(ctx, user.Email, domain.OTPPurposeForgetPassword)
	return err
}

// ResetPassword implements domain.AuthService. A successful reset
// revokes every session of the user in one bulk operation.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.resetEligibleUser(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otpSvc.Verify(ctx, email, otp, domain.OTPPurposeForgetPassword); err != nil {
		return err
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	return s.sessionRepo.DeleteAllForUser(ctx, user.ID)
}

// CompleteOAuth implements domain.AuthService. The provider already
// established the session; this upserts the patient profile and mints
// the token pair so the two credential systems agree.
func (s *AuthServiceImpl) CompleteOAuth(ctx context.Context, sessionToken string) (*domain.AuthResult, error) {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := standingError(user); err != nil {
		return nil, err
	}

	if user.Role == domain.RolePatient {
		_, err = s.patientRepo.UpsertByUserID(ctx, &domain.Patient{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		})
		if err != nil {
			return nil, err
		}
	}

	snapshot := domain.SnapshotOf(user)
	accessToken, err := s.tokenSvc.GenerateAccessToken(snapshot)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(snapshot)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionToken: sessionToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// GetMe implements domain.AuthService
func (s *AuthServiceImpl) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted || user.Status == domain.StatusDeleted {
		return nil, domain.ErrUserDeleted
	}
	return user, nil
}

// issueCredentials creates the session and mints the token pair from
// the user's current snapshot.
func (s *AuthServiceImpl) issueCredentials(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	snapshot := domain.SnapshotOf(user)

	accessToken, err := s.tokenSvc.GenerateAccessToken(snapshot)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(snapshot)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionToken: session.Token,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// resetEligibleUser loads a user for the password reset flow and
// enforces its preconditions.
func (s *AuthServiceImpl) resetEligibleUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := standingError(user); err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}
	return user, nil
}

// standingError maps account standing to its error for credential
// issuance flows. A blocked account asking for credentials is a
// forbidden request, not an unauthenticated one; the guard wraps its
// own statuses for the per-request path.
func standingError(user *domain.User) error {
	switch {
	case user.IsDeleted, user.Status == domain.StatusDeleted:
		return domain.ErrUserDeleted
	case user.Status == domain.StatusBlocked:
		return domain.WrapAppError(http.StatusForbidden, "user is blocked", domain.ErrUserBlocked)
	case user.Status == domain.StatusSuspended:
		return domain.ErrUserSuspended
	default:
		return nil
	}
}
