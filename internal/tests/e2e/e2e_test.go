package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	httpx "github.com/mrhujaifa/prime-healthcare-backend/internal/http"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/cookies"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/handlers"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/middleware"
	infraauth "github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/auth"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/repositories"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/mocks"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/services"
)

const casbinModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// stack is the whole application wired against sqlite and miniredis.
type stack struct {
	server      *httptest.Server
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	lastOTP     *string
}

func newStack(t *testing.T) *stack {
	t.Helper()

	// A plain ":memory:" DSN gives every pooled connection its own empty
	// database, so the casbin adapter's transactional SavePolicy sees no
	// tables; a per-test file keeps all connections on one database.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "e2e.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&repositories.DBUser{}, &repositories.DBPatient{}, &repositories.DBDoctor{},
		&repositories.DBSpecialty{}, &repositories.DBDoctorSpecialty{},
	))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db)
	specialtyRepo := repositories.NewSpecialtyRepository(db)
	sessionRepo := repositories.NewSessionRepository(redisClient)

	tokenSvc := infraauth.NewJWTService("e2e-access", "e2e-refresh", "e2e", time.Hour, 24*time.Hour)
	passwordSvc := infraauth.NewPasswordService()

	lastOTP := new(string)
	notifier := &mocks.NotificationService{
		SendEmailFn: func(to, subject, templateName string, data map[string]any) error {
			*lastOTP = data["Code"].(string)
			return nil
		},
	}

	otpSvc := services.NewOTPService(notifier, redisClient, services.OTPConfig{
		Length: 6, TTL: 5 * time.Minute, MaxAttempts: 3, ResendWindow: time.Millisecond, Channel: "email",
	})

	sessionTTL := 24 * time.Hour
	authSvc := services.NewAuthService(userRepo, patientRepo, sessionRepo, tokenSvc, passwordSvc, otpSvc, sessionTTL, time.Hour)
	userSvc := services.NewUserService(userRepo, doctorRepo, specialtyRepo, passwordSvc)
	doctorSvc := services.NewDoctorService(doctorRepo, specialtyRepo, sessionRepo)
	specialtySvc := services.NewSpecialtyService(specialtyRepo)

	modelPath := filepath.Join(t.TempDir(), "model.conf")
	require.NoError(t, os.WriteFile(modelPath, []byte(casbinModel), 0o600))
	casbinSvc, err := infraauth.NewCasbinService(db, modelPath)
	require.NoError(t, err)
	policySvc := services.NewPolicyService(casbinSvc.E)
	require.NoError(t, policySvc.AddPolicy(domain.RoleSuperAdmin, "/admin/policies", "GET"))

	cookieMgr := cookies.NewManager(false, "lax", "/", time.Hour, 24*time.Hour, sessionTTL)
	guard := middleware.NewAuthGuard(tokenSvc, sessionRepo, userRepo, cookieMgr)

	router := httpx.NewRouter(httpx.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authSvc, cookieMgr, "http://localhost:3000"),
		UserHandlers:      handlers.NewUserHandlers(userSvc),
		DoctorHandlers:    handlers.NewDoctorHandlers(doctorSvc),
		SpecialtyHandlers: handlers.NewSpecialtyHandlers(specialtySvc),
		PolicyHandlers:    handlers.NewPolicyHandlers(policySvc),
		Guard:             guard,
		PolicySvc:         policySvc,
		Production:        false,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &stack{
		server:      server,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		lastOTP:     lastOTP,
	}
}

// client is an HTTP client with its own cookie jar, standing in for
// one browser.
type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func (s *stack) newClient(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{
		t: t,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: s.server.URL,
	}
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return res, decoded
}

func (s *stack) seedUser(t *testing.T, email, password, role string) *domain.User {
	t.Helper()
	hash, err := s.passwordSvc.Hash(password)
	require.NoError(t, err)
	user := &domain.User{
		Email:         email,
		Name:          "Seeded",
		PasswordHash:  hash,
		Role:          role,
		Status:        domain.StatusActive,
		EmailVerified: true,
	}
	require.NoError(t, s.userRepo.Create(context.Background(), user))
	return user
}

func TestPatientLifecycle(t *testing.T) {
	s := newStack(t)
	c := s.newClient(t)

	// Register issues all three credentials and sends the OTP.
	res, body := c.do(http.MethodPost, "/auth/register", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "super-secret-pw",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "body: %v", body)
	require.NotEmpty(t, *s.lastOTP)

	// Authenticated immediately after registration.
	res, body = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["email"])
	assert.Equal(t, false, data["emailVerified"])
	assert.Nil(t, data["password"], "hash never leaves the service")

	// Verify the email with the delivered code.
	res, _ = c.do(http.MethodPost, "/auth/verify-email", map[string]any{
		"email": "alice@example.com", "otp": *s.lastOTP,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["emailVerified"])

	// The same code is single use.
	res, _ = c.do(http.MethodPost, "/auth/verify-email", map[string]any{
		"email": "alice@example.com", "otp": *s.lastOTP,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Logout kills the session and clears the cookies.
	res, _ = c.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginRefreshAndAdvisoryHeaders(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "bob@example.com", "super-secret-pw", domain.RolePatient)
	c := s.newClient(t)

	res, _ := c.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "bob@example.com", "password": "super-secret-pw",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var sessionToken string
	for _, ck := range res.Cookies() {
		if ck.Name == cookies.SessionTokenCookie {
			sessionToken = ck.Value
		}
	}
	require.NotEmpty(t, sessionToken)

	// Healthy session: no advisory.
	res, _ = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Header.Get(middleware.HeaderSessionRefresh))

	// Age the session artificially so under 20% of lifetime remains.
	ctx := context.Background()
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	require.NoError(t, err)
	session.CreatedAt = time.Now().Add(-23 * time.Hour)
	session.ExpiresAt = time.Now().Add(time.Hour)
	require.NoError(t, s.sessionRepo.Extend(ctx, sessionToken, session))

	res, _ = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "advisory never fails the request")
	assert.Equal(t, "true", res.Header.Get(middleware.HeaderSessionRefresh))
	assert.NotEmpty(t, res.Header.Get(middleware.HeaderTimeRemaining))

	// Refresh rotates tokens and slides the session.
	res, _ = c.do(http.MethodPost, "/auth/refresh-token", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Header.Get(middleware.HeaderSessionRefresh), "slid session is healthy again")
}

func TestChangePasswordKeepsOwnSession(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "carol@example.com", "original-pw-123", domain.RolePatient)

	browser1 := s.newClient(t)
	browser2 := s.newClient(t)

	login := map[string]any{"email": "carol@example.com", "password": "original-pw-123"}
	res, _ := browser1.do(http.MethodPost, "/auth/login", login)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = browser2.do(http.MethodPost, "/auth/login", login)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = browser1.do(http.MethodPost, "/auth/change-password", map[string]any{
		"currentPassword": "original-pw-123", "newPassword": "brand-new-pw-456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	// The caller's session survives.
	res, _ = browser1.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// The other browser's session is gone; its refresh fails.
	res, _ = browser2.do(http.MethodPost, "/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Only the new password logs in now.
	fresh := s.newClient(t)
	res, _ = fresh.do(http.MethodPost, "/auth/login", login)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res, _ = fresh.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "carol@example.com", "password": "brand-new-pw-456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestForgetResetPasswordRevokesEverySession(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "dave@example.com", "original-pw-123", domain.RolePatient)

	browser := s.newClient(t)
	res, _ := browser.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "dave@example.com", "password": "original-pw-123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = browser.do(http.MethodPost, "/auth/forget-password", map[string]any{
		"email": "dave@example.com",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, *s.lastOTP)

	// The verification-purpose endpoint rejects a reset-purpose code.
	res, _ = browser.do(http.MethodPost, "/auth/verify-email", map[string]any{
		"email": "dave@example.com", "otp": *s.lastOTP,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = browser.do(http.MethodPost, "/auth/reset-password", map[string]any{
		"email": "dave@example.com", "otp": *s.lastOTP, "newPassword": "after-reset-pw-789",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Every session is dead: refresh requires one.
	res, _ = browser.do(http.MethodPost, "/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	fresh := s.newClient(t)
	res, _ = fresh.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "dave@example.com", "password": "after-reset-pw-789",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAdminDoctorManagement(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "admin@example.com", "admin-password-1", domain.RoleAdmin)

	admin := s.newClient(t)
	res, _ := admin.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "admin@example.com", "password": "admin-password-1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body := admin.do(http.MethodPost, "/specialty", map[string]any{
		"title": "Cardiology",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "body: %v", body)
	specialtyID := body["data"].(map[string]any)["id"].(string)

	res, body = admin.do(http.MethodPost, "/user/create-doctor", map[string]any{
		"password": "doctor-initial-pw",
		"doctor": map[string]any{
			"name": "Dr. Grace", "email": "grace@example.com",
			"contactNumber": "+100200300", "registrationNumber": "REG-1",
			"gender": "FEMALE", "appointmentFee": 200,
			"specialties": []string{specialtyID},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "body: %v", body)
	doctorID := body["data"].(map[string]any)["id"].(string)

	// The doctor can log in but must change the initial password.
	doctor := s.newClient(t)
	res, body = doctor.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "grace@example.com", "password": "doctor-initial-pw",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, true, user["needPasswordChange"])

	// Deleting the doctor revokes the account and its sessions.
	res, _ = admin.do(http.MethodDelete, "/doctor/"+doctorID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// The stale access token still verifies, but the account reads as
	// deleted everywhere that consults live state.
	res, _ = doctor.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = doctor.do(http.MethodPost, "/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "revoked sessions cannot refresh")

	res, _ = admin.do(http.MethodGet, "/doctor/"+doctorID, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBlockedAccountCannotLogIn(t *testing.T) {
	s := newStack(t)
	user := s.seedUser(t, "mallory@example.com", "blocked-pw-12345", domain.RolePatient)
	user.Status = domain.StatusBlocked
	require.NoError(t, s.userRepo.Update(context.Background(), user))

	c := s.newClient(t)
	res, _ := c.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "mallory@example.com", "password": "blocked-pw-12345",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestRoleGuardOnAdminSurface(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "eve@example.com", "patient-password", domain.RolePatient)

	patient := s.newClient(t)
	res, _ := patient.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "eve@example.com", "password": "patient-password",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = patient.do(http.MethodPost, "/specialty", map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = patient.do(http.MethodGet, "/admin/policies", nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Reading the catalog is open to any authenticated role.
	res, _ = patient.do(http.MethodGet, "/specialty", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSuperAdminPolicySurface(t *testing.T) {
	s := newStack(t)
	s.seedUser(t, "root@example.com", "super-password-1", domain.RoleSuperAdmin)

	root := s.newClient(t)
	res, _ := root.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "root@example.com", "password": "super-password-1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body := root.do(http.MethodGet, "/admin/policies", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "body: %v", body)
	assert.NotEmpty(t, body["data"])
}
