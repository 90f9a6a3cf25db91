package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/cookies"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/auth"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type guardFixture struct {
	tokenSvc    domain.TokenService
	sessionRepo *mocks.SessionRepository
	userRepo    *mocks.UserRepository
	router      *gin.Engine
}

func newGuardFixture(t *testing.T, roles ...string) *guardFixture {
	t.Helper()
	f := &guardFixture{
		tokenSvc:    auth.NewJWTService("acc", "ref", "test", time.Hour, 24*time.Hour),
		sessionRepo: &mocks.SessionRepository{},
		userRepo:    &mocks.UserRepository{},
	}

	cookieMgr := cookies.NewManager(false, "lax", "/", time.Hour, 24*time.Hour, 24*time.Hour)
	guard := NewAuthGuard(f.tokenSvc, f.sessionRepo, f.userRepo, cookieMgr)

	f.router = gin.New()
	f.router.Use(ErrorHandler(false))
	f.router.GET("/protected", guard.Require(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(ContextUserID),
			"role":   c.GetString(ContextUserRole),
		})
	})
	return f
}

func (f *guardFixture) accessToken(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := f.tokenSvc.GenerateAccessToken(domain.SnapshotOf(user))
	require.NoError(t, err)
	return token
}

func (f *guardFixture) request(accessToken, sessionToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: cookies.AccessTokenCookie, Value: accessToken})
	}
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: cookies.SessionTokenCookie, Value: sessionToken})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func liveSession(userID string, remaining, lifetime time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		Token:     "sess-1",
		UserID:    userID,
		CreatedAt: now.Add(remaining - lifetime),
		UpdatedAt: now,
		ExpiresAt: now.Add(remaining),
	}
}

func guardUser() *domain.User {
	return &domain.User{
		ID:     "user-1",
		Email:  "alice@example.com",
		Role:   domain.RolePatient,
		Status: domain.StatusActive,
	}
}

func TestAuthGuard_MissingAccessTokenIsFatal(t *testing.T) {
	f := newGuardFixture(t)

	w := f.request("", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuard_InvalidAccessToken(t *testing.T) {
	f := newGuardFixture(t)

	w := f.request("garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuard_ExpiredAccessToken(t *testing.T) {
	f := newGuardFixture(t)

	expiredSvc := auth.NewJWTService("acc", "ref", "test", -time.Minute, time.Hour)
	token, err := expiredSvc.GenerateAccessToken(domain.SnapshotOf(guardUser()))
	require.NoError(t, err)

	w := f.request(token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuard_HealthySessionNoAdvisory(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request(f.accessToken(t, user), "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderSessionRefresh))
	assert.Empty(t, w.Header().Get(HeaderSessionExpiresAt))
}

func TestAuthGuard_AdvisoryHeadersBelowThreshold(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	// 2h of a 24h lifetime left: 8.33% remaining.
	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 2*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request(f.accessToken(t, user), "sess-1")
	assert.Equal(t, http.StatusOK, w.Code, "advisory never fails the request")
	assert.Equal(t, "true", w.Header().Get(HeaderSessionRefresh))
	assert.NotEmpty(t, w.Header().Get(HeaderSessionExpiresAt))
	assert.NotEmpty(t, w.Header().Get(HeaderTimeRemaining))
	assert.NotEmpty(t, w.Header().Get(HeaderPercentRemaining))
}

func TestAuthGuard_AdvisoryBoundary(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	// Exactly 25% remaining stays above the 20% threshold.
	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 6*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request(f.accessToken(t, user), "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderSessionRefresh))
}

func TestAuthGuard_StandingFromLiveSession(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.User)
		wantCode int
	}{
		{"blocked", func(u *domain.User) { u.Status = domain.StatusBlocked }, http.StatusUnauthorized},
		{"deleted flag", func(u *domain.User) { u.IsDeleted = true }, http.StatusUnauthorized},
		{"deleted status", func(u *domain.User) { u.Status = domain.StatusDeleted }, http.StatusUnauthorized},
		{"suspended", func(u *domain.User) { u.Status = domain.StatusSuspended }, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuardFixture(t)
			// Token minted while the account was still healthy.
			token := f.accessToken(t, guardUser())

			current := guardUser()
			tt.mutate(current)
			f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
				return liveSession(current.ID, 20*time.Hour, 24*time.Hour), nil
			}
			f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) {
				return current, nil
			}

			w := f.request(token, "sess-1")
			assert.Equal(t, tt.wantCode, w.Code, "fresh standing wins over the stale token snapshot")
		})
	}
}

func TestAuthGuard_RoleCheck(t *testing.T) {
	f := newGuardFixture(t, domain.RoleAdmin, domain.RoleSuperAdmin)
	user := guardUser() // PATIENT

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request(f.accessToken(t, user), "sess-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthGuard_RoleCheckAdmits(t *testing.T) {
	f := newGuardFixture(t, domain.RoleAdmin, domain.RoleSuperAdmin)
	user := guardUser()
	user.Role = domain.RoleAdmin

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request(f.accessToken(t, user), "sess-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGuard_RoleCheckWinsOverMissingToken(t *testing.T) {
	f := newGuardFixture(t, domain.RoleAdmin, domain.RoleSuperAdmin)
	user := guardUser() // PATIENT

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	// No access-token cookie at all: the live session's role verdict
	// still comes first.
	w := f.request("", "sess-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthGuard_SuspensionWinsOverMissingToken(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()
	user.Status = domain.StatusSuspended

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request("", "sess-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthGuard_LiveSessionStillRequiresAccessToken(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return liveSession(user.ID, 20*time.Hour, 24*time.Hour), nil
	}
	f.userRepo.FindByIDFn = func(ctx context.Context, id string) (*domain.User, error) { return user, nil }

	w := f.request("", "sess-1")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a healthy session alone never authenticates")
}

func TestAuthGuard_NoSessionFallsBackToClaims(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	w := f.request(f.accessToken(t, user), "")
	assert.Equal(t, http.StatusOK, w.Code, "valid token alone authenticates")
}

func TestAuthGuard_NoSessionClaimsStandingStillEnforced(t *testing.T) {
	f := newGuardFixture(t)

	blocked := guardUser()
	blocked.Status = domain.StatusBlocked

	w := f.request(f.accessToken(t, blocked), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "blocked snapshot fails even without a session")
}

func TestAuthGuard_DeadSessionFallsBackToClaims(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	f.sessionRepo.FindByTokenFn = func(ctx context.Context, token string) (*domain.Session, error) {
		return nil, domain.ErrSessionNotFound
	}

	w := f.request(f.accessToken(t, user), "sess-dead")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderSessionRefresh))
}

func TestAuthGuard_BearerHeaderFallback(t *testing.T) {
	f := newGuardFixture(t)
	user := guardUser()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+f.accessToken(t, user))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
