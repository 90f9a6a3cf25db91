package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/cookies"
)

// Context keys populated by the guard for downstream handlers.
const (
	ContextUserID       = "userId"
	ContextUserEmail    = "userEmail"
	ContextUserRole     = "userRole"
	ContextClaims       = "claims"
	ContextSessionToken = "sessionToken"
)

// Advisory headers telling the client to refresh proactively. They
// never fail the request.
const (
	HeaderSessionRefresh   = "X-Session-Refresh"
	HeaderSessionExpiresAt = "X-Session-Expires-At"
	HeaderTimeRemaining    = "X-Time-Remaining"
	HeaderPercentRemaining = "X-Percent-Remaining"
)

// refreshAdviceThreshold is the fraction of session lifetime below
// which the guard advises the client to refresh.
const refreshAdviceThreshold = 0.20

// AuthGuard authorizes requests under the dual-credential model. The
// access token is mandatory; the session, when present, supplies fresh
// account standing and drives the proactive-refresh advisory headers.
// Without a live session the checks fall back to the token's embedded
// snapshot, which still carries status and deletion state.
type AuthGuard struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
	userRepo    domain.UserRepository
	cookieMgr   *cookies.Manager
}

// NewAuthGuard creates the guard middleware factory.
func NewAuthGuard(
	tokenSvc domain.TokenService,
	sessionRepo domain.SessionRepository,
	userRepo domain.UserRepository,
	cookieMgr *cookies.Manager,
) *AuthGuard {
	return &AuthGuard{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		cookieMgr:   cookieMgr,
	}
}

// Require returns a middleware that admits only authenticated users
// whose role is in the given set. An empty set admits any
// authenticated user.
//
// Check order is first-failure-wins: a live session's standing and
// role are judged before the access token is even looked at, so a
// blocked account reads as blocked and a wrong role as forbidden even
// when the token cookie is missing or stale.
func (g *AuthGuard) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := g.cookieMgr.Get(c, cookies.SessionTokenCookie)
		sessionChecked := false
		if sessionToken != "" {
			session, err := g.sessionRepo.FindByToken(c.Request.Context(), sessionToken)
			if err == nil {
				g.adviseRefresh(c, session)

				user, err := g.userRepo.FindByID(c.Request.Context(), session.UserID)
				if err != nil {
					abortWith(c, domain.Unauthorized("you are not authorized"))
					return
				}
				if !g.checkStanding(c, user.Status, user.IsDeleted) {
					return
				}
				if !g.checkRole(c, user.Role, roles) {
					return
				}
				sessionChecked = true
				c.Set(ContextUserRole, user.Role)
			}
		}

		accessToken := g.extractAccessToken(c)
		if accessToken == "" {
			abortWith(c, domain.Unauthorized("you are not authorized"))
			return
		}

		claims, err := g.tokenSvc.ValidateAccessToken(accessToken)
		if err != nil {
			abortWith(c, domain.WrapAppError(domain.StatusCodeOf(err), "you are not authorized", err))
			return
		}

		if !sessionChecked {
			// No live session to consult; the snapshot in the verified
			// token still enforces standing and role.
			if !g.checkStanding(c, claims.Status, claims.IsDeleted) {
				return
			}
			if !g.checkRole(c, claims.Role, roles) {
				return
			}
			c.Set(ContextUserRole, claims.Role)
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Set(ContextSessionToken, sessionToken)
		c.Next()
	}
}

func (g *AuthGuard) extractAccessToken(c *gin.Context) string {
	if token := g.cookieMgr.Get(c, cookies.AccessTokenCookie); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// adviseRefresh sets the advisory headers when less than a fifth of
// the session lifetime remains.
func (g *AuthGuard) adviseRefresh(c *gin.Context, session *domain.Session) {
	now := time.Now()
	ratio := session.RemainingRatio(now)
	if ratio >= refreshAdviceThreshold {
		return
	}

	c.Header(HeaderSessionRefresh, "true")
	c.Header(HeaderSessionExpiresAt, session.ExpiresAt.UTC().Format(time.RFC3339))
	c.Header(HeaderTimeRemaining, fmt.Sprintf("%d", session.ExpiresAt.Sub(now).Milliseconds()))
	c.Header(HeaderPercentRemaining, fmt.Sprintf("%.2f", ratio*100))
}

// checkStanding aborts for accounts that must never be authorized.
// Blocked and deleted read as unauthenticated; suspended reads as
// forbidden.
func (g *AuthGuard) checkStanding(c *gin.Context, status string, isDeleted bool) bool {
	switch {
	case isDeleted, status == domain.StatusDeleted:
		abortWith(c, domain.WrapAppError(http.StatusUnauthorized, "you are not authorized", domain.ErrUserDeleted))
		return false
	case status == domain.StatusBlocked:
		abortWith(c, domain.WrapAppError(http.StatusUnauthorized, "you are not authorized", domain.ErrUserBlocked))
		return false
	case status == domain.StatusSuspended:
		abortWith(c, domain.WrapAppError(http.StatusForbidden, "your account is suspended", domain.ErrUserSuspended))
		return false
	default:
		return true
	}
}

func (g *AuthGuard) checkRole(c *gin.Context, role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	abortWith(c, domain.WrapAppError(http.StatusForbidden, "you do not have permission to access this resource", domain.ErrInsufficientRole))
	return false
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
