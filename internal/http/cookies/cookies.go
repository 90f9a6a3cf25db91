package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names shared between the auth handlers and the guard.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	SessionTokenCookie = "session_token"

	// OAuthRedirectCookie carries the post-login destination across the
	// provider round trip.
	OAuthRedirectCookie = "oauth_redirect"
)

// Manager centralizes cookie attributes so set and clear always agree.
// A clear with mismatched Path or SameSite silently fails to remove
// the cookie in browsers.
type Manager struct {
	secure     bool
	sameSite   http.SameSite
	path       string
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessionTTL time.Duration
}

// NewManager creates a cookie manager from resolved config values.
func NewManager(secure bool, sameSite string, path string, accessTTL, refreshTTL, sessionTTL time.Duration) *Manager {
	return &Manager{
		secure:     secure,
		sameSite:   parseSameSite(sameSite),
		path:       path,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		sessionTTL: sessionTTL,
	}
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (m *Manager) set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(m.sameSite)
	c.SetCookie(name, value, int(ttl.Seconds()), m.path, "", m.secure, true)
}

// SetAccessToken writes the access token cookie.
func (m *Manager) SetAccessToken(c *gin.Context, token string) {
	m.set(c, AccessTokenCookie, token, m.accessTTL)
}

// SetRefreshToken writes the refresh token cookie.
func (m *Manager) SetRefreshToken(c *gin.Context, token string) {
	m.set(c, RefreshTokenCookie, token, m.refreshTTL)
}

// SetSessionToken writes the opaque session cookie.
func (m *Manager) SetSessionToken(c *gin.Context, token string) {
	m.set(c, SessionTokenCookie, token, m.sessionTTL)
}

// SetAuthCookies writes all three credentials at once.
func (m *Manager) SetAuthCookies(c *gin.Context, accessToken, refreshToken, sessionToken string) {
	m.SetAccessToken(c, accessToken)
	m.SetRefreshToken(c, refreshToken)
	m.SetSessionToken(c, sessionToken)
}

// SetEphemeral writes a short-lived cookie with the manager's
// attributes and the given lifetime.
func (m *Manager) SetEphemeral(c *gin.Context, name, value string, ttl time.Duration) {
	m.set(c, name, value, ttl)
}

// Clear expires a single cookie with the same attributes it was set
// with.
func (m *Manager) Clear(c *gin.Context, name string) {
	c.SetSameSite(m.sameSite)
	c.SetCookie(name, "", -1, m.path, "", m.secure, true)
}

// Get reads a cookie value; empty string when absent.
func (m *Manager) Get(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

// ClearAuthCookies expires all three credentials with the same
// attributes they were set with.
func (m *Manager) ClearAuthCookies(c *gin.Context) {
	c.SetSameSite(m.sameSite)
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SessionTokenCookie} {
		c.SetCookie(name, "", -1, m.path, "", m.secure, true)
	}
}
