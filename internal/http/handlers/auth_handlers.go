package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/cookies"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/middleware"
)

// AuthHandlers serves the identity lifecycle endpoints.
type AuthHandlers struct {
	authSvc     domain.AuthService
	cookieMgr   *cookies.Manager
	frontendURL string
}

// NewAuthHandlers creates auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookieMgr *cookies.Manager, frontendURL string) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		cookieMgr:   cookieMgr,
		frontendURL: frontendURL,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=128"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type forgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookieMgr.SetAuthCookies(c, result.AccessToken, result.RefreshToken, result.SessionToken)
	respond(c, http.StatusCreated, "registration successful, please verify your email", gin.H{
		"user":      userView(result.User),
		"expiresIn": result.ExpiresIn,
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookieMgr.SetAuthCookies(c, result.AccessToken, result.RefreshToken, result.SessionToken)
	respond(c, http.StatusOK, "login successful", gin.H{
		"user":      userView(result.User),
		"expiresIn": result.ExpiresIn,
	})
}

// RefreshToken handles POST /auth/refresh-token. Reads the refresh
// and session cookies, rotates the token pair and slides the session.
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	refreshToken := h.cookieMgr.Get(c, cookies.RefreshTokenCookie)
	sessionToken := h.cookieMgr.Get(c, cookies.SessionTokenCookie)
	if refreshToken == "" || sessionToken == "" {
		_ = c.Error(domain.Unauthorized("you are not authorized"))
		c.Abort()
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), refreshToken, sessionToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookieMgr.SetAuthCookies(c, result.AccessToken, result.RefreshToken, result.SessionToken)
	respond(c, http.StatusOK, "tokens refreshed", gin.H{
		"expiresIn": result.ExpiresIn,
	})
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	sessionToken := c.GetString(middleware.ContextSessionToken)
	if sessionToken == "" {
		sessionToken = h.cookieMgr.Get(c, cookies.SessionTokenCookie)
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), sessionToken, req.CurrentPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "password changed", nil)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionToken := h.cookieMgr.Get(c, cookies.SessionTokenCookie)
	if sessionToken != "" {
		if err := h.authSvc.Logout(c.Request.Context(), sessionToken); err != nil {
			_ = c.Error(err)
			return
		}
	}

	h.cookieMgr.ClearAuthCookies(c)
	respond(c, http.StatusOK, "logged out", nil)
}

// VerifyEmail handles POST /auth/verify-email
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.OTP); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "email verified", nil)
}

// ForgetPassword handles POST /auth/forget-password
func (h *AuthHandlers) ForgetPassword(c *gin.Context) {
	var req forgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.authSvc.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "password reset code sent", nil)
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "password reset, please log in again", nil)
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := h.authSvc.GetMe(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "profile retrieved", userView(user))
}

// OAuthStart handles GET /auth/oauth/start. Records the desired
// post-login destination and forwards to the provider entry point.
func (h *AuthHandlers) OAuthStart(c *gin.Context) {
	redirect := sanitizeRedirect(c.Query("redirect"))
	h.cookieMgr.SetEphemeral(c, cookies.OAuthRedirectCookie, redirect, 10*time.Minute)
	respond(c, http.StatusOK, "oauth flow started", gin.H{"redirect": redirect})
}

// OAuthCallback handles GET /auth/oauth/callback. The provider has
// already created the session; this completes the hand-off by issuing
// the token pair, then redirects into the frontend.
func (h *AuthHandlers) OAuthCallback(c *gin.Context) {
	sessionToken := h.cookieMgr.Get(c, cookies.SessionTokenCookie)
	if sessionToken == "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/auth/oauth/error")
		return
	}

	result, err := h.authSvc.CompleteOAuth(c.Request.Context(), sessionToken)
	if err != nil {
		c.Redirect(http.StatusFound, h.frontendURL+"/auth/oauth/error")
		return
	}

	h.cookieMgr.SetAccessToken(c, result.AccessToken)
	h.cookieMgr.SetRefreshToken(c, result.RefreshToken)

	redirect := "/dashboard"
	if v := h.cookieMgr.Get(c, cookies.OAuthRedirectCookie); v != "" {
		redirect = sanitizeRedirect(v)
	}
	h.cookieMgr.Clear(c, cookies.OAuthRedirectCookie)
	c.Redirect(http.StatusFound, h.frontendURL+redirect)
}

// OAuthError handles GET /auth/oauth/error
func (h *AuthHandlers) OAuthError(c *gin.Context) {
	h.cookieMgr.ClearAuthCookies(c)
	c.JSON(http.StatusUnauthorized, middleware.ErrorEnvelope{
		Success:      false,
		Message:      "oauth sign-in failed",
		ErrorSources: []middleware.ErrorSource{{Path: "", Message: "oauth sign-in failed"}},
	})
}

// sanitizeRedirect admits only same-site paths. Anything that could
// escape the origin ("//evil.com", "https://...") falls back to
// /dashboard.
func sanitizeRedirect(p string) string {
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") {
		return p
	}
	return "/dashboard"
}

func userView(u *domain.User) UserView {
	return UserView{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		Status:             u.Status,
		EmailVerified:      u.EmailVerified,
		NeedPasswordChange: u.NeedPasswordChange,
		CreatedAt:          u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
