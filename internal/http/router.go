package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/handlers"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/middleware"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	AuthHandlers      *handlers.AuthHandlers
	UserHandlers      *handlers.UserHandlers
	DoctorHandlers    *handlers.DoctorHandlers
	SpecialtyHandlers *handlers.SpecialtyHandlers
	PolicyHandlers    *handlers.PolicyHandlers
	Guard             *middleware.AuthGuard
	PolicySvc         domain.PolicyService
	Production        bool
}

// NewRouter builds the full route table with the guard role sets.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler(deps.Production))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	anyRole := deps.Guard.Require()
	adminOnly := deps.Guard.Require(domain.RoleAdmin, domain.RoleSuperAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandlers.Register)
		auth.POST("/login", deps.AuthHandlers.Login)
		auth.POST("/refresh-token", deps.AuthHandlers.RefreshToken)
		auth.POST("/verify-email", deps.AuthHandlers.VerifyEmail)
		auth.POST("/forget-password", deps.AuthHandlers.ForgetPassword)
		auth.POST("/reset-password", deps.AuthHandlers.ResetPassword)
		auth.GET("/oauth/start", deps.AuthHandlers.OAuthStart)
		auth.GET("/oauth/callback", deps.AuthHandlers.OAuthCallback)
		auth.GET("/oauth/error", deps.AuthHandlers.OAuthError)

		auth.GET("/me", anyRole, deps.AuthHandlers.Me)
		auth.POST("/change-password", anyRole, deps.AuthHandlers.ChangePassword)
		auth.POST("/logout", anyRole, deps.AuthHandlers.Logout)
	}

	user := r.Group("/user")
	{
		user.POST("/create-doctor", adminOnly, deps.UserHandlers.CreateDoctor)
	}

	doctor := r.Group("/doctor")
	{
		doctor.GET("", anyRole, deps.DoctorHandlers.GetAll)
		doctor.GET("/:id", anyRole, deps.DoctorHandlers.GetByID)
		doctor.PATCH("/:id", adminOnly, deps.DoctorHandlers.Update)
		doctor.DELETE("/:id", adminOnly, deps.DoctorHandlers.Delete)
	}

	specialty := r.Group("/specialty")
	{
		specialty.GET("", anyRole, deps.SpecialtyHandlers.GetAll)
		specialty.POST("", adminOnly, deps.SpecialtyHandlers.Create)
		specialty.DELETE("/:id", adminOnly, deps.SpecialtyHandlers.Delete)
	}

	admin := r.Group("/admin")
	admin.Use(deps.Guard.Require(domain.RoleSuperAdmin))
	if deps.PolicySvc != nil {
		admin.Use(middleware.CasbinAuthorization(deps.PolicySvc))
	}
	{
		admin.GET("/policies", deps.PolicyHandlers.List)
		admin.POST("/policies", deps.PolicyHandlers.Add)
		admin.DELETE("/policies", deps.PolicyHandlers.Remove)
	}

	return r
}
