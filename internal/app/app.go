package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/config"
	httpx "github.com/mrhujaifa/prime-healthcare-backend/internal/http"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/cookies"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/handlers"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/http/middleware"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/auth"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/database"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/notifications"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/infrastructure/repositories"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/services"
)

// App holds the composed application.
type App struct {
	Router *gin.Engine
	Config *config.Config
}

// New wires every layer together from config. Construction order:
// infrastructure, repositories, services, handlers, router.
func New(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisClient.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db)
	specialtyRepo := repositories.NewSpecialtyRepository(db)
	sessionRepo := repositories.NewSessionRepository(redisClient.Client)

	tokenSvc := auth.NewJWTService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	passwordSvc := auth.NewPasswordService()

	var notificationSvc domain.NotificationService
	if cfg.OTPChannel == "sms" {
		notificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	} else {
		notificationSvc = notifications.NewSMTPService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.TemplateDir)
	}

	otpSvc := services.NewOTPService(notificationSvc, redisClient.Client, services.OTPConfig{
		Length:       cfg.OTP_Length,
		TTL:          cfg.OTP_TTL,
		MaxAttempts:  cfg.OTP_MaxAttempts,
		ResendWindow: cfg.OTP_ResendWindow,
		Channel:      cfg.OTPChannel,
	})

	authSvc := services.NewAuthService(userRepo, patientRepo, sessionRepo, tokenSvc, passwordSvc, otpSvc, cfg.SessionTTL, cfg.AccessTTL)
	userSvc := services.NewUserService(userRepo, doctorRepo, specialtyRepo, passwordSvc)
	doctorSvc := services.NewDoctorService(doctorRepo, specialtyRepo, sessionRepo)
	specialtySvc := services.NewSpecialtyService(specialtyRepo)

	casbinSvc, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Casbin: %w", err)
	}
	policySvc := services.NewPolicyService(casbinSvc.E)
	seedPolicies(policySvc)

	cookieMgr := cookies.NewManager(cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath, cfg.AccessTTL, cfg.RefreshTTL, cfg.SessionTTL)
	guard := middleware.NewAuthGuard(tokenSvc, sessionRepo, userRepo, cookieMgr)

	router := httpx.NewRouter(httpx.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authSvc, cookieMgr, cfg.FrontendURL),
		UserHandlers:      handlers.NewUserHandlers(userSvc),
		DoctorHandlers:    handlers.NewDoctorHandlers(doctorSvc),
		SpecialtyHandlers: handlers.NewSpecialtyHandlers(specialtySvc),
		PolicyHandlers:    handlers.NewPolicyHandlers(policySvc),
		Guard:             guard,
		PolicySvc:         policySvc,
		Production:        cfg.IsProduction(),
	})

	return &App{Router: router, Config: cfg}, nil
}

// Run starts the HTTP server.
func (a *App) Run() error {
	addr := ":" + a.Config.Port
	log.Printf("SERVER_START: addr=%s env=%s", addr, a.Config.Environment)
	return a.Router.Run(addr)
}

// seedPolicies installs the baseline admin-surface policies. Adding an
// existing policy is not an error worth failing startup over.
func seedPolicies(policySvc domain.PolicyService) {
	seeds := [][3]string{
		{domain.RoleSuperAdmin, "/admin/policies", "GET"},
		{domain.RoleSuperAdmin, "/admin/policies", "POST"},
		{domain.RoleSuperAdmin, "/admin/policies", "DELETE"},
	}
	for _, s := range seeds {
		if err := policySvc.AddPolicy(s[0], s[1], s[2]); err != nil {
			log.Printf("POLICY_SEED_SKIPPED: %s %s %s: %v", s[0], s[1], s[2], err)
		}
	}
}
