package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis
// persistence. Challenges are keyed by purpose and email so a code
// issued for email verification can never reset a password.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
	Channel      string // "email" or "sms"
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
	}
}

func otpKey(purpose, email string) string      { return fmt.Sprintf("otp:%s:%s", purpose, email) }
func attemptsKey(purpose, email string) string { return fmt.Sprintf("otp:att:%s:%s", purpose, email) }
func resendKey(purpose, email string) string   { return fmt.Sprintf("otp:res:%s:%s", purpose, email) }

// Generate implements domain.OTPService: stores a fresh challenge and
// dispatches it over the configured channel.
func (s *OTPServiceImpl) Generate(ctx context.Context, email, purpose string) (*domain.OTPChallenge, error) {
	if canResend, waitTime, _ := s.CanResend(ctx, email, purpose); !canResend {
		return nil, domain.WrapAppError(
			domain.StatusCodeOf(domain.ErrOTPResendLimit),
			fmt.Sprintf("please wait %d seconds before requesting a new OTP", waitTime),
			domain.ErrOTPResendLimit,
		)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKey(purpose, email), code, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}
	if err := s.redisClient.Set(ctx, attemptsKey(purpose, email), 0, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}
	if err := s.redisClient.Set(ctx, resendKey(purpose, email), 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	challenge := &domain.OTPChallenge{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.config.TTL),
		Attempts:  0,
	}

	if err := s.dispatch(email, code, purpose); err != nil {
		// Clean up so the recipient is not stuck behind the resend
		// throttle for a code that never arrived.
		s.redisClient.Del(ctx, otpKey(purpose, email), attemptsKey(purpose, email), resendKey(purpose, email))
		return nil, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	return challenge, nil
}

// Verify implements domain.OTPService. The challenge is consumed on
// success; a wrong purpose never matches because keys embed it.
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code, purpose string) error {
	attempts, err := s.redisClient.Incr(ctx, attemptsKey(purpose, email)).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey(purpose, email), attemptsKey(purpose, email))
		return domain.ErrOTPMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	if storedCode != code {
		return domain.ErrOTPInvalid
	}

	// Single use: success consumes the challenge.
	s.redisClient.Del(ctx, otpKey(purpose, email), attemptsKey(purpose, email))

	return nil
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, email, purpose string) (bool, int64, error) {
	ttl, err := s.redisClient.TTL(ctx, resendKey(purpose, email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

func (s *OTPServiceImpl) dispatch(email, code, purpose string) error {
	minutes := int(s.config.TTL.Minutes())

	if s.config.Channel == "sms" {
		message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, minutes)
		return s.notificationSvc.SendSMS(email, message)
	}

	subject := "Verify your email address"
	if purpose == domain.OTPPurposeForgetPassword {
		subject = "Reset your password"
	}
	err := s.notificationSvc.SendEmail(email, subject, "otp", map[string]any{
		"Code":    code,
		"Minutes": minutes,
		"Purpose": purpose,
	})
	if err != nil {
		log.Printf("OTP_DELIVERY_FAILED: email=%s purpose=%s error=%v", email, purpose, err)
	}
	return err
}

// generateSecureCode generates a cryptographically secure OTP code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
