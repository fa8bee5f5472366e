package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/metrics"
)

// OTPServiceImpl implements domain.OTPService. The per-phone send count lives in the
// database, the live code in the OTP cache.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	otpRepo         domain.PhoneOTPRepository
	cache           domain.OTPCache
	auditLogger     domain.AuditLogger
	log             logrus.FieldLogger
	config          OTPConfig
}

type OTPConfig struct {
	Length      int
	TTL         time.Duration
	MaxRequests int
}

// NewOTPService creates a new OTP service
func NewOTPService(
	notificationSvc domain.NotificationService,
	userRepo domain.UserRepository,
	otpRepo domain.PhoneOTPRepository,
	cache domain.OTPCache,
	auditLogger domain.AuditLogger,
	log logrus.FieldLogger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		otpRepo:         otpRepo,
		cache:           cache,
		auditLogger:     auditLogger,
		log:             log,
		config:          config,
	}
}

// Request implements domain.OTPService. Login requires an existing account, register
// requires the phone to be free.
func (s *OTPServiceImpl) Request(ctx context.Context, phone string, purpose domain.OTPPurpose) error {
	err := s.request(ctx, phone, purpose)

	result := "sent"
	switch {
	case errors.Is(err, domain.ErrOTPRequestLimit):
		result = "limited"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUserAlreadyExists), errors.Is(err, domain.ErrInvalidPhone):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	metrics.RecordOTPRequest(string(purpose), result)

	event := domain.NewAuditEvent(domain.OTPRequestEvent, 0).
		WithPhone(phone).
		WithClientContext(domain.ClientFromContext(ctx)).
		WithMetadata("purpose", string(purpose))
	if err != nil {
		event.EventType = domain.OTPRequestFailureEvent
		event.WithError(err)
	}
	recordAudit(ctx, s.auditLogger, s.log, event)

	return err
}

func (s *OTPServiceImpl) request(ctx context.Context, phone string, purpose domain.OTPPurpose) error {
	if err := domain.ValidatePhone(phone); err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	switch purpose {
	case domain.OTPPurposeLogin:
		if !exists {
			return domain.ErrUserNotFound
		}
	case domain.OTPPurposeRegister:
		if exists {
			return domain.ErrUserAlreadyExists
		}
	default:
		return fmt.Errorf("unknown otp purpose %q", purpose)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	// The code and count are stored even when the request is refused.
	record, err := s.otpRepo.RecordSend(ctx, phone, code)
	if err != nil {
		return fmt.Errorf("failed to record OTP: %w", err)
	}
	if record.Count >= s.config.MaxRequests {
		return domain.ErrOTPRequestLimit
	}

	if err := s.cache.Set(ctx, phone, code, s.config.TTL); err != nil {
		return fmt.Errorf("failed to cache OTP: %w", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendSMS(phone, message); err != nil {
		if delErr := s.cache.Delete(ctx, phone); delErr != nil {
			s.log.WithError(delErr).WithField("phone", phone).Warn("failed to drop cached otp")
		}
		return fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	s.log.WithFields(logrus.Fields{"phone": phone, "purpose": purpose, "count": record.Count}).Info("otp sent")
	return nil
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
