package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/metrics"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	otpRepo     domain.PhoneOTPRepository
	cache       domain.OTPCache
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	auditLogger domain.AuditLogger
	log         logrus.FieldLogger
	sessionTTL  time.Duration
}

// NewAuthService creates a new auth service. sessionTTL should match the refresh token lifetime.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	otpRepo domain.PhoneOTPRepository,
	cache domain.OTPCache,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	auditLogger domain.AuditLogger,
	log logrus.FieldLogger,
	sessionTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		otpRepo:     otpRepo,
		cache:       cache,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		auditLogger: auditLogger,
		log:         log,
		sessionTTL:  sessionTTL,
	}
}

// VerifyOTP implements domain.AuthService
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, error) {
	result, phone, err := s.verifyOTP(ctx, req)

	outcome := "success"
	switch {
	case errors.Is(err, domain.ErrOTPExpired):
		outcome = "expired"
	case errors.Is(err, domain.ErrOTPInvalid):
		outcome = "invalid"
	case errors.Is(err, domain.ErrPasswordIncorrect):
		outcome = "bad_password"
	case err != nil:
		outcome = "error"
	}
	metrics.RecordOTPVerification(outcome)

	var userID uint
	if result != nil {
		userID = result.User.ID
	}
	event := domain.NewAuditEvent(domain.OTPVerifyEvent, userID).
		WithPhone(phone).
		WithClientContext(domain.ClientFromContext(ctx))
	if err != nil {
		event.EventType = domain.OTPVerifyFailureEvent
		event.WithError(err)
	} else {
		event.SessionID = result.SessionID
		event.WithMetadata("created", result.Created)
	}
	recordAudit(ctx, s.auditLogger, s.log, event)

	if result != nil && result.Created {
		recordAudit(ctx, s.auditLogger, s.log, domain.NewAuditEvent(domain.UserRegistrationEvent, userID).
			WithPhone(phone).
			WithClientContext(domain.ClientFromContext(ctx)))
	}

	return result, err
}

func (s *AuthServiceImpl) verifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, string, error) {
	record, err := s.otpRepo.FindByCode(ctx, req.Code, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, req.Phone, domain.ErrOTPInvalid
		}
		return nil, req.Phone, fmt.Errorf("failed to look up otp: %w", err)
	}
	phone := record.Phone

	cached, err := s.cache.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrOTPExpired) {
			return nil, phone, domain.ErrOTPExpired
		}
		return nil, phone, fmt.Errorf("failed to read cached otp: %w", err)
	}
	if cached != req.Code {
		return nil, phone, domain.ErrOTPInvalid
	}

	user, created, err := s.userRepo.GetOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, phone, fmt.Errorf("failed to load user: %w", err)
	}

	if user.TwoStepPassword && !s.passwordSvc.Verify(user.PasswordHash, req.Password) {
		return nil, phone, domain.ErrPasswordIncorrect
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, phone, err
	}
	result.Created = created

	if err := s.cache.Delete(ctx, phone); err != nil {
		s.log.WithError(err).WithField("phone", phone).Warn("failed to drop cached otp")
	}
	if err := s.otpRepo.MarkVerified(ctx, record.ID); err != nil {
		return nil, phone, fmt.Errorf("failed to mark otp verified: %w", err)
	}

	return result, phone, nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	role := user.Role()
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID, role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// RefreshToken implements domain.AuthService
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// Role is re-read so flag changes apply on the next refresh.
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role(), session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionExpired) {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	var userID uint
	if session != nil {
		userID = session.UserID
	}
	event := domain.NewAuditEvent(domain.UserLogoutEvent, userID).WithClientContext(domain.ClientFromContext(ctx))
	event.SessionID = sessionID
	recordAudit(ctx, s.auditLogger, s.log, event)
	return nil
}

// CreateTwoStepPassword implements domain.AuthService
func (s *AuthServiceImpl) CreateTwoStepPassword(ctx context.Context, userID uint, newPassword, confirm string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoStepPassword {
		return domain.ErrTwoStepAlreadyEnabled
	}
	if err := domain.ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}

	user.TwoStepPassword = true
	return s.savePassword(ctx, user, newPassword, "create")
}

// ChangeTwoStepPassword implements domain.AuthService
func (s *AuthServiceImpl) ChangeTwoStepPassword(ctx context.Context, userID uint, oldPassword, newPassword, confirm string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoStepPassword {
		return domain.ErrTwoStepNotEnabled
	}
	if !s.passwordSvc.Verify(user.PasswordHash, oldPassword) {
		return domain.ErrPasswordIncorrect
	}
	if err := domain.ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}

	return s.savePassword(ctx, user, newPassword, "change")
}

func (s *AuthServiceImpl) savePassword(ctx context.Context, user *domain.User, password, action string) error {
	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	recordAudit(ctx, s.auditLogger, s.log, domain.NewAuditEvent(domain.TwoStepPasswordSetEvent, user.ID).
		WithPhone(user.Phone).
		WithClientContext(domain.ClientFromContext(ctx)).
		WithMetadata("action", action))
	return nil
}
