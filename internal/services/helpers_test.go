package services

import (
	"context"
	"testing"
	"time"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/mocks"
)

const testPhone = "989123456789"

// authDeps groups the mocks behind an AuthService under test
type authDeps struct {
	userRepo    *mocks.MockUserRepository
	sessionRepo *mocks.MockSessionRepository
	otpRepo     *mocks.MockPhoneOTPRepository
	cache       *mocks.MockOTPCache
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	audit       *mocks.MockAuditLogger
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T) (domain.AuthService, *authDeps) {
	t.Helper()

	deps := &authDeps{
		userRepo:    mocks.NewMockUserRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		otpRepo:     mocks.NewMockPhoneOTPRepository(),
		cache:       mocks.NewMockOTPCache(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		audit:       mocks.NewMockAuditLogger(),
	}
	svc := NewAuthService(deps.userRepo, deps.sessionRepo, deps.otpRepo, deps.cache,
		deps.passwordSvc, deps.tokenSvc, deps.audit, logging.Discard(), 7*24*time.Hour)
	return svc, deps
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:          1,
		Phone:       testPhone,
		FirstName:   "Sara",
		LastName:    "Karimi",
		DateJoined:  time.Now().Add(-24 * time.Hour),
		SpecialUser: time.Now().Add(-24 * time.Hour),
	}
}

// createTwoStepUser creates a user whose two-step password is "password123"
func createTwoStepUser(t *testing.T) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.TwoStepPassword = true
	user.PasswordHash = "hashed_password123"
	return user
}

// createValidSession creates a valid session for testing
func createValidSession(t *testing.T, userID uint) *domain.Session {
	t.Helper()

	return &domain.Session{
		ID:        "session_123",
		UserID:    userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
}

// createExpiredSession creates an expired session for testing
func createExpiredSession(t *testing.T, userID uint) *domain.Session {
	t.Helper()

	session := createValidSession(t, userID)
	session.ExpiresAt = time.Now().Add(-time.Hour)
	return session
}

// createTestContext creates a context carrying client information
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	return domain.ContextWithClient(context.Background(), &domain.ClientContext{
		IPAddress: "127.0.0.1",
		UserAgent: "test-agent",
	})
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }
