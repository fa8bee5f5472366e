package mocks

import (
	"strings"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// hashPrefix marks two-step passwords hashed by MockPasswordService
const hashPrefix = "hashed_"

// MockPasswordService implements domain.PasswordService for testing. Without overrides
// a hash is the password behind hashPrefix, and an account without a two-step password
// (empty hash) never verifies.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	// Checked counts Verify calls so tests can tell whether a password was looked at
	Checked int
}

// NewMockPasswordService creates a new MockPasswordService
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return hashPrefix + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	m.Checked++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) {
		return false
	}
	return strings.TrimPrefix(hashedPassword, hashPrefix) == password
}

var _ domain.PasswordService = (*MockPasswordService)(nil)
