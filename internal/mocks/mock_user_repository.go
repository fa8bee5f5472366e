package mocks

import (
	"context"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *domain.User) error
	FindByPhoneFunc        func(ctx context.Context, phone string) (*domain.User, error)
	FindByIDFunc           func(ctx context.Context, id uint) (*domain.User, error)
	ExistsByPhoneFunc      func(ctx context.Context, phone string) (bool, error)
	GetOrCreateByPhoneFunc func(ctx context.Context, phone string) (*domain.User, bool, error)
	UpdateFunc             func(ctx context.Context, user *domain.User) error
	DeleteFunc             func(ctx context.Context, id uint) error
	ListFunc               func(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

// FindByPhone finds a user by phone number
func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// ExistsByPhone reports whether a user owns phone
func (m *MockUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if m.ExistsByPhoneFunc != nil {
		return m.ExistsByPhoneFunc(ctx, phone)
	}
	return false, nil
}

// GetOrCreateByPhone returns the user owning phone, creating it when missing
func (m *MockUserRepository) GetOrCreateByPhone(ctx context.Context, phone string) (*domain.User, bool, error) {
	if m.GetOrCreateByPhoneFunc != nil {
		return m.GetOrCreateByPhoneFunc(ctx, phone)
	}
	// Default behavior: a freshly created user
	return &domain.User{ID: 1, Phone: phone}, true, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// List returns a page of users
func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []domain.User{}, 0, nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
