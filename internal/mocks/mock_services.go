package mocks

import (
	"context"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	RequestFunc func(ctx context.Context, phone string, purpose domain.OTPPurpose) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Request sends a code to phone
func (m *MockOTPService) Request(ctx context.Context, phone string, purpose domain.OTPPurpose) error {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, phone, purpose)
	}
	return nil
}

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	VerifyOTPFunc             func(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, error)
	RefreshTokenFunc          func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc                func(ctx context.Context, sessionID string) error
	CreateTwoStepPasswordFunc func(ctx context.Context, userID uint, newPassword, confirm string) error
	ChangeTwoStepPasswordFunc func(ctx context.Context, userID uint, oldPassword, newPassword, confirm string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// VerifyOTP completes authentication with a code
func (m *MockAuthService) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, req)
	}
	// Default behavior: successful authentication of a new user
	return &domain.AuthResult{
		User:         &domain.User{ID: 1, Phone: req.Phone},
		Created:      true,
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		SessionID:    "mock_session_id",
		ExpiresIn:    900,
	}, nil
}

// RefreshToken issues a new access token
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return &domain.AuthResult{
		User:         &domain.User{ID: 1},
		AccessToken:  "new_mock_access_token",
		RefreshToken: refreshToken,
		SessionID:    "mock_session_id",
		ExpiresIn:    900,
	}, nil
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// CreateTwoStepPassword enables the two-step password
func (m *MockAuthService) CreateTwoStepPassword(ctx context.Context, userID uint, newPassword, confirm string) error {
	if m.CreateTwoStepPasswordFunc != nil {
		return m.CreateTwoStepPasswordFunc(ctx, userID, newPassword, confirm)
	}
	return nil
}

// ChangeTwoStepPassword replaces the two-step password
func (m *MockAuthService) ChangeTwoStepPassword(ctx context.Context, userID uint, oldPassword, newPassword, confirm string) error {
	if m.ChangeTwoStepPasswordFunc != nil {
		return m.ChangeTwoStepPasswordFunc(ctx, userID, oldPassword, newPassword, confirm)
	}
	return nil
}

// MockUserService implements domain.UserService interface for testing
type MockUserService struct {
	GetFunc    func(ctx context.Context, id uint) (*domain.User, error)
	ListFunc   func(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
	UpdateFunc func(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error)
	DeleteFunc func(ctx context.Context, id uint) error
}

// NewMockUserService creates a new MockUserService with default behaviors
func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

// Get returns a user by id
func (m *MockUserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.User{ID: id, Phone: "989120000000"}, nil
}

// List returns a page of users
func (m *MockUserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []domain.User{}, 0, nil
}

// Update applies update to a user
func (m *MockUserService) Update(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	user := &domain.User{ID: id, Phone: "989120000000"}
	update.Apply(user)
	return user, nil
}

// Delete removes a user
func (m *MockUserService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBlogService implements domain.BlogService interface for testing
type MockBlogService struct {
	ListFunc       func(ctx context.Context, viewer *domain.User, filter domain.BlogFilter) ([]domain.Blog, int64, error)
	GetFunc        func(ctx context.Context, viewer *domain.User, slug string) (*domain.Blog, error)
	CreateFunc     func(ctx context.Context, author *domain.User, input domain.BlogInput) (*domain.Blog, error)
	UpdateFunc     func(ctx context.Context, editor *domain.User, slug string, input domain.BlogInput) (*domain.Blog, error)
	DeleteFunc     func(ctx context.Context, editor *domain.User, slug string) error
	ToggleLikeFunc func(ctx context.Context, user *domain.User, slug string) (bool, int64, error)
}

// NewMockBlogService creates a new MockBlogService with default behaviors
func NewMockBlogService() *MockBlogService {
	return &MockBlogService{}
}

func (m *MockBlogService) List(ctx context.Context, viewer *domain.User, filter domain.BlogFilter) ([]domain.Blog, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, viewer, filter)
	}
	return []domain.Blog{}, 0, nil
}

func (m *MockBlogService) Get(ctx context.Context, viewer *domain.User, slug string) (*domain.Blog, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, viewer, slug)
	}
	return nil, domain.ErrBlogNotFound
}

func (m *MockBlogService) Create(ctx context.Context, author *domain.User, input domain.BlogInput) (*domain.Blog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, author, input)
	}
	return &domain.Blog{ID: 1, AuthorID: author.ID, Author: author, Title: input.Title, Slug: "mock-slug", Status: input.Status}, nil
}

func (m *MockBlogService) Update(ctx context.Context, editor *domain.User, slug string, input domain.BlogInput) (*domain.Blog, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, editor, slug, input)
	}
	return nil, domain.ErrBlogNotFound
}

func (m *MockBlogService) Delete(ctx context.Context, editor *domain.User, slug string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, editor, slug)
	}
	return nil
}

func (m *MockBlogService) ToggleLike(ctx context.Context, user *domain.User, slug string) (bool, int64, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, user, slug)
	}
	return true, 1, nil
}

// MockCategoryService implements domain.CategoryService interface for testing
type MockCategoryService struct {
	ListFunc   func(ctx context.Context) ([]domain.Category, error)
	CreateFunc func(ctx context.Context, title string, parentID *uint, position int) (*domain.Category, error)
	UpdateFunc func(ctx context.Context, id uint, title string, parentID *uint, position int) (*domain.Category, error)
	DeleteFunc func(ctx context.Context, id uint) error
}

// NewMockCategoryService creates a new MockCategoryService with default behaviors
func NewMockCategoryService() *MockCategoryService {
	return &MockCategoryService{}
}

func (m *MockCategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Category{}, nil
}

func (m *MockCategoryService) Create(ctx context.Context, title string, parentID *uint, position int) (*domain.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, title, parentID, position)
	}
	return &domain.Category{ID: 1, Title: title, ParentID: parentID, Position: position, Status: true}, nil
}

func (m *MockCategoryService) Update(ctx context.Context, id uint, title string, parentID *uint, position int) (*domain.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, title, parentID, position)
	}
	return &domain.Category{ID: id, Title: title, ParentID: parentID, Position: position, Status: true}, nil
}

func (m *MockCategoryService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommentService implements domain.CommentService interface for testing
type MockCommentService struct {
	ListForBlogFunc func(ctx context.Context, blogID uint) ([]*domain.Comment, error)
	CreateFunc      func(ctx context.Context, user *domain.User, input domain.CommentInput) (*domain.Comment, error)
	UpdateFunc      func(ctx context.Context, user *domain.User, id uint, input domain.CommentInput) (*domain.Comment, error)
	DeleteFunc      func(ctx context.Context, user *domain.User, id uint) error
	ListAllFunc     func(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error)
}

// NewMockCommentService creates a new MockCommentService with default behaviors
func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) ListForBlog(ctx context.Context, blogID uint) ([]*domain.Comment, error) {
	if m.ListForBlogFunc != nil {
		return m.ListForBlogFunc(ctx, blogID)
	}
	return []*domain.Comment{}, nil
}

func (m *MockCommentService) Create(ctx context.Context, user *domain.User, input domain.CommentInput) (*domain.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, input)
	}
	return &domain.Comment{ID: 1, UserID: user.ID, User: user, ObjectID: input.ObjectID, ParentID: input.ParentID, Name: input.Name, Body: input.Body}, nil
}

func (m *MockCommentService) Update(ctx context.Context, user *domain.User, id uint, input domain.CommentInput) (*domain.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user, id, input)
	}
	return nil, domain.ErrCommentNotFound
}

func (m *MockCommentService) Delete(ctx context.Context, user *domain.User, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user, id)
	}
	return nil
}

func (m *MockCommentService) ListAll(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, page)
	}
	return []domain.Comment{}, 0, nil
}

// Compile-time interface compliance verification
var (
	_ domain.OTPService      = (*MockOTPService)(nil)
	_ domain.AuthService     = (*MockAuthService)(nil)
	_ domain.UserService     = (*MockUserService)(nil)
	_ domain.BlogService     = (*MockBlogService)(nil)
	_ domain.CategoryService = (*MockCategoryService)(nil)
	_ domain.CommentService  = (*MockCommentService)(nil)
)
