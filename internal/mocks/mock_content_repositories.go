package mocks

import (
	"context"
	"io"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// MockBlogRepository implements domain.BlogRepository for testing
type MockBlogRepository struct {
	CreateFunc          func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error
	UpdateFunc          func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error
	FindByIDFunc        func(ctx context.Context, id uint) (*domain.Blog, error)
	FindBySlugFunc      func(ctx context.Context, slug string) (*domain.Blog, error)
	SlugExistsFunc      func(ctx context.Context, slug string) (bool, error)
	ListFunc            func(ctx context.Context, filter domain.BlogFilter) ([]domain.Blog, int64, error)
	ListByAuthorFunc    func(ctx context.Context, authorID uint) ([]domain.Blog, error)
	DeleteFunc          func(ctx context.Context, id, contentTypeID uint) error
	IncrementVisitsFunc func(ctx context.Context, id uint) error
	ToggleLikeFunc      func(ctx context.Context, blogID, userID uint) (bool, int64, error)
}

// NewMockBlogRepository creates a new MockBlogRepository with default behaviors
func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{}
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, blog, categoryIDs)
	}
	blog.ID = 1
	return nil
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, blog, categoryIDs)
	}
	return nil
}

func (m *MockBlogRepository) FindByID(ctx context.Context, id uint) (*domain.Blog, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrBlogNotFound
}

func (m *MockBlogRepository) FindBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, domain.ErrBlogNotFound
}

func (m *MockBlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.SlugExistsFunc != nil {
		return m.SlugExistsFunc(ctx, slug)
	}
	return false, nil
}

func (m *MockBlogRepository) List(ctx context.Context, filter domain.BlogFilter) ([]domain.Blog, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []domain.Blog{}, 0, nil
}

func (m *MockBlogRepository) ListByAuthor(ctx context.Context, authorID uint) ([]domain.Blog, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID)
	}
	return []domain.Blog{}, nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id, contentTypeID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, contentTypeID)
	}
	return nil
}

func (m *MockBlogRepository) IncrementVisits(ctx context.Context, id uint) error {
	if m.IncrementVisitsFunc != nil {
		return m.IncrementVisitsFunc(ctx, id)
	}
	return nil
}

func (m *MockBlogRepository) ToggleLike(ctx context.Context, blogID, userID uint) (bool, int64, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, blogID, userID)
	}
	return true, 1, nil
}

// MockCategoryRepository implements domain.CategoryRepository for testing
type MockCategoryRepository struct {
	CreateFunc    func(ctx context.Context, category *domain.Category) error
	UpdateFunc    func(ctx context.Context, category *domain.Category) error
	FindByIDFunc  func(ctx context.Context, id uint) (*domain.Category, error)
	FindByIDsFunc func(ctx context.Context, ids []uint) ([]domain.Category, error)
	ListFunc      func(ctx context.Context) ([]domain.Category, error)
	DeleteFunc    func(ctx context.Context, id uint) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository with default behaviors
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	category.ID = 1
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	return nil
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrCategoryNotFound
}

// FindByIDs defaults to returning one category per id
func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	out := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Category{ID: id})
	}
	return out, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Category{}, nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockContentTypeRepository implements domain.ContentTypeRepository for testing
type MockContentTypeRepository struct {
	GetForModelFunc func(ctx context.Context, key domain.ContentTypeKey) (*domain.ContentType, error)
}

// NewMockContentTypeRepository creates a new MockContentTypeRepository
func NewMockContentTypeRepository() *MockContentTypeRepository {
	return &MockContentTypeRepository{}
}

// GetForModel defaults to content type 1 for every key
func (m *MockContentTypeRepository) GetForModel(ctx context.Context, key domain.ContentTypeKey) (*domain.ContentType, error) {
	if m.GetForModelFunc != nil {
		return m.GetForModelFunc(ctx, key)
	}
	return &domain.ContentType{ID: 1, AppLabel: key.AppLabel, Model: key.Model}, nil
}

// MockCommentRepository implements domain.CommentRepository for testing
type MockCommentRepository struct {
	CreateFunc         func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.Comment, error)
	UpdateFunc         func(ctx context.Context, comment *domain.Comment) error
	DeleteFunc         func(ctx context.Context, id uint) error
	FilterByTargetFunc func(ctx context.Context, contentTypeID, objectID uint) ([]domain.Comment, error)
	ListFunc           func(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error)
}

// NewMockCommentRepository creates a new MockCommentRepository with default behaviors
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	comment.ID = 1
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrCommentNotFound
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCommentRepository) FilterByTarget(ctx context.Context, contentTypeID, objectID uint) ([]domain.Comment, error) {
	if m.FilterByTargetFunc != nil {
		return m.FilterByTargetFunc(ctx, contentTypeID, objectID)
	}
	return []domain.Comment{}, nil
}

func (m *MockCommentRepository) List(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	return []domain.Comment{}, 0, nil
}

// MockMediaStore implements domain.MediaStore for testing
type MockMediaStore struct {
	SaveFunc   func(ctx context.Context, name string, r io.Reader) (string, error)
	RemoveFunc func(ctx context.Context, path string) error

	Removed []string
}

// NewMockMediaStore creates a new MockMediaStore
func NewMockMediaStore() *MockMediaStore {
	return &MockMediaStore{}
}

// Save defaults to storing under blog/images with the original name
func (m *MockMediaStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, name, r)
	}
	return "blog/images/" + name, nil
}

// Remove records the removed path
func (m *MockMediaStore) Remove(ctx context.Context, path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, path)
	}
	m.Removed = append(m.Removed, path)
	return nil
}

// URL prefixes the path with /media/
func (m *MockMediaStore) URL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}

// MockAuditLogger implements domain.AuditLogger and keeps the events it receives
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.Events = append(m.Events, event)
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// EventTypes returns the types of the recorded events in order
func (m *MockAuditLogger) EventTypes() []domain.AuditEventType {
	types := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType)
	}
	return types
}

// Compile-time interface compliance verification
var (
	_ domain.BlogRepository        = (*MockBlogRepository)(nil)
	_ domain.CategoryRepository    = (*MockCategoryRepository)(nil)
	_ domain.ContentTypeRepository = (*MockContentTypeRepository)(nil)
	_ domain.CommentRepository     = (*MockCommentRepository)(nil)
	_ domain.MediaStore            = (*MockMediaStore)(nil)
	_ domain.AuditLogger           = (*MockAuditLogger)(nil)
)
