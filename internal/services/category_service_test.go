package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/mocks"
)

// categoryStore backs a MockCategoryRepository with a map
func categoryStore(categories ...domain.Category) (*mocks.MockCategoryRepository, map[uint]*domain.Category) {
	repo := mocks.NewMockCategoryRepository()
	byID := make(map[uint]*domain.Category)
	var nextID uint
	for i := range categories {
		c := categories[i]
		byID[c.ID] = &c
		if c.ID > nextID {
			nextID = c.ID
		}
	}

	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Category, error) {
		c, ok := byID[id]
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		copied := *c
		return &copied, nil
	}
	repo.ListFunc = func(ctx context.Context) ([]domain.Category, error) {
		out := make([]domain.Category, 0, len(byID))
		for _, c := range byID {
			out = append(out, *c)
		}
		return out, nil
	}
	repo.CreateFunc = func(ctx context.Context, category *domain.Category) error {
		nextID++
		category.ID = nextID
		copied := *category
		byID[category.ID] = &copied
		return nil
	}
	repo.UpdateFunc = func(ctx context.Context, category *domain.Category) error {
		copied := *category
		byID[category.ID] = &copied
		return nil
	}
	return repo, byID
}

func TestCategoryServiceImpl_Create(t *testing.T) {
	t.Run("creates active category", func(t *testing.T) {
		repo, _ := categoryStore(domain.Category{ID: 1, Title: "Programming", Slug: "programming"})
		svc := NewCategoryService(repo, logging.Discard())

		category, err := svc.Create(context.Background(), "  Go Language ", uintPtr(1), 3)

		require.NoError(t, err)
		assert.Equal(t, "Go Language", category.Title)
		assert.Equal(t, "go-language", category.Slug)
		assert.True(t, category.Status)
		assert.Equal(t, 3, category.Position)
		require.NotNil(t, category.ParentID)
		assert.Equal(t, uint(1), *category.ParentID)
	})

	t.Run("short titles keep their slug", func(t *testing.T) {
		repo, _ := categoryStore()
		svc := NewCategoryService(repo, logging.Discard())

		category, err := svc.Create(context.Background(), "Go", nil, 0)

		require.NoError(t, err)
		assert.Equal(t, "go", category.Slug)
	})

	t.Run("taken slug gets a suffix", func(t *testing.T) {
		repo, _ := categoryStore(domain.Category{ID: 1, Title: "Go", Slug: "go"})
		svc := NewCategoryService(repo, logging.Discard())

		category, err := svc.Create(context.Background(), "GO", nil, 0)

		require.NoError(t, err)
		assert.Regexp(t, `^go-[a-z0-9]{4}$`, category.Slug)
	})

	t.Run("missing parent", func(t *testing.T) {
		repo, _ := categoryStore()
		svc := NewCategoryService(repo, logging.Discard())

		_, err := svc.Create(context.Background(), "Go", uintPtr(7), 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("blank title", func(t *testing.T) {
		repo, _ := categoryStore()
		svc := NewCategoryService(repo, logging.Discard())

		_, err := svc.Create(context.Background(), "   ", nil, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCategoryServiceImpl_Update(t *testing.T) {
	// 1 <- 2 <- 3 is the existing chain
	chain := []domain.Category{
		{ID: 1, Title: "Root", Slug: "root"},
		{ID: 2, Title: "Middle", Slug: "middle", ParentID: uintPtr(1)},
		{ID: 3, Title: "Leaf", Slug: "leaf", ParentID: uintPtr(2)},
		{ID: 4, Title: "Other", Slug: "other"},
	}

	tests := []struct {
		name          string
		id            uint
		title         string
		parentID      *uint
		expectedError error
		slugPattern   string
	}{
		{name: "rename regenerates slug", id: 3, title: "Leaves", parentID: uintPtr(2), slugPattern: `^leaves$`},
		{name: "same title keeps slug", id: 3, title: "Leaf", parentID: uintPtr(4), slugPattern: `^leaf$`},
		{name: "move to top level", id: 2, title: "Middle", parentID: nil, slugPattern: `^middle$`},
		{name: "self parent", id: 2, title: "Middle", parentID: uintPtr(2), expectedError: domain.ErrCategoryCycle},
		{name: "descendant parent", id: 1, title: "Root", parentID: uintPtr(3), expectedError: domain.ErrCategoryCycle},
		{name: "missing parent", id: 1, title: "Root", parentID: uintPtr(42), expectedError: domain.ErrInvalidInput},
		{name: "missing category", id: 42, title: "Root", expectedError: domain.ErrCategoryNotFound},
		{name: "rename onto taken slug", id: 4, title: "Root", slugPattern: `^root-[a-z0-9]{4}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := categoryStore(chain...)
			svc := NewCategoryService(repo, logging.Discard())

			category, err := svc.Update(context.Background(), tt.id, tt.title, tt.parentID, 0)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.parentID, category.ParentID)
			assert.Regexp(t, tt.slugPattern, category.Slug)
			assert.Equal(t, category.Slug, store[tt.id].Slug)
		})
	}
}

func TestCategoryServiceImpl_Delete(t *testing.T) {
	repo := mocks.NewMockCategoryRepository()
	var deleted uint
	repo.DeleteFunc = func(ctx context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewCategoryService(repo, logging.Discard())

	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Equal(t, uint(5), deleted)
}
