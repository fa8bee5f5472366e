package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

func TestCategoryRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	parent := &domain.Category{Title: "Programming", Slug: "programming", Status: true, Position: 1}
	require.NoError(t, repo.Create(ctx, parent))

	child := &domain.Category{Title: "Go", Slug: "go", Status: true, Position: 2, ParentID: &parent.ID}
	require.NoError(t, repo.Create(ctx, child))

	t.Run("find with parent", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, child.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Parent)
		assert.Equal(t, "Programming", stored.Parent.Title)

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})

	t.Run("list ordered by position", func(t *testing.T) {
		categories, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Programming", categories[0].Title)
		assert.Nil(t, categories[0].Parent)
		assert.Equal(t, "Go", categories[1].Title)
	})

	t.Run("find by ids skips missing", func(t *testing.T) {
		categories, err := repo.FindByIDs(ctx, []uint{child.ID, 999})
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, child.ID, categories[0].ID)

		empty, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update", func(t *testing.T) {
		child.Title = "Golang"
		child.ParentID = nil
		require.NoError(t, repo.Update(ctx, child))

		stored, err := repo.FindByID(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, "Golang", stored.Title)
		assert.Nil(t, stored.ParentID)

		assert.ErrorIs(t, repo.Update(ctx, &domain.Category{ID: 999, Title: "x", Slug: "x"}), domain.ErrCategoryNotFound)
	})

	t.Run("delete detaches children", func(t *testing.T) {
		child.ParentID = &parent.ID
		require.NoError(t, repo.Update(ctx, child))

		require.NoError(t, repo.Delete(ctx, parent.ID))

		stored, err := repo.FindByID(ctx, child.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ParentID)

		assert.ErrorIs(t, repo.Delete(ctx, parent.ID), domain.ErrCategoryNotFound)
	})
}
