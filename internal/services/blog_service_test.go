package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/mocks"
)

type blogDeps struct {
	blogRepo     *mocks.MockBlogRepository
	categoryRepo *mocks.MockCategoryRepository
	contentTypes *mocks.MockContentTypeRepository
	media        *mocks.MockMediaStore
}

func createBlogServiceForTest(t *testing.T) (*BlogServiceImpl, *blogDeps) {
	t.Helper()

	deps := &blogDeps{
		blogRepo:     mocks.NewMockBlogRepository(),
		categoryRepo: mocks.NewMockCategoryRepository(),
		contentTypes: mocks.NewMockContentTypeRepository(),
		media:        mocks.NewMockMediaStore(),
	}
	svc := NewBlogService(deps.blogRepo, deps.categoryRepo, deps.contentTypes, deps.media,
		logging.Discard()).(*BlogServiceImpl)
	return svc, deps
}

// storeBlogs backs the blog repository mock with a map keyed by slug
func storeBlogs(deps *blogDeps, blogs ...*domain.Blog) map[string]*domain.Blog {
	bySlug := make(map[string]*domain.Blog)
	for _, b := range blogs {
		bySlug[b.Slug] = b
	}
	nextID := uint(100)
	deps.blogRepo.FindBySlugFunc = func(ctx context.Context, slug string) (*domain.Blog, error) {
		if b, ok := bySlug[slug]; ok {
			copied := *b
			return &copied, nil
		}
		return nil, domain.ErrBlogNotFound
	}
	deps.blogRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Blog, error) {
		for _, b := range bySlug {
			if b.ID == id {
				copied := *b
				return &copied, nil
			}
		}
		return nil, domain.ErrBlogNotFound
	}
	deps.blogRepo.SlugExistsFunc = func(ctx context.Context, slug string) (bool, error) {
		_, ok := bySlug[slug]
		return ok, nil
	}
	deps.blogRepo.CreateFunc = func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
		nextID++
		blog.ID = nextID
		bySlug[blog.Slug] = blog
		return nil
	}
	deps.blogRepo.UpdateFunc = func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
		bySlug[blog.Slug] = blog
		return nil
	}
	return bySlug
}

func authorUser(id uint) *domain.User {
	return &domain.User{ID: id, Author: true, SpecialUser: time.Now().Add(-time.Hour)}
}

func TestBlogServiceImpl_Create(t *testing.T) {
	t.Run("long title keeps its slug", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps)
		var gotCategories []uint
		create := deps.blogRepo.CreateFunc
		deps.blogRepo.CreateFunc = func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
			gotCategories = categoryIDs
			return create(ctx, blog, categoryIDs)
		}

		blog, err := svc.Create(context.Background(), authorUser(1), domain.BlogInput{
			Title:       "Writing Go Services",
			Body:        "body",
			CategoryIDs: []uint{2, 3},
			Status:      domain.BlogPublished,
		})

		require.NoError(t, err)
		assert.Equal(t, "writing-go-services", blog.Slug)
		assert.Equal(t, uint(1), blog.AuthorID)
		assert.Equal(t, domain.BlogPublished, blog.Status)
		assert.Equal(t, []uint{2, 3}, gotCategories)
		assert.WithinDuration(t, time.Now(), blog.Publish, time.Minute)
	})

	t.Run("short title slug is replaced", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps)

		blog, err := svc.Create(context.Background(), authorUser(1), domain.BlogInput{Title: "Go", Body: "body"})

		require.NoError(t, err)
		assert.Len(t, blog.Slug, 10)
		assert.Regexp(t, `^[a-z0-9]+$`, blog.Slug)
		assert.Equal(t, domain.BlogDraft, blog.Status)
	})

	t.Run("slug collision gets a suffix", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, &domain.Blog{ID: 1, Slug: "writing-go-services"})

		blog, err := svc.Create(context.Background(), authorUser(1), domain.BlogInput{Title: "Writing Go Services", Body: "body"})

		require.NoError(t, err)
		assert.Regexp(t, `^writing-go-services-[a-z0-9]{4}$`, blog.Slug)
	})

	t.Run("image is stored", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps)
		var written []byte
		deps.media.SaveFunc = func(ctx context.Context, name string, r io.Reader) (string, error) {
			written, _ = io.ReadAll(r)
			return "blog/images/abc.png", nil
		}

		blog, err := svc.Create(context.Background(), authorUser(1), domain.BlogInput{
			Title: "Pictures of gophers", Body: "body", ImageName: "gopher.png", ImageData: []byte("png"),
		})

		require.NoError(t, err)
		assert.Equal(t, "blog/images/abc.png", blog.Image)
		assert.Equal(t, []byte("png"), written)
	})

	t.Run("failed insert removes stored image", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		deps.blogRepo.CreateFunc = func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
			return errors.New("insert failed")
		}

		_, err := svc.Create(context.Background(), authorUser(1), domain.BlogInput{
			Title: "Pictures of gophers", Body: "body", ImageName: "gopher.png", ImageData: []byte("png"),
		})

		assert.Error(t, err)
		assert.Equal(t, []string{"blog/images/gopher.png"}, deps.media.Removed)
	})

	rejections := []struct {
		name          string
		author        *domain.User
		input         domain.BlogInput
		setup         func(deps *blogDeps)
		expectedError error
	}{
		{name: "plain user", author: &domain.User{ID: 2}, input: domain.BlogInput{Title: "Writing Go", Body: "b"}, expectedError: domain.ErrForbidden},
		{name: "empty title", author: authorUser(1), input: domain.BlogInput{Title: "  ", Body: "b"}, expectedError: domain.ErrInvalidInput},
		{name: "empty body", author: authorUser(1), input: domain.BlogInput{Title: "Writing Go"}, expectedError: domain.ErrInvalidInput},
		{name: "bad status", author: authorUser(1), input: domain.BlogInput{Title: "Writing Go", Body: "b", Status: "x"}, expectedError: domain.ErrInvalidBlogStatus},
		{
			name:   "unknown category",
			author: authorUser(1),
			input:  domain.BlogInput{Title: "Writing Go", Body: "b", CategoryIDs: []uint{1, 9}},
			setup: func(deps *blogDeps) {
				deps.categoryRepo.FindByIDsFunc = func(ctx context.Context, ids []uint) ([]domain.Category, error) {
					return []domain.Category{{ID: 1}}, nil
				}
			},
			expectedError: domain.ErrCategoryNotFound,
		},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createBlogServiceForTest(t)
			storeBlogs(deps)
			if tt.setup != nil {
				tt.setup(deps)
			}

			_, err := svc.Create(context.Background(), tt.author, tt.input)
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestBlogServiceImpl_Get(t *testing.T) {
	now := time.Now()
	published := &domain.Blog{ID: 1, AuthorID: 1, Slug: "published-post", Status: domain.BlogPublished}
	draft := &domain.Blog{ID: 2, AuthorID: 1, Slug: "draft-post", Status: domain.BlogDraft}
	special := &domain.Blog{ID: 3, AuthorID: 1, Slug: "special-post", Status: domain.BlogPublished, Special: true}

	tests := []struct {
		name          string
		slug          string
		viewer        *domain.User
		expectedError error
	}{
		{name: "published to anonymous", slug: "published-post"},
		{name: "draft to anonymous", slug: "draft-post", expectedError: domain.ErrBlogNotFound},
		{name: "draft to its author", slug: "draft-post", viewer: authorUser(1)},
		{name: "draft to staff", slug: "draft-post", viewer: &domain.User{ID: 9, IsStaff: true}},
		{name: "special to reader", slug: "special-post", viewer: &domain.User{ID: 5}, expectedError: domain.ErrForbidden},
		{name: "special to subscriber", slug: "special-post", viewer: &domain.User{ID: 5, SpecialUser: now.Add(time.Hour)}},
		{name: "missing", slug: "nope", expectedError: domain.ErrBlogNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createBlogServiceForTest(t)
			storeBlogs(deps, published, draft, special)
			visits := 0
			deps.blogRepo.IncrementVisitsFunc = func(ctx context.Context, id uint) error {
				visits++
				return nil
			}

			blog, err := svc.Get(context.Background(), tt.viewer, tt.slug)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, visits)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, blog.Slug)
			assert.Equal(t, uint(1), blog.Visits)
			assert.Equal(t, 1, visits)
		})
	}
}

func TestBlogServiceImpl_List(t *testing.T) {
	tests := []struct {
		name           string
		viewer         *domain.User
		expectStatus   bool
		includeSpecial bool
	}{
		{name: "anonymous", viewer: nil, expectStatus: true, includeSpecial: false},
		{name: "reader", viewer: &domain.User{ID: 2}, expectStatus: true, includeSpecial: false},
		{name: "subscriber", viewer: &domain.User{ID: 2, SpecialUser: time.Now().Add(time.Hour)}, expectStatus: true, includeSpecial: true},
		{name: "staff", viewer: &domain.User{ID: 3, IsStaff: true}, expectStatus: false, includeSpecial: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := createBlogServiceForTest(t)
			var got domain.BlogFilter
			deps.blogRepo.ListFunc = func(ctx context.Context, filter domain.BlogFilter) ([]domain.Blog, int64, error) {
				got = filter
				return nil, 0, nil
			}

			_, _, err := svc.List(context.Background(), tt.viewer, domain.BlogFilter{CategoryID: 4})

			require.NoError(t, err)
			assert.Equal(t, uint(4), got.CategoryID)
			assert.Equal(t, tt.includeSpecial, got.IncludeSpecial)
			if tt.expectStatus {
				require.NotNil(t, got.Status)
				assert.Equal(t, domain.BlogPublished, *got.Status)
			} else {
				assert.Nil(t, got.Status)
			}
		})
	}
}

func TestBlogServiceImpl_Update(t *testing.T) {
	existing := &domain.Blog{ID: 1, AuthorID: 1, Slug: "writing-go", Title: "Writing Go", Image: "blog/images/old.png", Status: domain.BlogDraft}

	t.Run("owner replaces image", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		store := storeBlogs(deps, existing)

		blog, err := svc.Update(context.Background(), authorUser(1), "writing-go", domain.BlogInput{
			Title: "Writing Better Go", Body: "new", Status: domain.BlogPublished, ImageName: "new.png", ImageData: []byte("x"),
		})

		require.NoError(t, err)
		assert.Equal(t, "writing-go", blog.Slug, "slug must not change")
		assert.Equal(t, "Writing Better Go", store["writing-go"].Title)
		assert.Equal(t, "blog/images/new.png", blog.Image)
		assert.Equal(t, []string{"blog/images/old.png"}, deps.media.Removed)
	})

	t.Run("keeps image and categories when not given", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)
		gotCategories := []uint{99}
		deps.blogRepo.UpdateFunc = func(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
			gotCategories = categoryIDs
			return nil
		}

		blog, err := svc.Update(context.Background(), authorUser(1), "writing-go", domain.BlogInput{Title: "Writing Go", Body: "b"})

		require.NoError(t, err)
		assert.Nil(t, gotCategories)
		assert.Equal(t, "blog/images/old.png", blog.Image)
		assert.Empty(t, deps.media.Removed)
	})

	t.Run("admin may edit any blog", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)

		_, err := svc.Update(context.Background(), &domain.User{ID: 9, IsAdmin: true}, "writing-go", domain.BlogInput{Title: "Writing Go", Body: "b"})
		assert.NoError(t, err)
	})

	t.Run("other author is forbidden", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)

		_, err := svc.Update(context.Background(), authorUser(2), "writing-go", domain.BlogInput{Title: "Writing Go", Body: "b"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestBlogServiceImpl_Delete(t *testing.T) {
	existing := &domain.Blog{ID: 5, AuthorID: 1, Slug: "writing-go", Image: "blog/images/old.png"}

	t.Run("removes comments and image", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)
		var deleted [2]uint
		deps.blogRepo.DeleteFunc = func(ctx context.Context, id, contentTypeID uint) error {
			deleted = [2]uint{id, contentTypeID}
			return nil
		}

		require.NoError(t, svc.Delete(context.Background(), authorUser(1), "writing-go"))

		assert.Equal(t, [2]uint{5, 1}, deleted)
		assert.Equal(t, []string{"blog/images/old.png"}, deps.media.Removed)
	})

	t.Run("image stays when the delete fails", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)
		deps.blogRepo.DeleteFunc = func(ctx context.Context, id, contentTypeID uint) error {
			return errors.New("database is locked")
		}

		assert.Error(t, svc.Delete(context.Background(), authorUser(1), "writing-go"))
		assert.Empty(t, deps.media.Removed)
	})

	t.Run("reader is forbidden", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps, existing)

		err := svc.Delete(context.Background(), &domain.User{ID: 1}, "writing-go")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, deps.media.Removed)
	})

	t.Run("missing blog", func(t *testing.T) {
		svc, deps := createBlogServiceForTest(t)
		storeBlogs(deps)

		assert.ErrorIs(t, svc.Delete(context.Background(), authorUser(1), "nope"), domain.ErrBlogNotFound)
	})
}

func TestBlogServiceImpl_ToggleLike(t *testing.T) {
	svc, deps := createBlogServiceForTest(t)
	storeBlogs(deps,
		&domain.Blog{ID: 1, AuthorID: 1, Slug: "published-post", Status: domain.BlogPublished},
		&domain.Blog{ID: 2, AuthorID: 1, Slug: "draft-post", Status: domain.BlogDraft},
	)

	liked, total, err := svc.ToggleLike(context.Background(), &domain.User{ID: 3}, "published-post")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), total)

	_, _, err = svc.ToggleLike(context.Background(), &domain.User{ID: 3}, "draft-post")
	assert.ErrorIs(t, err, domain.ErrBlogNotFound)
}
