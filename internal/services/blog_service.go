package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// Title slugs of five characters or fewer are replaced by a random one
const (
	blogSlugMinLength = 6
	blogSlugMaxLength = 190
)

// BlogServiceImpl implements domain.BlogService
type BlogServiceImpl struct {
	blogRepo        domain.BlogRepository
	categoryRepo    domain.CategoryRepository
	contentTypeRepo domain.ContentTypeRepository
	media           domain.MediaStore
	remover         *blogRemover
	log             logrus.FieldLogger
	now             func() time.Time
}

// NewBlogService creates a new blog service
func NewBlogService(
	blogRepo domain.BlogRepository,
	categoryRepo domain.CategoryRepository,
	contentTypeRepo domain.ContentTypeRepository,
	media domain.MediaStore,
	log logrus.FieldLogger,
) domain.BlogService {
	return &BlogServiceImpl{
		blogRepo:        blogRepo,
		categoryRepo:    categoryRepo,
		contentTypeRepo: contentTypeRepo,
		media:           media,
		remover:         newBlogRemover(blogRepo, contentTypeRepo, media, log),
		log:             log,
		now:             time.Now,
	}
}

func isStaff(u *domain.User) bool {
	return u != nil && (u.IsStaff || u.IsAdmin)
}

// List implements domain.BlogService. Non-staff viewers only see published blogs, and
// special blogs only when their subscription is running.
func (s *BlogServiceImpl) List(ctx context.Context, viewer *domain.User, filter domain.BlogFilter) ([]domain.Blog, int64, error) {
	filter.Page = filter.Page.Normalize()
	if !isStaff(viewer) {
		published := domain.BlogPublished
		filter.Status = &published
	}
	filter.IncludeSpecial = isStaff(viewer) || (viewer != nil && viewer.IsSpecialUser(s.now()))
	return s.blogRepo.List(ctx, filter)
}

// Get implements domain.BlogService and counts the visit
func (s *BlogServiceImpl) Get(ctx context.Context, viewer *domain.User, slug string) (*domain.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !blog.VisibleTo(viewer, s.now()) {
		if !blog.IsPublished() {
			return nil, domain.ErrBlogNotFound
		}
		return nil, domain.ErrForbidden
	}

	if err := s.blogRepo.IncrementVisits(ctx, blog.ID); err != nil {
		s.log.WithError(err).WithField("blog_id", blog.ID).Warn("failed to count visit")
	} else {
		blog.Visits++
	}
	return blog, nil
}

// Create implements domain.BlogService
func (s *BlogServiceImpl) Create(ctx context.Context, author *domain.User, input domain.BlogInput) (*domain.Blog, error) {
	if author == nil || !(author.Author || author.IsAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	base, err := makeSlug(input.Title, blogSlugMinLength, blogSlugMaxLength)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, base, s.blogRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	blog := &domain.Blog{
		AuthorID: author.ID,
		Title:    input.Title,
		Slug:     slug,
		Body:     input.Body,
		Summary:  input.Summary,
		Publish:  s.now(),
		Special:  input.Special,
		Status:   input.Status,
	}
	if input.Publish != nil {
		blog.Publish = *input.Publish
	}

	if input.ImageData != nil {
		if blog.Image, err = s.media.Save(ctx, input.ImageName, bytes.NewReader(input.ImageData)); err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
	}

	if err := s.blogRepo.Create(ctx, blog, input.CategoryIDs); err != nil {
		s.removeImage(ctx, blog.Image)
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.log.WithFields(logrus.Fields{"blog_id": blog.ID, "slug": blog.Slug, "author_id": author.ID}).Info("blog created")
	return s.blogRepo.FindByID(ctx, blog.ID)
}

// Update implements domain.BlogService. The slug never changes; the image and
// categories are only replaced when given.
func (s *BlogServiceImpl) Update(ctx context.Context, editor *domain.User, slug string, input domain.BlogInput) (*domain.Blog, error) {
	blog, err := s.editable(ctx, editor, slug)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	blog.Title = input.Title
	blog.Body = input.Body
	blog.Summary = input.Summary
	blog.Special = input.Special
	blog.Status = input.Status
	if input.Publish != nil {
		blog.Publish = *input.Publish
	}

	oldImage := blog.Image
	if input.ImageData != nil {
		if blog.Image, err = s.media.Save(ctx, input.ImageName, bytes.NewReader(input.ImageData)); err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
	}

	if err := s.blogRepo.Update(ctx, blog, input.CategoryIDs); err != nil {
		if blog.Image != oldImage {
			s.removeImage(ctx, blog.Image)
		}
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	if blog.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}

	return s.blogRepo.FindByID(ctx, blog.ID)
}

// Delete implements domain.BlogService. Comments and the stored image go with the blog.
func (s *BlogServiceImpl) Delete(ctx context.Context, editor *domain.User, slug string) error {
	blog, err := s.editable(ctx, editor, slug)
	if err != nil {
		return err
	}

	if err := s.remover.remove(ctx, blog); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"blog_id": blog.ID, "slug": blog.Slug, "editor_id": editor.ID}).Info("blog deleted")
	return nil
}

// ToggleLike implements domain.BlogService
func (s *BlogServiceImpl) ToggleLike(ctx context.Context, user *domain.User, slug string) (bool, int64, error) {
	blog, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return false, 0, err
	}
	if !blog.VisibleTo(user, s.now()) {
		return false, 0, domain.ErrBlogNotFound
	}
	return s.blogRepo.ToggleLike(ctx, blog.ID, user.ID)
}

// editable loads the blog behind slug when editor owns it or is an admin
func (s *BlogServiceImpl) editable(ctx context.Context, editor *domain.User, slug string) (*domain.Blog, error) {
	if editor == nil {
		return nil, domain.ErrUnauthorized
	}
	blog, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if editor.IsAdmin {
		return blog, nil
	}
	if !editor.Author || blog.AuthorID != editor.ID {
		return nil, domain.ErrForbidden
	}
	return blog, nil
}

func (s *BlogServiceImpl) validate(input *domain.BlogInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || len(input.Title) > 200 {
		return fmt.Errorf("%w: title must be 1 to 200 characters", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: body must be set", domain.ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = domain.BlogDraft
	}
	if !input.Status.Valid() {
		return domain.ErrInvalidBlogStatus
	}
	return nil
}

func (s *BlogServiceImpl) checkCategories(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	seen := make(map[uint]bool, len(found))
	for _, c := range found {
		seen[c.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return fmt.Errorf("%w: %d", domain.ErrCategoryNotFound, id)
		}
	}
	return nil
}

func (s *BlogServiceImpl) removeImage(ctx context.Context, path string) {
	s.remover.removeImage(ctx, path)
}

// blogRemover deletes a blog together with its comments and stored image. Blog and
// user deletion share it.
type blogRemover struct {
	blogRepo        domain.BlogRepository
	contentTypeRepo domain.ContentTypeRepository
	media           domain.MediaStore
	log             logrus.FieldLogger
}

func newBlogRemover(
	blogRepo domain.BlogRepository,
	contentTypeRepo domain.ContentTypeRepository,
	media domain.MediaStore,
	log logrus.FieldLogger,
) *blogRemover {
	return &blogRemover{blogRepo: blogRepo, contentTypeRepo: contentTypeRepo, media: media, log: log}
}

func (r *blogRemover) remove(ctx context.Context, blog *domain.Blog) error {
	contentType, err := r.contentTypeRepo.GetForModel(ctx, blog.ContentTypeKey())
	if err != nil {
		return fmt.Errorf("failed to resolve content type: %w", err)
	}
	if err := r.blogRepo.Delete(ctx, blog.ID, contentType.ID); err != nil {
		return err
	}
	r.removeImage(ctx, blog.Image)
	return nil
}

func (r *blogRemover) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := r.media.Remove(ctx, path); err != nil {
		r.log.WithError(err).WithField("path", path).Warn("failed to remove blog image")
	}
}
