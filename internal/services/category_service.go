package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

const categorySlugMaxLength = 90

// CategoryServiceImpl implements domain.CategoryService
type CategoryServiceImpl struct {
	categoryRepo domain.CategoryRepository
	log          logrus.FieldLogger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo domain.CategoryRepository, log logrus.FieldLogger) domain.CategoryService {
	return &CategoryServiceImpl{categoryRepo: categoryRepo, log: log}
}

// List implements domain.CategoryService
func (s *CategoryServiceImpl) List(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Create implements domain.CategoryService
func (s *CategoryServiceImpl) Create(ctx context.Context, title string, parentID *uint, position int) (*domain.Category, error) {
	title, err := validateCategoryTitle(title)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *parentID); err != nil {
			return nil, parentError(err)
		}
	}

	slug, err := s.slugFor(ctx, title, 0)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		ParentID: parentID,
		Title:    title,
		Slug:     slug,
		Status:   true,
		Position: position,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.log.WithFields(logrus.Fields{"category_id": category.ID, "slug": category.Slug}).Info("category created")
	return s.categoryRepo.FindByID(ctx, category.ID)
}

// Update implements domain.CategoryService. A new title gets a new slug.
func (s *CategoryServiceImpl) Update(ctx context.Context, id uint, title string, parentID *uint, position int) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title, err = validateCategoryTitle(title)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if err := s.checkAncestry(ctx, id, *parentID); err != nil {
			return nil, err
		}
	}

	if title != category.Title {
		if category.Slug, err = s.slugFor(ctx, title, id); err != nil {
			return nil, err
		}
	}
	category.Title = title
	category.ParentID = parentID
	category.Position = position

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.categoryRepo.FindByID(ctx, id)
}

// Delete implements domain.CategoryService. Children are detached, not deleted.
func (s *CategoryServiceImpl) Delete(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("category_id", id).Info("category deleted")
	return nil
}

// checkAncestry walks up from parentID and fails if it reaches id
func (s *CategoryServiceImpl) checkAncestry(ctx context.Context, id, parentID uint) error {
	seen := map[uint]bool{}
	current := &parentID
	for current != nil {
		if *current == id {
			return domain.ErrCategoryCycle
		}
		if seen[*current] {
			return domain.ErrCategoryCycle
		}
		seen[*current] = true

		parent, err := s.categoryRepo.FindByID(ctx, *current)
		if err != nil {
			return parentError(err)
		}
		current = parent.ParentID
	}
	return nil
}

// slugFor returns a free slug for title, ignoring the category being renamed
func (s *CategoryServiceImpl) slugFor(ctx context.Context, title string, self uint) (string, error) {
	base, err := makeSlug(title, 1, categorySlugMaxLength)
	if err != nil {
		return "", err
	}

	existing, err := s.categoryRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		if c.ID != self {
			taken[c.Slug] = true
		}
	}
	return uniqueSlug(ctx, base, func(_ context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	})
}

func validateCategoryTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return "", fmt.Errorf("%w: title must be 1 to 200 characters", domain.ErrInvalidInput)
	}
	return title, nil
}

func parentError(err error) error {
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return fmt.Errorf("%w: parent category not found", domain.ErrInvalidInput)
	}
	return err
}
