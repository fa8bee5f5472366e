package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// UserServiceImpl implements domain.UserService
type UserServiceImpl struct {
	userRepo    domain.UserRepository
	blogRepo    domain.BlogRepository
	blogs       *blogRemover
	auditLogger domain.AuditLogger
	log         logrus.FieldLogger
}

// NewUserService creates a new user service. The blog dependencies let Delete take the
// user's blogs down with the account.
func NewUserService(
	userRepo domain.UserRepository,
	blogRepo domain.BlogRepository,
	contentTypeRepo domain.ContentTypeRepository,
	media domain.MediaStore,
	auditLogger domain.AuditLogger,
	log logrus.FieldLogger,
) domain.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		blogRepo:    blogRepo,
		blogs:       newBlogRemover(blogRepo, contentTypeRepo, media, log),
		auditLogger: auditLogger,
		log:         log,
	}
}

// Get implements domain.UserService
func (s *UserServiceImpl) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List implements domain.UserService
func (s *UserServiceImpl) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	filter.Page = filter.Page.Normalize()
	return s.userRepo.List(ctx, filter)
}

// Update implements domain.UserService
func (s *UserServiceImpl) Update(ctx context.Context, id uint, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete implements domain.UserService. Authored blogs are removed first, with their
// comments and images.
func (s *UserServiceImpl) Delete(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	blogs, err := s.blogRepo.ListByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list user blogs: %w", err)
	}
	for i := range blogs {
		if err := s.blogs.remove(ctx, &blogs[i]); err != nil {
			return fmt.Errorf("failed to delete blog %d: %w", blogs[i].ID, err)
		}
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": id, "blogs": len(blogs)}).Info("user deleted")
	recordAudit(ctx, s.auditLogger, s.log, domain.NewAuditEvent(domain.UserDeletedEvent, id).
		WithPhone(user.Phone).
		WithClientContext(domain.ClientFromContext(ctx)))
	return nil
}
