package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// CommentNameMaxLength is the longest display name a comment may carry
const CommentNameMaxLength = 20

// CommentServiceImpl implements domain.CommentService for comments on blogs
type CommentServiceImpl struct {
	commentRepo     domain.CommentRepository
	blogRepo        domain.BlogRepository
	contentTypeRepo domain.ContentTypeRepository
	log             logrus.FieldLogger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo domain.CommentRepository,
	blogRepo domain.BlogRepository,
	contentTypeRepo domain.ContentTypeRepository,
	log logrus.FieldLogger,
) domain.CommentService {
	return &CommentServiceImpl{
		commentRepo:     commentRepo,
		blogRepo:        blogRepo,
		contentTypeRepo: contentTypeRepo,
		log:             log,
	}
}

// ListForBlog implements domain.CommentService. The result holds top-level comments,
// newest first, with replies nested under Children.
func (s *CommentServiceImpl) ListForBlog(ctx context.Context, blogID uint) ([]*domain.Comment, error) {
	blog, err := s.publishedBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	comments, err := s.FilterByInstance(ctx, blog)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(comments), nil
}

// FilterByInstance lists the comments attached to any commentable target
func (s *CommentServiceImpl) FilterByInstance(ctx context.Context, target domain.Commentable) ([]domain.Comment, error) {
	contentType, err := s.contentTypeRepo.GetForModel(ctx, target.ContentTypeKey())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content type: %w", err)
	}
	return s.commentRepo.FilterByTarget(ctx, contentType.ID, target.GetID())
}

// Create implements domain.CommentService
func (s *CommentServiceImpl) Create(ctx context.Context, user *domain.User, input domain.CommentInput) (*domain.Comment, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validateComment(input); err != nil {
		return nil, err
	}

	blog, err := s.publishedBlog(ctx, input.ObjectID)
	if err != nil {
		return nil, err
	}
	contentType, err := s.contentTypeRepo.GetForModel(ctx, blog.ContentTypeKey())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content type: %w", err)
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrCommentNotFound) {
				return nil, domain.ErrInvalidParent
			}
			return nil, err
		}
		if parent.ContentTypeID != contentType.ID || parent.ObjectID != blog.ID {
			return nil, domain.ErrInvalidParent
		}
	}

	comment := &domain.Comment{
		UserID:        user.ID,
		Name:          input.Name,
		ContentTypeID: contentType.ID,
		ObjectID:      blog.ID,
		ParentID:      input.ParentID,
		Body:          input.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.WithFields(logrus.Fields{"comment_id": comment.ID, "blog_id": blog.ID, "user_id": user.ID}).Info("comment created")
	return comment, nil
}

// Update implements domain.CommentService. Only the name and body change; comments of
// other users are reported as not found.
func (s *CommentServiceImpl) Update(ctx context.Context, user *domain.User, id uint, input domain.CommentInput) (*domain.Comment, error) {
	comment, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := validateComment(input); err != nil {
		return nil, err
	}

	comment.Name = input.Name
	comment.Body = input.Body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// Delete implements domain.CommentService. Replies are removed with the comment.
func (s *CommentServiceImpl) Delete(ctx context.Context, user *domain.User, id uint) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": user.ID}).Info("comment deleted")
	return nil
}

// ListAll implements domain.CommentService
func (s *CommentServiceImpl) ListAll(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error) {
	return s.commentRepo.List(ctx, page.Normalize())
}

func (s *CommentServiceImpl) publishedBlog(ctx context.Context, id uint) (*domain.Blog, error) {
	blog, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.IsPublished() {
		return nil, domain.ErrBlogNotFound
	}
	return blog, nil
}

func (s *CommentServiceImpl) owned(ctx context.Context, user *domain.User, id uint) (*domain.Comment, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != user.ID {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}

func validateComment(input domain.CommentInput) error {
	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: body must be set", domain.ErrInvalidInput)
	}
	if input.Name != nil && utf8.RuneCountInString(*input.Name) > CommentNameMaxLength {
		return fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, CommentNameMaxLength)
	}
	return nil
}

// buildCommentTree nests replies under their parents, keeping the input order at
// every level. Replies whose parent is missing are promoted to the top level.
func buildCommentTree(comments []domain.Comment) []*domain.Comment {
	nodes := make(map[uint]*domain.Comment, len(comments))
	for i := range comments {
		c := comments[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	roots := make([]*domain.Comment, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
