package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/gorm"
)

// DBComment is the database model for Comment
type DBComment struct {
	ID            uint          `gorm:"primaryKey"`
	UserID        uint          `gorm:"index;not null"`
	User          DBUser        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name          *string       `gorm:"size:20"`
	ContentTypeID uint          `gorm:"index:idx_comment_target;not null"`
	ContentType   DBContentType `gorm:"foreignKey:ContentTypeID;constraint:OnDelete:CASCADE"`
	ObjectID      uint          `gorm:"index:idx_comment_target;not null"`
	ParentID      *uint         `gorm:"index"`
	Parent        *DBComment    `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Body          string        `gorm:"type:text;not null"`
	CreatedAt     time.Time     `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBComment) TableName() string {
	return "comments"
}

const commentOrder = "created_at DESC, id DESC"

// CommentRepositoryImpl implements domain.CommentRepository using GORM
type CommentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) domain.CommentRepository {
	return &CommentRepositoryImpl{db: db}
}

// Create implements domain.CommentRepository
func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	row := commentToDB(comment)
	if err := r.db.WithContext(ctx).Omit("User", "ContentType", "Parent").Create(row).Error; err != nil {
		return err
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	comment.UpdatedAt = row.UpdatedAt
	return nil
}

// FindByID implements domain.CommentRepository
func (r *CommentRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var row DBComment
	if err := r.db.WithContext(ctx).Preload("User").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return commentToDomain(&row), nil
}

// Update implements domain.CommentRepository
func (r *CommentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	row := commentToDB(comment)
	row.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&DBComment{ID: comment.ID}).
		Select("name", "body", "updated_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	comment.UpdatedAt = row.UpdatedAt
	return nil
}

// Delete implements domain.CommentRepository. Replies are removed level by level
// so the result does not depend on the database enforcing foreign keys.
func (r *CommentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&DBComment{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrCommentNotFound
		}
		return deleteCommentTree(tx, []uint{id})
	})
}

func deleteCommentTree(tx *gorm.DB, ids []uint) error {
	for len(ids) > 0 {
		var children []uint
		if err := tx.Model(&DBComment{}).Where("parent_id IN ?", ids).Pluck("id", &children).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&DBComment{}).Error; err != nil {
			return err
		}
		ids = children
	}
	return nil
}

// FilterByTarget implements domain.CommentRepository, newest first
func (r *CommentRepositoryImpl) FilterByTarget(ctx context.Context, contentTypeID, objectID uint) ([]domain.Comment, error) {
	var rows []DBComment
	err := r.db.WithContext(ctx).Preload("User").
		Where("content_type_id = ? AND object_id = ?", contentTypeID, objectID).
		Order(commentOrder).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return commentsToDomain(rows), nil
}

// List implements domain.CommentRepository
func (r *CommentRepositoryImpl) List(ctx context.Context, page domain.Page) ([]domain.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&DBComment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []DBComment
	err := r.db.WithContext(ctx).Preload("User").
		Order(commentOrder).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return commentsToDomain(rows), total, nil
}

func commentToDB(c *domain.Comment) *DBComment {
	return &DBComment{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		ContentTypeID: c.ContentTypeID,
		ObjectID:      c.ObjectID,
		ParentID:      c.ParentID,
		Body:          c.Body,
	}
}

func commentToDomain(row *DBComment) *domain.Comment {
	c := &domain.Comment{
		ID:            row.ID,
		UserID:        row.UserID,
		Name:          row.Name,
		ContentTypeID: row.ContentTypeID,
		ObjectID:      row.ObjectID,
		ParentID:      row.ParentID,
		Body:          row.Body,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.User.ID != 0 {
		c.User = userToDomain(&row.User)
	}
	return c
}

func commentsToDomain(rows []DBComment) []domain.Comment {
	out := make([]domain.Comment, 0, len(rows))
	for i := range rows {
		out = append(out, *commentToDomain(&rows[i]))
	}
	return out
}
