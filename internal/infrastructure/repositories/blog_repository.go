package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBBlog is the database model for Blog
type DBBlog struct {
	ID         uint         `gorm:"primaryKey"`
	AuthorID   uint         `gorm:"index;not null"`
	Author     DBUser       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Title      string       `gorm:"size:200;not null"`
	Slug       string       `gorm:"uniqueIndex;size:200;not null"`
	Body       string       `gorm:"type:text"`
	Image      string       `gorm:"size:255"`
	Summary    string       `gorm:"type:text"`
	Categories []DBCategory `gorm:"many2many:blog_categories;joinForeignKey:BlogID;joinReferences:CategoryID"`
	Likes      []DBUser     `gorm:"many2many:blog_likes;joinForeignKey:BlogID;joinReferences:UserID"`
	Publish    time.Time    `gorm:"index;not null"`
	Special    bool         `gorm:"not null;default:false"`
	Status     string       `gorm:"size:1;index;not null"`
	Visits     uint         `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBBlog) TableName() string {
	return "blogs"
}

const (
	blogCategoriesTable = "blog_categories"
	blogLikesTable      = "blog_likes"
)

// BlogRepositoryImpl implements domain.BlogRepository using GORM
type BlogRepositoryImpl struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) domain.BlogRepository {
	return &BlogRepositoryImpl{db: db}
}

// Create implements domain.BlogRepository
func (r *BlogRepositoryImpl) Create(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
	row := blogToDB(blog)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		return replaceCategories(tx, row.ID, categoryIDs)
	})
	if err != nil {
		return err
	}

	blog.ID = row.ID
	blog.CreatedAt = row.CreatedAt
	blog.UpdatedAt = row.UpdatedAt
	return nil
}

// Update implements domain.BlogRepository
func (r *BlogRepositoryImpl) Update(ctx context.Context, blog *domain.Blog, categoryIDs []uint) error {
	row := blogToDB(blog)
	row.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&DBBlog{ID: blog.ID}).
			Select("title", "slug", "body", "image", "summary", "publish", "special", "status", "updated_at").
			Updates(row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrBlogNotFound
		}
		blog.UpdatedAt = row.UpdatedAt
		if categoryIDs == nil {
			return nil
		}
		return replaceCategories(tx, blog.ID, categoryIDs)
	})
}

func replaceCategories(tx *gorm.DB, blogID uint, categoryIDs []uint) error {
	if err := tx.Exec("DELETE FROM blog_categories WHERE blog_id = ?", blogID).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]map[string]interface{}, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, map[string]interface{}{"blog_id": blogID, "category_id": id})
	}
	return tx.Table(blogCategoriesTable).Clauses(clause.OnConflict{DoNothing: true}).Create(links).Error
}

// FindByID implements domain.BlogRepository
func (r *BlogRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Blog, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug implements domain.BlogRepository
func (r *BlogRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *BlogRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.Blog, error) {
	var row DBBlog
	err := r.preloaded(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, err
	}

	likes, err := r.likeCounts(ctx, []uint{row.ID})
	if err != nil {
		return nil, err
	}
	return blogToDomain(&row, likes[row.ID]), nil
}

func (r *BlogRepositoryImpl) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC, categories.id ASC")
		})
}

func (r *BlogRepositoryImpl) likeCounts(ctx context.Context, blogIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(blogIDs))
	if len(blogIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		BlogID uint
		Total  int64
	}
	err := r.db.WithContext(ctx).Table(blogLikesTable).
		Select("blog_id, COUNT(*) AS total").
		Where("blog_id IN ?", blogIDs).
		Group("blog_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.BlogID] = row.Total
	}
	return counts, nil
}

// SlugExists implements domain.BlogRepository
func (r *BlogRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBBlog{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// List implements domain.BlogRepository, newest publish time first
func (r *BlogRepositoryImpl) List(ctx context.Context, filter domain.BlogFilter) ([]domain.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&DBBlog{})
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if !filter.IncludeSpecial {
		q = q.Where("special = ?", false)
	}
	if filter.CategoryID != 0 {
		q = q.Where("id IN (?)", r.db.Table(blogCategoriesTable).Select("blog_id").Where("category_id = ?", filter.CategoryID))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("title LIKE ? OR summary LIKE ? OR body LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var ids []uint
	if err := q.Order("publish DESC, id DESC").Offset(page.Offset()).Limit(page.Size).Pluck("id", &ids).Error; err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []domain.Blog{}, total, nil
	}

	var rows []DBBlog
	if err := r.preloaded(ctx).Where("id IN ?", ids).Order("publish DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	likes, err := r.likeCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	blogs := make([]domain.Blog, 0, len(rows))
	for i := range rows {
		blogs = append(blogs, *blogToDomain(&rows[i], likes[rows[i].ID]))
	}
	return blogs, total, nil
}

// ListByAuthor implements domain.BlogRepository
func (r *BlogRepositoryImpl) ListByAuthor(ctx context.Context, authorID uint) ([]domain.Blog, error) {
	var rows []DBBlog
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	blogs := make([]domain.Blog, 0, len(rows))
	for i := range rows {
		blogs = append(blogs, *blogToDomain(&rows[i], 0))
	}
	return blogs, nil
}

// Delete implements domain.BlogRepository
func (r *BlogRepositoryImpl) Delete(ctx context.Context, id, contentTypeID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_type_id = ? AND object_id = ?", contentTypeID, id).Delete(&DBComment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM blog_categories WHERE blog_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM blog_likes WHERE blog_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&DBBlog{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrBlogNotFound
		}
		return nil
	})
}

// IncrementVisits implements domain.BlogRepository
func (r *BlogRepositoryImpl) IncrementVisits(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBBlog{}).Where("id = ?", id).
		UpdateColumn("visits", gorm.Expr("visits + ?", 1)).Error
}

// ToggleLike implements domain.BlogRepository. It returns whether the user now
// likes the blog and the new like count.
func (r *BlogRepositoryImpl) ToggleLike(ctx context.Context, blogID, userID uint) (bool, int64, error) {
	var liked bool
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Table(blogLikesTable).Where("blog_id = ? AND user_id = ?", blogID, userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			if err := tx.Exec("DELETE FROM blog_likes WHERE blog_id = ? AND user_id = ?", blogID, userID).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Table(blogLikesTable).Create(map[string]interface{}{"blog_id": blogID, "user_id": userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Table(blogLikesTable).Where("blog_id = ?", blogID).Count(&total).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, total, nil
}

func blogToDB(b *domain.Blog) *DBBlog {
	return &DBBlog{
		ID:       b.ID,
		AuthorID: b.AuthorID,
		Title:    b.Title,
		Slug:     b.Slug,
		Body:     b.Body,
		Image:    b.Image,
		Summary:  b.Summary,
		Publish:  b.Publish,
		Special:  b.Special,
		Status:   string(b.Status),
		Visits:   b.Visits,
	}
}

func blogToDomain(row *DBBlog, likes int64) *domain.Blog {
	b := &domain.Blog{
		ID:         row.ID,
		AuthorID:   row.AuthorID,
		Title:      row.Title,
		Slug:       row.Slug,
		Body:       row.Body,
		Image:      row.Image,
		Summary:    row.Summary,
		Categories: categoriesToDomain(row.Categories),
		Publish:    row.Publish,
		Special:    row.Special,
		Status:     domain.BlogStatus(row.Status),
		Likes:      likes,
		Visits:     row.Visits,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Author.ID != 0 {
		b.Author = userToDomain(&row.Author)
	}
	return b
}
