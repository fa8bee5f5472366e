package repositories

import (
	"context"
	"errors"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/gorm"
)

// DBCategory is the database model for Category
type DBCategory struct {
	ID       uint        `gorm:"primaryKey"`
	ParentID *uint       `gorm:"index"`
	Parent   *DBCategory `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Title    string      `gorm:"size:200;not null"`
	Slug     string      `gorm:"uniqueIndex;size:100;not null"`
	Status   bool        `gorm:"not null;default:true"`
	Position int         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DBCategory) TableName() string {
	return "categories"
}

// CategoryRepositoryImpl implements domain.CategoryRepository using GORM
type CategoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

// Create implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *domain.Category) error {
	row := categoryToDB(category)
	if err := r.db.WithContext(ctx).Omit("Parent").Create(row).Error; err != nil {
		return err
	}
	category.ID = row.ID
	return nil
}

// Update implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *domain.Category) error {
	row := categoryToDB(category)
	result := r.db.WithContext(ctx).Model(&DBCategory{ID: category.ID}).
		Select("parent_id", "title", "slug", "status", "position").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// FindByID implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var row DBCategory
	if err := r.db.WithContext(ctx).Preload("Parent").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return categoryToDomain(&row), nil
}

// FindByIDs implements domain.CategoryRepository. Missing ids are skipped.
func (r *CategoryRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}
	var rows []DBCategory
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("position ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return categoriesToDomain(rows), nil
}

// List implements domain.CategoryRepository
func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]domain.Category, error) {
	var rows []DBCategory
	if err := r.db.WithContext(ctx).Preload("Parent").Order("position ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return categoriesToDomain(rows), nil
}

// Delete implements domain.CategoryRepository. Children are detached and blog links removed.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DBCategory{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM blog_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&DBCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrCategoryNotFound
		}
		return nil
	})
}

func categoryToDB(c *domain.Category) *DBCategory {
	return &DBCategory{
		ID:       c.ID,
		ParentID: c.ParentID,
		Title:    c.Title,
		Slug:     c.Slug,
		Status:   c.Status,
		Position: c.Position,
	}
}

func categoryToDomain(row *DBCategory) *domain.Category {
	c := &domain.Category{
		ID:       row.ID,
		ParentID: row.ParentID,
		Title:    row.Title,
		Slug:     row.Slug,
		Status:   row.Status,
		Position: row.Position,
	}
	if row.Parent != nil {
		c.Parent = categoryToDomain(row.Parent)
	}
	return c
}

func categoriesToDomain(rows []DBCategory) []domain.Category {
	out := make([]domain.Category, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryToDomain(&rows[i]))
	}
	return out
}
