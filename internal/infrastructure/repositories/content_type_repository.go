package repositories

import (
	"context"
	"sync"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBContentType names a model that generic relations can point at
type DBContentType struct {
	ID       uint   `gorm:"primaryKey"`
	AppLabel string `gorm:"uniqueIndex:idx_content_type_model;size:100;not null"`
	Model    string `gorm:"uniqueIndex:idx_content_type_model;size:100;not null"`
}

// TableName returns the table name for GORM
func (DBContentType) TableName() string {
	return "content_types"
}

// ContentTypeRepositoryImpl implements domain.ContentTypeRepository with a
// process-local cache in front of the table
type ContentTypeRepositoryImpl struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[domain.ContentTypeKey]domain.ContentType
}

// NewContentTypeRepository creates a new content type repository
func NewContentTypeRepository(db *gorm.DB) domain.ContentTypeRepository {
	return &ContentTypeRepositoryImpl{
		db:    db,
		cache: make(map[domain.ContentTypeKey]domain.ContentType),
	}
}

// GetForModel implements domain.ContentTypeRepository, creating the row on first use
func (r *ContentTypeRepositoryImpl) GetForModel(ctx context.Context, key domain.ContentTypeKey) (*domain.ContentType, error) {
	r.mu.RLock()
	ct, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return &ct, nil
	}

	row := DBContentType{AppLabel: key.AppLabel, Model: key.Model}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "app_label"}, {Name: "model"}}, DoNothing: true}).
		Create(&DBContentType{AppLabel: key.AppLabel, Model: key.Model}).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("app_label = ? AND model = ?", key.AppLabel, key.Model).First(&row).Error; err != nil {
		return nil, err
	}

	ct = domain.ContentType{ID: row.ID, AppLabel: row.AppLabel, Model: row.Model}
	r.mu.Lock()
	r.cache[key] = ct
	r.mu.Unlock()
	return &ct, nil
}
