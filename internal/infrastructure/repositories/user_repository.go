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

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID              uint      `gorm:"primaryKey"`
	Phone           string    `gorm:"uniqueIndex;size:12;not null"`
	FirstName       string    `gorm:"size:100"`
	LastName        string    `gorm:"size:100"`
	Author          bool      `gorm:"index;not null;default:false"`
	SpecialUser     time.Time `gorm:"not null"`
	IsStaff         bool      `gorm:"not null;default:false"`
	IsAdmin         bool      `gorm:"not null;default:false"`
	DateJoined      time.Time `gorm:"not null"`
	TwoStepPassword bool      `gorm:"not null;default:false"`
	PasswordHash    string    `gorm:"column:password;size:128"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

var userOrderings = map[string]string{
	"id":      "id ASC",
	"-id":     "id DESC",
	"author":  "author ASC, id ASC",
	"-author": "author DESC, id ASC",
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	now := time.Now()
	if dbUser.DateJoined.IsZero() {
		dbUser.DateJoined = now
	}
	if dbUser.SpecialUser.IsZero() {
		dbUser.SpecialUser = now
	}
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	*user = *userToDomain(dbUser)
	return nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// ExistsByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// GetOrCreateByPhone implements domain.UserRepository. The returned bool is true when the user was created.
func (r *UserRepositoryImpl) GetOrCreateByPhone(ctx context.Context, phone string) (*domain.User, bool, error) {
	now := time.Now()
	dbUser := &DBUser{Phone: phone, DateJoined: now, SpecialUser: now}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(dbUser)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return userToDomain(dbUser), true, nil
	}

	user, err := r.FindByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	result := r.db.WithContext(ctx).Model(&DBUser{ID: user.ID}).Select("*").Omit("id", "created_at").Updates(dbUser)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete implements domain.UserRepository. The user's likes and comments, replies
// included, go with it. Authored blogs must be removed first.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blogs int64
		if err := tx.Model(&DBBlog{}).Where("author_id = ?", id).Count(&blogs).Error; err != nil {
			return err
		}
		if blogs > 0 {
			return domain.ErrUserHasBlogs
		}
		if err := tx.Exec("DELETE FROM blog_likes WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		var comments []uint
		if err := tx.Model(&DBComment{}).Where("user_id = ?", id).Pluck("id", &comments).Error; err != nil {
			return err
		}
		if err := deleteCommentTree(tx, comments); err != nil {
			return err
		}

		result := tx.Delete(&DBUser{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// List implements domain.UserRepository
func (r *UserRepositoryImpl) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&DBUser{})
	if filter.Author != nil {
		q = q.Where("author = ?", *filter.Author)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("phone LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := userOrderings[filter.Ordering]
	if !ok {
		order = userOrderings["id"]
	}
	page := filter.Page.Normalize()

	var rows []DBUser
	if err := q.Order(order).Offset(page.Offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *userToDomain(&rows[i]))
	}
	return users, total, nil
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:              user.ID,
		Phone:           user.Phone,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Author:          user.Author,
		SpecialUser:     user.SpecialUser,
		IsStaff:         user.IsStaff,
		IsAdmin:         user.IsAdmin,
		DateJoined:      user.DateJoined,
		TwoStepPassword: user.TwoStepPassword,
		PasswordHash:    user.PasswordHash,
	}
}

func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:              dbUser.ID,
		Phone:           dbUser.Phone,
		FirstName:       dbUser.FirstName,
		LastName:        dbUser.LastName,
		Author:          dbUser.Author,
		SpecialUser:     dbUser.SpecialUser,
		IsStaff:         dbUser.IsStaff,
		IsAdmin:         dbUser.IsAdmin,
		DateJoined:      dbUser.DateJoined,
		TwoStepPassword: dbUser.TwoStepPassword,
		PasswordHash:    dbUser.PasswordHash,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
	}
}
