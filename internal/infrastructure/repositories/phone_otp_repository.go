package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBPhoneOTP is the per-phone OTP record
type DBPhoneOTP struct {
	ID        uint   `gorm:"primaryKey"`
	Phone     string `gorm:"uniqueIndex;size:12;not null"`
	Code      string `gorm:"column:otp;index;size:6"`
	Count     int    `gorm:"not null;default:0"`
	Verified  bool   `gorm:"column:verify;not null;default:false"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBPhoneOTP) TableName() string {
	return "phone_otps"
}

// PhoneOTPRepositoryImpl implements domain.PhoneOTPRepository using GORM
type PhoneOTPRepositoryImpl struct {
	db *gorm.DB
}

// NewPhoneOTPRepository creates a new phone OTP repository
func NewPhoneOTPRepository(db *gorm.DB) domain.PhoneOTPRepository {
	return &PhoneOTPRepositoryImpl{db: db}
}

// RecordSend implements domain.PhoneOTPRepository. The count is incremented in SQL
// so concurrent requests for one phone are all counted.
func (r *PhoneOTPRepositoryImpl) RecordSend(ctx context.Context, phone, code string) (*domain.PhoneOTP, error) {
	var row DBPhoneOTP
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
			Create(&DBPhoneOTP{Phone: phone}).Error; err != nil {
			return err
		}
		if err := tx.Model(&DBPhoneOTP{}).Where("phone = ?", phone).Updates(map[string]interface{}{
			"otp":        code,
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Where("phone = ?", phone).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return phoneOTPToDomain(&row), nil
}

// FindByCode implements domain.PhoneOTPRepository
func (r *PhoneOTPRepositoryImpl) FindByCode(ctx context.Context, code, phone string) (*domain.PhoneOTP, error) {
	q := r.db.WithContext(ctx).Where("otp = ?", code)
	if phone != "" {
		q = q.Where("phone = ?", phone)
	}

	var row DBPhoneOTP
	if err := q.Order("updated_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return phoneOTPToDomain(&row), nil
}

// MarkVerified implements domain.PhoneOTPRepository
func (r *PhoneOTPRepositoryImpl) MarkVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBPhoneOTP{}).Where("id = ?", id).Updates(map[string]interface{}{
		"verify": true,
		"count":  0,
	}).Error
}

// ResetCounts implements domain.PhoneOTPRepository
func (r *PhoneOTPRepositoryImpl) ResetCounts(ctx context.Context, notUpdatedSince time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&DBPhoneOTP{}).
		Where("count > 0 AND updated_at < ?", notUpdatedSince).
		UpdateColumn("count", 0)
	return result.RowsAffected, result.Error
}

func phoneOTPToDomain(row *DBPhoneOTP) *domain.PhoneOTP {
	return &domain.PhoneOTP{
		ID:        row.ID,
		Phone:     row.Phone,
		Code:      row.Code,
		Count:     row.Count,
		Verified:  row.Verified,
		UpdatedAt: row.UpdatedAt,
	}
}
