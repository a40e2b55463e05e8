package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type EmailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

type EmailVerificationCode struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;index"`
	CodeHash  string     `gorm:"column:code_hash"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (EmailVerificationCode) TableName() string { return "email_verification_codes" }

func (r *EmailVerificationRepository) Create(ctx context.Context, c *EmailVerificationCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetActive returns the most recent unused, unexpired code for the user.
func (r *EmailVerificationRepository) GetActive(ctx context.Context, userID int64, now time.Time) (*EmailVerificationCode, error) {
	var c EmailVerificationCode
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *EmailVerificationRepository) MarkUsed(ctx context.Context, id int64, now time.Time) error {
	return r.db.WithContext(ctx).Model(&EmailVerificationCode{}).Where("id = ?", id).
		Update("used_at", now).Error
}

func (r *EmailVerificationRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&EmailVerificationCode{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
