package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

type RefreshToken struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	UserID          int64      `gorm:"column:user_id;index"`
	TokenHash       string     `gorm:"column:token_hash;uniqueIndex"`
	JTI             string     `gorm:"column:jti"`
	FamilyID        string     `gorm:"column:family_id;index"`
	RotatedFrom     *int64     `gorm:"column:rotated_from"`
	ExpiresAt       time.Time  `gorm:"column:expires_at"`
	UsedAt          *time.Time `gorm:"column:used_at"`
	RevokedAt       *time.Time `gorm:"column:revoked_at"`
	ReuseDetectedAt *time.Time `gorm:"column:reuse_detected_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (r *RefreshTokenRepository) Create(ctx context.Context, t *RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	var t RefreshToken
	tx := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &t, nil
}

// MarkRotated retires a token after a successful refresh.
func (r *RefreshTokenRepository) MarkRotated(ctx context.Context, id int64, now time.Time) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).Where("id = ?", id).Updates(map[string]any{
		"used_at":    now,
		"revoked_at": now,
	}).Error
}

// MarkReuse flags a replayed token and revokes its whole family.
func (r *RefreshTokenRepository) MarkReuse(ctx context.Context, id int64, familyID string, now time.Time) error {
	if err := r.db.WithContext(ctx).Model(&RefreshToken{}).Where("id = ?", id).
		Update("reuse_detected_at", now).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("family_id = ? AND revoked_at IS NULL", familyID).
		Update("revoked_at", now).Error
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64, now time.Time) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).Where("id = ?", id).
		Update("revoked_at", now).Error
}

// DeleteStale removes expired and long-revoked rows; used by the CLI cleanup.
func (r *RefreshTokenRepository) DeleteStale(ctx context.Context, now time.Time, revokedBefore time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND created_at < ?)", now, revokedBefore).
		Delete(&RefreshToken{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
