package auth

import (
	"context"
	"time"

	"renthub/internal/domain"
	"renthub/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	RecordLoginFailure(ctx context.Context, userID int64, attempts int, lockedUntil *time.Time) error
	ResetLoginFailures(ctx context.Context, userID int64) error
	MarkEmailVerified(ctx context.Context, userID int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *repository.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*repository.RefreshToken, error)
	MarkRotated(ctx context.Context, id int64, now time.Time) error
	MarkReuse(ctx context.Context, id int64, familyID string, now time.Time) error
	Revoke(ctx context.Context, id int64, now time.Time) error
}

type VerificationRepository interface {
	Create(ctx context.Context, c *repository.EmailVerificationCode) error
	GetActive(ctx context.Context, userID int64, now time.Time) (*repository.EmailVerificationCode, error)
	MarkUsed(ctx context.Context, id int64, now time.Time) error
}
