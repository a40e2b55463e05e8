package booking

import (
	"context"
	"time"

	"renthub/internal/domain"
	"renthub/internal/repository"
)

// BookingRepository defines the persistence operations the workflow engine
// needs. Every state mutation is a conditional update: the expected current
// status travels inside the write.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetForTenant(ctx context.Context, id, tenantID int64) (*domain.Booking, error)
	GetForLandlord(ctx context.Context, id, landlordID int64) (*domain.Booking, error)
	CountForTenant(ctx context.Context, tenantID int64, status string) (int64, error)
	CountForLandlord(ctx context.Context, landlordID int64, status string) (int64, error)
	ListForTenant(ctx context.Context, tenantID int64, status string, limit, offset int) ([]repository.BookingListRow, error)
	ListForLandlord(ctx context.Context, landlordID int64, status string, limit, offset int) ([]repository.BookingListRow, error)
	TransitionForTenant(ctx context.Context, id, tenantID int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
	TransitionForLandlord(ctx context.Context, id, landlordID int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
	UpdateDatesForTenant(ctx context.Context, id, tenantID int64, from []domain.BookingStatus, start, end time.Time) (bool, error)
	MarkPaidForLandlord(ctx context.Context, id, landlordID int64) (bool, error)
}

// PropertyReader resolves the referenced property at creation time. The
// owner is snapshotted onto the booking and never re-resolved.
type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// Notifier delivers best-effort booking notifications; failures never fail
// the workflow operation.
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingDecided(ctx context.Context, b *domain.Booking) error
}
