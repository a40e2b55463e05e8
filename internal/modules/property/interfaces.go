package property

import (
	"context"

	"renthub/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	Count(ctx context.Context, city string) (int64, error)
	List(ctx context.Context, city string, limit, offset int) ([]domain.Property, error)
	UpdateOwned(ctx context.Context, id, landlordID int64, updates map[string]any) (int64, error)
	DeleteOwned(ctx context.Context, id, landlordID int64) (int64, error)
}
