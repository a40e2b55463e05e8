package repository

import (
	"context"
	"encoding/json"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

type propertyModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	LandlordID   int64     `gorm:"column:landlord_id;index"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description;type:text"`
	Address      string    `gorm:"column:address"`
	City         string    `gorm:"column:city;index"`
	Country      string    `gorm:"column:country"`
	Lat          float64   `gorm:"column:lat"`
	Lng          float64   `gorm:"column:lng"`
	NightlyPrice float64   `gorm:"column:nightly_price"`
	Currency     string    `gorm:"column:currency"`
	Bedrooms     int       `gorm:"column:bedrooms"`
	Bathrooms    float64   `gorm:"column:bathrooms"`
	Images       string    `gorm:"column:images;type:text"`
	IsAvailable  bool      `gorm:"column:is_available"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

func toDomainProperty(m propertyModel) *domain.Property {
	var images []string
	if m.Images != "" {
		_ = json.Unmarshal([]byte(m.Images), &images)
	}

	return &domain.Property{
		ID:           m.ID,
		LandlordID:   m.LandlordID,
		Title:        m.Title,
		Description:  m.Description,
		Address:      m.Address,
		City:         m.City,
		Country:      m.Country,
		Lat:          m.Lat,
		Lng:          m.Lng,
		NightlyPrice: m.NightlyPrice,
		Currency:     m.Currency,
		Bedrooms:     m.Bedrooms,
		Bathrooms:    m.Bathrooms,
		Images:       images,
		IsAvailable:  m.IsAvailable,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toPropertyModel(p *domain.Property) propertyModel {
	var images string
	if len(p.Images) > 0 {
		raw, _ := json.Marshal(p.Images)
		images = string(raw)
	}

	return propertyModel{
		ID:           p.ID,
		LandlordID:   p.LandlordID,
		Title:        p.Title,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		Country:      p.Country,
		Lat:          p.Lat,
		Lng:          p.Lng,
		NightlyPrice: p.NightlyPrice,
		Currency:     p.Currency,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Images:       images,
		IsAvailable:  p.IsAvailable,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	m := toPropertyModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProperty(m)
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var m propertyModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProperty(m), nil
}

func (r *PropertyRepository) Count(ctx context.Context, city string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&propertyModel{})
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *PropertyRepository) List(ctx context.Context, city string, limit, offset int) ([]domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&propertyModel{})
	if city != "" {
		q = q.Where("city = ?", city)
	}

	var rows []propertyModel
	tx := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Property, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProperty(m))
	}
	return out, nil
}

// UpdateOwned applies updates only when the property belongs to landlordID.
// The returned row count lets the service answer 404 without a prior read.
func (r *PropertyRepository) UpdateOwned(ctx context.Context, id, landlordID int64, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&propertyModel{}).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		Updates(updates)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (r *PropertyRepository) DeleteOwned(ctx context.Context, id, landlordID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		Delete(&propertyModel{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
