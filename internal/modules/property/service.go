package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"renthub/internal/blob"
	"renthub/internal/domain"
	"renthub/internal/geo"
	"renthub/internal/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Service struct {
	properties PropertyRepository
	geocoder   geo.Geocoder
	blobs      blob.Store
}

func NewService(properties PropertyRepository, geocoder geo.Geocoder, blobs blob.Store) *Service {
	return &Service{
		properties: properties,
		geocoder:   geocoder,
		blobs:      blobs,
	}
}

// Create geocodes the address and uploads images before persisting. A
// geocoding failure is fatal for the request; the property is never saved
// without coordinates.
func (s *Service) Create(ctx context.Context, landlordID int64, req CreatePropertyRequest) (*domain.Property, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, joinFieldErrors(fields))
	}

	loc, err := s.geocoder.Resolve(ctx, fullAddress(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocoding, err)
	}

	urls := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		url, err := s.blobs.UploadBase64(ctx, img, uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		urls = append(urls, url)
	}

	p := &domain.Property{
		LandlordID:   landlordID,
		Title:        req.Title,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		Lat:          loc.Lat,
		Lng:          loc.Lng,
		NightlyPrice: req.NightlyPrice,
		Currency:     req.Currency,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Images:       urls,
		IsAvailable:  true,
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (*PropertyPage, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	total, err := s.properties.Count(ctx, q.City)
	if err != nil {
		return nil, err
	}

	rows, err := s.properties.List(ctx, q.City, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &PropertyPage{
		Properties:  rows,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// Update applies the provided fields only when landlordID owns the
// property. A miss answers not-found, never forbidden.
func (s *Service) Update(ctx context.Context, landlordID, id int64, req UpdatePropertyRequest) (*domain.Property, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.NightlyPrice != nil {
		if *req.NightlyPrice < 0 {
			return nil, fmt.Errorf("%w: nightly price must not be negative", ErrValidation)
		}
		updates["nightly_price"] = *req.NightlyPrice
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Bedrooms != nil {
		updates["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		updates["bathrooms"] = *req.Bathrooms
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	n, err := s.properties.UpdateOwned(ctx, id, landlordID, updates)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.properties.GetByID(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, landlordID, id int64, available bool) (*domain.Property, error) {
	n, err := s.properties.UpdateOwned(ctx, id, landlordID, map[string]any{"is_available": available})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.properties.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, landlordID, id int64) error {
	n, err := s.properties.DeleteOwned(ctx, id, landlordID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func fullAddress(req CreatePropertyRequest) string {
	addr := req.Address
	if req.City != "" {
		addr += ", " + req.City
	}
	if req.Country != "" {
		addr += ", " + req.Country
	}
	return addr
}

func joinFieldErrors(fields map[string]string) string {
	raw, _ := json.Marshal(fields)
	return string(raw)
}
