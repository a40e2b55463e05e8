package property

import "renthub/internal/domain"

type CreatePropertyRequest struct {
	Title        string   `json:"title" binding:"required" validate:"required,min=3"`
	Description  string   `json:"description"`
	Address      string   `json:"address" binding:"required" validate:"required"`
	City         string   `json:"city" validate:"required"`
	Country      string   `json:"country"`
	NightlyPrice float64  `json:"nightly_price" validate:"gte=0"`
	Currency     string   `json:"currency"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    float64  `json:"bathrooms" validate:"gte=0"`
	Images       []string `json:"images"` // base64 payloads, uploaded on create
}

type UpdatePropertyRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	NightlyPrice *float64 `json:"nightly_price"`
	Currency     *string  `json:"currency"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type ListQuery struct {
	City  string
	Page  int
	Limit int
}

type PropertyPage struct {
	Properties  []domain.Property `json:"properties"`
	Total       int64             `json:"totalProperties"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}
