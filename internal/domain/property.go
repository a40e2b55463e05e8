package domain

import "time"

type Property struct {
	ID           int64     `json:"id"`
	LandlordID   int64     `json:"landlord_id"`
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Address      string    `json:"address" validate:"required"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	NightlyPrice float64   `json:"nightly_price" validate:"gte=0"`
	Currency     string    `json:"currency"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	Images       []string  `json:"images"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
