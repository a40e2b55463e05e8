package property

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("property not found")
	ErrGeocoding   = errors.New("could not geocode address")
	ErrImageUpload = errors.New("image upload failed")
)
