package auth

import "errors"

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountLocked           = errors.New("account temporarily locked")
	ErrInvalidRole             = errors.New("role must be renter or landlord")
	ErrInvalidVerificationCode = errors.New("invalid or expired verification code")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrRefreshTokenReused      = errors.New("refresh token reuse detected")
)
