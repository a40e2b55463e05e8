package domain

import "time"

type UserRole string

const (
	RoleRenter   UserRole = "renter"
	RoleLandlord UserRole = "landlord"
)

func ValidRole(r string) bool {
	switch UserRole(r) {
	case RoleRenter, RoleLandlord:
		return true
	}
	return false
}

type User struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email" validate:"required,email"`
	PasswordHash        string     `json:"-"`
	Role                UserRole   `json:"role"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone,omitempty"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	EmailVerified       bool       `json:"email_verified"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsLocked reports whether the account is locked out at the given moment.
// The lockout is a stored deadline, not a flag, so no reset write is needed
// once the window passes.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
