package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is one of the four booking states.
// Listing endpoints use it to silently drop unrecognized status filters.
func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave the state.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingRejected || s == BookingCancelled
}

// Booking ties a tenant's rental request to a property. LandlordID is a
// snapshot of the property owner taken at creation time; it is never
// re-resolved, so bookings keep their original landlord even if the
// property changes hands later.
type Booking struct {
	ID         int64         `json:"id"`
	PropertyID int64         `json:"property_id"`
	TenantID   int64         `json:"tenant_id"`
	LandlordID int64         `json:"landlord_id"`
	Message    string        `json:"message,omitempty"`
	Status     BookingStatus `json:"status"`
	RentStart  time.Time     `json:"rent_start"`
	RentEnd    time.Time     `json:"rent_end"`
	IsPaid     bool          `json:"is_paid"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
