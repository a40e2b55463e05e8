package booking

import (
	"time"

	"renthub/internal/repository"
)

type CreateBookingRequest struct {
	Message   string    `json:"message"`
	RentStart time.Time `json:"rent_start" binding:"required"`
	RentEnd   time.Time `json:"rent_end" binding:"required"`
}

type RescheduleRequest struct {
	RentStart time.Time `json:"rent_start" binding:"required"`
	RentEnd   time.Time `json:"rent_end" binding:"required"`
}

type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

type BookingPage struct {
	Bookings    []repository.BookingListRow `json:"bookings"`
	Total       int64                       `json:"totalBookings"`
	TotalPages  int                         `json:"totalPages"`
	CurrentPage int                         `json:"currentPage"`
}
