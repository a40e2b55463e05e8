package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"renthub/internal/domain"
	"renthub/internal/middleware"
	"renthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the tenant and landlord views under /bookings.
// Role gating happens here at the boundary; ownership is re-checked inside
// the service for every operation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")

	tenant := bookings.Group("", middleware.RenterOnly())
	{
		tenant.POST("/:propertyId", h.Create)
		tenant.GET("/me", h.ListMine)
		tenant.GET("/me/:id", h.GetMine)
		tenant.PUT("/me/:id/cancel", h.Cancel)
		tenant.PUT("/me/:id/reschedule", h.Reschedule)
	}

	landlord := bookings.Group("/landlord", middleware.LandlordOnly())
	{
		landlord.GET("", h.ListForLandlord)
		landlord.GET("/:id", h.GetForLandlord)
		landlord.PUT("/:id/approve", h.Approve)
		landlord.PUT("/:id/reject", h.Reject)
		landlord.PUT("/:id/paid", h.MarkPaid)
	}
}

func (h *Handler) Create(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), propertyID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Booking created", gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	page, err := h.service.ListForTenant(c.Request.Context(), c.GetInt64("user_id"), listQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	writePage(c, page)
}

func (h *Handler) ListForLandlord(c *gin.Context) {
	page, err := h.service.ListForLandlord(c.Request.Context(), c.GetInt64("user_id"), listQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	writePage(c, page)
}

func (h *Handler) GetMine(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetForTenant(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking retrieved", gin.H{"booking": b})
}

func (h *Handler) GetForLandlord(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetForLandlord(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking retrieved", gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking cancelled", gin.H{"booking": b})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking rescheduled", gin.H{"booking": b})
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve, "Booking approved")
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject, "Booking rejected")
}

func (h *Handler) decide(c *gin.Context, op func(ctx context.Context, landlordID, bookingID int64) (*domain.Booking, error), message string) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := op(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, message, gin.H{"booking": b})
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.MarkPaid(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking marked as paid", gin.H{"booking": b})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrPropertyNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func listQuery(c *gin.Context) ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return ListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
}

func writePage(c *gin.Context, page *BookingPage) {
	message := "Bookings retrieved"
	if len(page.Bookings) == 0 {
		message = "No bookings found"
	}
	response.Success(c, http.StatusOK, message, gin.H{
		"bookings":      page.Bookings,
		"totalBookings": page.Total,
		"totalPages":    page.TotalPages,
		"currentPage":   page.CurrentPage,
	})
}
