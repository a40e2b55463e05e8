package property

import (
	"errors"
	"net/http"
	"strconv"

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

// Listing and detail are public; everything that mutates is landlord-only.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	props := rg.Group("/properties")
	{
		props.GET("", h.List)
		props.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	props := rg.Group("/properties", middleware.LandlordOnly())
	{
		props.POST("", h.Create)
		props.PUT("/:id", h.Update)
		props.PUT("/:id/availability", h.SetAvailability)
		props.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Property created", gin.H{"property": p})
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.List(c.Request.Context(), ListQuery{
		City:  c.Query("city"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	message := "Properties retrieved"
	if len(result.Properties) == 0 {
		message = "No properties found"
	}
	response.Success(c, http.StatusOK, message, gin.H{
		"properties":      result.Properties,
		"totalProperties": result.Total,
		"totalPages":      result.TotalPages,
		"currentPage":     result.CurrentPage,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property retrieved", gin.H{"property": p})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property updated", gin.H{"property": p})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_available is required")
		return
	}

	p, err := h.service.SetAvailability(c.Request.Context(), c.GetInt64("user_id"), id, *req.IsAvailable)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Availability updated", gin.H{"property": p})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Property deleted", gin.H{})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrGeocoding):
		response.Error(c, http.StatusBadRequest, "GEOCODING_FAILED", err.Error())
	case errors.Is(err, ErrImageUpload):
		response.Error(c, http.StatusBadRequest, "IMAGE_UPLOAD_FAILED", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func propertyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return 0, false
	}
	return id, true
}
