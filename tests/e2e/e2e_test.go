package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/database"
	"renthub/internal/geo"
	"renthub/internal/middleware"
	"renthub/internal/modules/auth"
	"renthub/internal/modules/booking"
	"renthub/internal/modules/property"
	jwtsvc "renthub/internal/pkg/jwt"
	"renthub/internal/repository"
)

type fixedGeocoder struct{}

func (fixedGeocoder) Resolve(ctx context.Context, address string) (geo.LatLng, error) {
	return geo.LatLng{Lat: 43.238949, Lng: 76.889709}, nil
}

type fakeBlobStore struct{}

func (fakeBlobStore) UploadBase64(ctx context.Context, base64Image, publicID string) (string, error) {
	return "https://cdn.test/" + publicID + ".jpg", nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	// a named shared-cache DB keeps every pooled connection on the same
	// in-memory database; a bare :memory: DSN would give each its own
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.AutoMigrate(repository.Models()...))

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	codeRepo := repository.NewEmailVerificationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authService := auth.NewService(userRepo, tokenRepo, codeRepo, jwtService, nil,
		"code-pepper", 15*time.Minute, "token-pepper", 30*24*time.Hour)
	authHandler := auth.NewHandler(authService)

	propertyService := property.NewService(propertyRepo, fixedGeocoder{}, fakeBlobStore{})
	propertyHandler := property.NewHandler(propertyService)

	bookingService := booking.NewService(bookingRepo, propertyRepo, nil)
	bookingHandler := booking.NewHandler(bookingService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	propertyHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		propertyHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func registerUser(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
		"name":     "Test " + role,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", email, w.Body.String())

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createProperty(t *testing.T, r *gin.Engine, landlordToken string) float64 {
	t.Helper()

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/properties", landlordToken, gin.H{
		"title":         "Sunny loft near the river",
		"address":       "12 Riverside Ave",
		"city":          "Almaty",
		"country":       "Kazakhstan",
		"nightly_price": 18000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	prop := body["property"].(map[string]any)
	return prop["id"].(float64)
}

func bookingWindow() (string, string) {
	start := time.Now().Add(14 * 24 * time.Hour).UTC()
	return start.Format(time.RFC3339), start.Add(5 * 24 * time.Hour).Format(time.RFC3339)
}

func TestBookingLifecycle(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	propID := createProperty(t, r, landlordToken)

	// tenant requests a booking
	start, end := bookingWindow()
	w, body := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
		"message":    "Work trip",
		"rent_start": start,
		"rent_end":   end,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := body["booking"].(map[string]any)
	assert.Equal(t, "pending", created["status"])
	bookingID := created["id"].(float64)

	// landlord sees it in the incoming list
	w, body = doJSON(t, r, http.MethodGet, "/api/v1/bookings/landlord", landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["totalBookings"])

	// landlord approves
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/landlord/%.0f/approve", bookingID), landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", body["booking"].(map[string]any)["status"])

	// approving twice conflicts
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/landlord/%.0f/approve", bookingID), landlordToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body["code"])

	// tenant cannot cancel an approved booking
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/me/%.0f/cancel", bookingID), tenantToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body["code"])

	// but may still reschedule it
	start2, end2 := bookingWindow()
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/me/%.0f/reschedule", bookingID), tenantToken, gin.H{
		"rent_start": start2,
		"rent_end":   end2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", body["booking"].(map[string]any)["status"])

	// landlord records payment
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/landlord/%.0f/paid", bookingID), landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["booking"].(map[string]any)["is_paid"])
}

func TestBookingRejectFlow(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	propID := createProperty(t, r, landlordToken)

	start, end := bookingWindow()
	w, body := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
		"rent_start": start,
		"rent_end":   end,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := body["booking"].(map[string]any)["id"].(float64)

	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/landlord/%.0f/reject", bookingID), landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rejected", body["booking"].(map[string]any)["status"])

	// rejected is terminal: reschedule conflicts
	start2, end2 := bookingWindow()
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/me/%.0f/reschedule", bookingID), tenantToken, gin.H{
		"rent_start": start2,
		"rent_end":   end2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestBookingDateValidation(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	propID := createProperty(t, r, landlordToken)

	// start in the past
	w, body := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
		"rent_start": time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339),
		"rent_end":   time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	// end before start
	future := time.Now().Add(14 * 24 * time.Hour).UTC()
	w, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
		"rent_start": future.Format(time.RFC3339),
		"rent_end":   future.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestBookingOwnershipIsolation(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	otherTenant := registerUser(t, r, "other@test.dev", "renter")
	otherLandlord := registerUser(t, r, "landlord2@test.dev", "landlord")
	propID := createProperty(t, r, landlordToken)

	start, end := bookingWindow()
	w, body := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
		"rent_start": start,
		"rent_end":   end,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := body["booking"].(map[string]any)["id"].(float64)

	// another tenant cannot see or cancel it; the response is indistinguishable
	// from a booking that does not exist
	w, body = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/me/%.0f", bookingID), otherTenant, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/me/%.0f/cancel", bookingID), otherTenant, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// a different landlord cannot approve it
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/bookings/landlord/%.0f/approve", bookingID), otherLandlord, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// the real tenant still sees it
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/me/%.0f", bookingID), tenantToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleGates(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	propID := createProperty(t, r, landlordToken)

	// a renter cannot create properties
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/properties", tenantToken, gin.H{
		"title":   "Nope",
		"address": "1 Nowhere",
		"city":    "Almaty",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	// a landlord cannot request bookings
	start, end := bookingWindow()
	w, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), landlordToken, gin.H{
		"rent_start": start,
		"rent_end":   end,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	// unauthenticated booking requests are rejected outright
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/bookings/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingPaginationAndFilter(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	tenantToken := registerUser(t, r, "tenant@test.dev", "renter")
	propID := createProperty(t, r, landlordToken)

	for i := 0; i < 12; i++ {
		start := time.Now().Add(time.Duration(10+i) * 24 * time.Hour).UTC()
		w, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%.0f", propID), tenantToken, gin.H{
			"rent_start": start.Format(time.RFC3339),
			"rent_end":   start.Add(48 * time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// default limit is 10
	w, body := doJSON(t, r, http.MethodGet, "/api/v1/bookings/me", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), body["totalBookings"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Len(t, body["bookings"].([]any), 10)

	// second page holds the remainder
	w, body = doJSON(t, r, http.MethodGet, "/api/v1/bookings/me?page=2", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["bookings"].([]any), 2)
	assert.Equal(t, float64(2), body["currentPage"])

	// a page past the data is empty, not an error
	w, body = doJSON(t, r, http.MethodGet, "/api/v1/bookings/me?page=5", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["bookings"])
	assert.Equal(t, "No bookings found", body["message"])

	// status filter narrows the landlord view
	w, body = doJSON(t, r, http.MethodGet, "/api/v1/bookings/landlord?status=approved", landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["totalBookings"])

	// unrecognized status values are ignored rather than rejected
	w, body = doJSON(t, r, http.MethodGet, "/api/v1/bookings/landlord?status=bogus", landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), body["totalBookings"])
}

func TestAuthLifecycle(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "user@test.dev", "renter")

	// duplicate registration conflicts
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "user@test.dev",
		"password": "password123",
		"name":     "Dup",
		"role":     "renter",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])

	// login and inspect the profile
	w, body = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "user@test.dev",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)
	refresh := body["refresh_token"].(string)

	w, body = doJSON(t, r, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@test.dev", body["user"].(map[string]any)["email"])

	// refresh rotates the token; replaying the old one is reuse
	w, body = doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEqual(t, refresh, body["refresh_token"])

	w, body = doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", body["code"])
}

func TestLoginLockout(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "locked@test.dev", "renter")

	for i := 0; i < 4; i++ {
		w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "locked@test.dev",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	}

	// fifth failure trips the lockout
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "locked@test.dev",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", body["code"])

	// even the right password is refused while locked
	w, body = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "locked@test.dev",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", body["code"])
}

func TestPropertyLifecycle(t *testing.T) {
	r := setupRouter(t)

	landlordToken := registerUser(t, r, "landlord@test.dev", "landlord")
	otherLandlord := registerUser(t, r, "landlord2@test.dev", "landlord")
	propID := createProperty(t, r, landlordToken)

	// properties are publicly listable
	w, body := doJSON(t, r, http.MethodGet, "/api/v1/properties?city=Almaty", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["totalProperties"])

	// only the owner can update; a stranger gets not-found
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/properties/%.0f", propID), otherLandlord, gin.H{
		"nightly_price": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/properties/%.0f", propID), landlordToken, gin.H{
		"nightly_price": 20000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(20000), body["property"].(map[string]any)["nightly_price"])

	// owner can toggle availability and delete
	w, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/properties/%.0f/availability", propID), landlordToken, gin.H{
		"is_available": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["property"].(map[string]any)["is_available"])

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/properties/%.0f", propID), landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/properties/%.0f", propID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
