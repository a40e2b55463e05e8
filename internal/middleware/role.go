package middleware

import (
	"net/http"

	"renthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has the specified role.
// Ownership is still re-checked inside the services; the role gate alone
// never grants access to another user's bookings.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LandlordOnly gates property management and the landlord booking views.
func LandlordOnly() gin.HandlerFunc {
	return RequireRole("landlord")
}

// RenterOnly gates booking creation and the tenant booking views.
func RenterOnly() gin.HandlerFunc {
	return RequireRole("renter")
}
