package response

import "github.com/gin-gonic/gin"

// All responses share the envelope {success, message, ...payload}. Extra
// payload fields are flattened into the top level so clients read
// c.bookings / c.totalPages directly.

func Success(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
