package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The clients consume flat bodies: {"error": ...} on failure and
// {"message": ...} for confirmations.

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"fields": fields,
	})
}

func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}
