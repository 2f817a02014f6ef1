package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf(
			"request method=%s path=%s status=%d client_ip=%s latency=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
		)
	}
}

// Recovery converts panics into a generic 500 response and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf(
					"panic method=%s path=%s client_ip=%s error=%v stack=%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					recovered,
					string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Something went wrong",
				})
			}
		}()

		c.Next()
	}
}
