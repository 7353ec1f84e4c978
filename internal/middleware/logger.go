package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id between caller, access log and
// error responses.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's correlation id or mints one, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request whose response status is at least
// minStatus. A minStatus of 0 records every request.
func AccessLog(minStatus int) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status < minStatus {
			return
		}
		caller := "anonymous"
		if id, err := GetUserID(c); err == nil {
			caller = id.String()
		}
		log.Printf("access: [%s] %s %s -> %d in %s user=%s",
			c.GetString("request_id"), c.Request.Method, c.Request.URL.Path,
			status, time.Since(began).Round(time.Microsecond), caller)
	}
}

// Recovery turns a handler panic into a 500 in the standard error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("access: [%s] panic serving %s %s: %v",
			c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL_ERROR", "message": "an internal error occurred"},
		})
	})
}
