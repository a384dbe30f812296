package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize caps request bodies at 1 MiB. Acquisition payloads are
// small; reception batches are bounded by order size.
const DefaultMaxBodySize int64 = 1 << 20

// BodyLimit rejects requests whose body exceeds the default size cap
func BodyLimit() gin.HandlerFunc {
	return BodyLimitWithSize(DefaultMaxBodySize)
}

// BodyLimitWithSize rejects requests whose body exceeds the given size
func BodyLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_BAD_REQUEST",
					"message": "Request body too large",
				},
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
