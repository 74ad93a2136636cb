package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses publicly cacheable for maxAgeSeconds. Applied
// to /uploads: filenames are random UUIDs, so a long max-age plus immutable
// is safe — a changed image gets a new URL.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(maxAgeSeconds) + ", immutable"
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
