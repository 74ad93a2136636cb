package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key the request ID is stored under.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an ID, honoring a client-sent
// X-Request-ID so IDs correlate across the frontend and this API. The ID is
// echoed back in the response header and stamped into every envelope.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
