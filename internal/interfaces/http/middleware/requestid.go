// Package middleware holds the gin middleware chain shared by all engine
// HTTP routes.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the inbound/outbound correlation header.
const RequestIDHeader = "X-Request-ID"

// contextKey under which the request id is stored in the gin context.
const requestIDKey = "request_id"

// RequestID assigns each request a correlation id, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
