package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the authenticated caller's identity, asserted by the
// gateway in front of this service. Authentication itself is out of scope
// here; the header is trusted the way an upstream-verified JWT subject would be.
const userIDHeader = "X-User-ID"

// IdentityMiddleware extracts the caller identity from the trusted gateway
// header and stores it in the request context. Requests without an identity
// are rejected: every payroll operation needs a creator or approver on record.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
