package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/firmledger/firmledger/internal/types"
)

// RequestContextMiddleware seeds the request context with a request id and
// the tenant and environment scope taken from headers. Missing headers fall
// back to the shared defaults so a single-tenant deployment needs no setup.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requestID := c.GetHeader(types.HeaderRequestID)
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
		}
		ctx = types.SetRequestID(ctx, requestID)

		tenantID := c.GetHeader(types.HeaderTenantID)
		if tenantID == "" {
			tenantID = types.DefaultTenantID
		}
		ctx = types.SetTenantID(ctx, tenantID)

		environmentID := c.GetHeader(types.HeaderEnvironment)
		if environmentID == "" {
			environmentID = types.DefaultEnvironmentID
		}
		ctx = types.SetEnvironmentID(ctx, environmentID)

		// mirror into gin keys for the logging middleware
		c.Set("tenant_id", tenantID)
		c.Set("environment_id", environmentID)
		c.Header(types.HeaderRequestID, requestID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
