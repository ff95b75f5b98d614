package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Set("client_ip", c.ClientIP())
		c.Next()
	}
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	// Prefer the value stored by IPMiddleware
	if ip, ok := ctx.Value("client_ip").(string); ok {
		return ip
	}

	// Fall back to Gin's resolution for contexts outside the middleware chain
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}

	return ""
}
