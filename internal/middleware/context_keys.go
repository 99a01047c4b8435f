package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the
// request context.
const userIDKey = contextKey("userID")

// tenantCtxKey is the key used to store the resolved TenantContext.
const tenantCtxKey = contextKey("tenantContext")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return "", false
	}

	return userID, true
}

// GetTenantContext retrieves the resolved TenantContext from the Gin context.
// It returns the context and a boolean indicating if it was found.
func GetTenantContext(c *gin.Context) (domain.TenantContext, bool) {
	val := c.Request.Context().Value(tenantCtxKey)
	if val == nil {
		return domain.TenantContext{}, false
	}

	tc, ok := val.(domain.TenantContext)
	if !ok {
		return domain.TenantContext{}, false
	}

	return tc, true
}
