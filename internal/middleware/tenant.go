package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
)

// TenantMiddleware resolves the :tenantID path parameter against the
// authenticated user's memberships and stores the resulting TenantContext
// in the request context. Non-members and unknown tenants both get the
// same 403: whether the tenant exists at all is not theirs to learn.
func TenantMiddleware(tenantSvc portssvc.TenantReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("TenantMiddleware invoked without authenticated user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		tenantID := c.Param("tenantID")
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Tenant ID is required"})
			return
		}

		tc, err := tenantSvc.Resolve(c.Request.Context(), userID, tenantID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access to this tenant is denied"})
				return
			}
			logger.Error("Failed to resolve tenant context", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		enrichedLogger := logger.With(slog.String("tenant_id", tenantID))
		ctx := context.WithValue(c.Request.Context(), tenantCtxKey, *tc)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireOperation enforces the role policy table for an operation. It must
// run after TenantMiddleware.
func RequireOperation(op domain.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Tenant context not resolved"})
			return
		}

		if !domain.PolicyAllows(tc.Role, op) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Operation denied by role policy",
				slog.String("role", string(tc.Role)), slog.String("operation", string(op)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
			return
		}

		c.Next()
	}
}
