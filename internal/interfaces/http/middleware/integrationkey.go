package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/interfaces/http/dto"
)

// IntegrationKeyHeader carries the integration uuid on webhook requests from
// the storefront plugins.
const IntegrationKeyHeader = "X-Integration-Key"

// IntegrationKeyParam is the path parameter used by the marketplace-platform
// webhook routes.
const IntegrationKeyParam = "integrationKey"

// integrationContextKey is the gin context key the resolved integration is
// stored under.
const integrationContextKey = "integration"

// IntegrationResolver looks up an integration by its uuid.
type IntegrationResolver interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
}

// IntegrationKey authenticates webhook requests by the integration uuid they
// carry, either in the X-Integration-Key header or in the :integrationKey
// path parameter. The resolved integration is stored in the request context;
// an unknown or missing key aborts with 401.
func IntegrationKey(resolver IntegrationResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IntegrationKeyHeader)
		if key == "" {
			key = c.Param(IntegrationKeyParam)
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "integration key is missing"))
			return
		}

		id, err := uuid.Parse(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "integration key is not a valid uuid"))
			return
		}

		in, err := resolver.FindByUUID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, integration.ErrIntegrationNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, "unknown integration key"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "integration lookup failed"))
			return
		}

		c.Set(integrationContextKey, *in)
		c.Set("integration_uuid", in.UUID.String())
		c.Next()
	}
}

// GetIntegration returns the integration resolved by the IntegrationKey
// middleware for this request.
func GetIntegration(c *gin.Context) (integration.Integration, bool) {
	value, exists := c.Get(integrationContextKey)
	if !exists {
		return integration.Integration{}, false
	}
	in, ok := value.(integration.Integration)
	return in, ok
}
