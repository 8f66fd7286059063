package handler

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/interfaces/http/middleware"
)

// StorefrontHandler serves the webhook routes the WooCommerce and PrestaShop
// plugins call. Both platforms deliver full product and order documents in
// the webhook body, authenticated by the integration key the IntegrationKey
// middleware already resolved.
type StorefrontHandler struct {
	BaseHandler
	adapters    integration.AdapterRegistry
	propagation ProductPropagator
	orders      OrderRecorder
	logger      *zap.Logger
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	adapters integration.AdapterRegistry,
	propagation ProductPropagator,
	orders OrderRecorder,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		adapters:    adapters,
		propagation: propagation,
		orders:      orders,
		logger:      logger,
	}
}

// RegisterRoutes registers the storefront webhook routes
func (h *StorefrontHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/product/sync/woocommerce", h.syncProduct(integration.PlatformWooCommerce))
	rg.DELETE("/product/sync/woocommerce", h.removeProduct)
	rg.POST("/order/sync/woocommerce", h.syncOrder)

	rg.POST("/product/sync/presta", h.syncProduct(integration.PlatformPrestaShop))
	rg.DELETE("/product/sync/presta", h.removeProduct)
	rg.POST("/order/sync/presta", h.syncOrder)
}

// syncProduct normalizes the platform's product payload and fans it out to
// the origin merchant's other active integrations.
func (h *StorefrontHandler) syncProduct(platform integration.PlatformCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin, ok := middleware.GetIntegration(c)
		if !ok {
			h.Unauthorized(c, "integration key is missing")
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.BadRequest(c, "unreadable request body")
			return
		}

		adapter, err := h.adapters.Adapter(platform)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		product, err := adapter.FromPlatformFormat(raw)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		targets, err := h.propagation.TargetsFor(c.Request.Context(), origin.UUID.String())
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		results := h.propagation.PropagateProduct(c.Request.Context(), integration.PropagationObject{
			Integrations: targets,
			Product:      product,
		})

		h.logger.Info("storefront product propagated",
			zap.String("integration_uuid", origin.UUID.String()),
			zap.String("platform", platform.String()),
			zap.String("sku", product.SKU),
			zap.Int("targets", len(targets)))
		h.Success(c, results)
	}
}

// removeProductRequest carries the product id the storefront deleted.
type removeProductRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// removeProduct fans a product deletion out to the origin's siblings.
func (h *StorefrontHandler) removeProduct(c *gin.Context) {
	origin, ok := middleware.GetIntegration(c)
	if !ok {
		h.Unauthorized(c, "integration key is missing")
		return
	}

	var req removeProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "product_id is required")
		return
	}

	targets, err := h.propagation.TargetsFor(c.Request.Context(), origin.UUID.String())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	results := h.propagation.RemoveProduct(c.Request.Context(), integration.DeletionObject{
		Integrations: targets,
		ProductID:    req.ProductID,
	})

	h.logger.Info("storefront product removal propagated",
		zap.String("integration_uuid", origin.UUID.String()),
		zap.String("product_id", req.ProductID),
		zap.Int("targets", len(targets)))
	h.Success(c, results)
}

// syncOrder records the order document the webhook delivered and forwards
// its reference downstream.
func (h *StorefrontHandler) syncOrder(c *gin.Context) {
	origin, ok := middleware.GetIntegration(c)
	if !ok {
		h.Unauthorized(c, "integration key is missing")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "unreadable request body")
		return
	}

	orderID := orderIDFromPayload(raw)
	if orderID == "" {
		h.BadRequest(c, "order_id is required")
		return
	}

	resp, err := h.orders.HandleOrderPayload(c.Request.Context(), origin, orderID, raw)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// orderIDFromPayload pulls order_id out of the raw webhook body. The plugins
// send it as either a number or a string depending on version.
func orderIDFromPayload(raw []byte) string {
	var envelope struct {
		OrderID any `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	switch v := envelope.OrderID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
