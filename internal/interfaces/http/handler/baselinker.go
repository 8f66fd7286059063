package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/catalog"
	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/interfaces/http/middleware"
)

// BaseLinkerCatalog reads single products from a BaseLinker account.
type BaseLinkerCatalog interface {
	ProductByID(ctx context.Context, target integration.Integration, productID string) (*catalog.CanonicalProduct, error)
}

// BaseLinkerTokens validates and stores BaseLinker API tokens.
type BaseLinkerTokens interface {
	ValidateToken(ctx context.Context, xblToken string) (int, error)
	SaveToken(ctx context.Context, integrationUUID uuid.UUID, xblToken string) (uuid.UUID, error)
}

// BaseLinkerHandler serves BaseLinker's webhook routes and the token init
// flow. BaseLinker notifies with HEAD requests carrying ids in the query
// string; the entity itself is fetched back through its API.
type BaseLinkerHandler struct {
	BaseHandler
	products    BaseLinkerCatalog
	tokens      BaseLinkerTokens
	propagation ProductPropagator
	orders      OrderRecorder
	logger      *zap.Logger
}

// NewBaseLinkerHandler creates a new BaseLinkerHandler
func NewBaseLinkerHandler(
	products BaseLinkerCatalog,
	tokens BaseLinkerTokens,
	propagation ProductPropagator,
	orders OrderRecorder,
	logger *zap.Logger,
) *BaseLinkerHandler {
	return &BaseLinkerHandler{
		products:    products,
		tokens:      tokens,
		propagation: propagation,
		orders:      orders,
		logger:      logger,
	}
}

// RegisterWebhookRoutes registers the notification routes. The group must
// carry the IntegrationKey middleware.
func (h *BaseLinkerHandler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.HEAD("/product/sync/baselinker/:integrationKey", h.syncProduct)
	rg.HEAD("/order/sync/baselinker/:integrationKey", h.syncOrder)
}

// RegisterInitRoutes registers the token setup route.
func (h *BaseLinkerHandler) RegisterInitRoutes(rg *gin.RouterGroup) {
	rg.POST("/integration/baselinker/init", h.initIntegration)
}

// syncProduct fetches the changed product from BaseLinker and fans it out to
// the origin's siblings. HEAD responses carry status only.
func (h *BaseLinkerHandler) syncProduct(c *gin.Context) {
	origin, ok := middleware.GetIntegration(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	productID := c.Query("productId")
	if productID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.products.ProductByID(c.Request.Context(), origin, productID)
	if err != nil {
		h.headError(c, err)
		return
	}

	targets, err := h.propagation.TargetsFor(c.Request.Context(), origin.UUID.String())
	if err != nil {
		h.headError(c, err)
		return
	}

	results := h.propagation.PropagateProduct(c.Request.Context(), integration.PropagationObject{
		Integrations: targets,
		Product:      product,
	})

	h.logger.Info("baselinker product propagated",
		zap.String("integration_uuid", origin.UUID.String()),
		zap.String("product_id", productID),
		zap.Int("targets", len(results)))
	c.Status(http.StatusOK)
}

func (h *BaseLinkerHandler) syncOrder(c *gin.Context) {
	origin, ok := middleware.GetIntegration(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	orderID := c.Query("orderId")
	if orderID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if _, err := h.orders.HandleOrder(c.Request.Context(), origin, orderID); err != nil {
		h.headError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// headError sets the mapped status with no body, as HEAD semantics require.
func (h *BaseLinkerHandler) headError(c *gin.Context, err error) {
	h.logger.Error("baselinker webhook failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.Status(statusForError(err))
}

// baseLinkerInitRequest is the token setup payload.
type baseLinkerInitRequest struct {
	UUID     string `json:"uuid" binding:"required,uuid"`
	XBLToken string `json:"xblToken" binding:"required"`
}

// initIntegration validates the candidate token against BaseLinker and
// stores it encrypted.
func (h *BaseLinkerHandler) initIntegration(c *gin.Context) {
	var req baseLinkerInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid baselinker init payload: "+err.Error())
		return
	}

	inventories, err := h.tokens.ValidateToken(c.Request.Context(), req.XBLToken)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	tokenUUID, err := h.tokens.SaveToken(c.Request.Context(), uuid.MustParse(req.UUID), req.XBLToken)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.logger.Info("baselinker integration initialized",
		zap.String("integration_uuid", req.UUID),
		zap.String("token_uuid", tokenUUID.String()),
		zap.Int("inventories", inventories))
	h.Success(c, gin.H{
		"tokenUuid":   tokenUUID.String(),
		"inventories": inventories,
	})
}
