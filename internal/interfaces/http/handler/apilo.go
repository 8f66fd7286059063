package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/ecommerce"
	"github.com/channelsync/backend/internal/interfaces/http/middleware"
)

// ApiloInitializer performs the one-time authorization-code exchange for an
// Apilo integration.
type ApiloInitializer interface {
	Initialize(ctx context.Context, params ecommerce.ApiloInitParams) (uuid.UUID, error)
}

// ApiloPinger probes an integration's Apilo endpoint with live credentials.
type ApiloPinger interface {
	Ping(ctx context.Context, target integration.Integration) (*ecommerce.ApiloPingResponse, error)
}

// ApiloHandler serves Apilo's order notifications and the integration init
// flow. Apilo notifies by order id only; the order document is fetched back
// from its REST API.
type ApiloHandler struct {
	BaseHandler
	creds  ApiloInitializer
	pinger ApiloPinger
	orders OrderRecorder
	logger *zap.Logger
}

// NewApiloHandler creates a new ApiloHandler
func NewApiloHandler(creds ApiloInitializer, pinger ApiloPinger, orders OrderRecorder, logger *zap.Logger) *ApiloHandler {
	return &ApiloHandler{creds: creds, pinger: pinger, orders: orders, logger: logger}
}

// RegisterWebhookRoutes registers the order notification route. The group
// must carry the IntegrationKey middleware.
func (h *ApiloHandler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.GET("/order/sync/apilo/:integrationKey", h.syncOrder)
}

// RegisterInitRoutes registers the integration setup route.
func (h *ApiloHandler) RegisterInitRoutes(rg *gin.RouterGroup) {
	rg.POST("/integration/apilo/init", h.initIntegration)
}

func (h *ApiloHandler) syncOrder(c *gin.Context) {
	origin, ok := middleware.GetIntegration(c)
	if !ok {
		h.Unauthorized(c, "integration key is missing")
		return
	}

	orderID := c.Query("orderId")
	if orderID == "" {
		h.BadRequest(c, "orderId is required")
		return
	}

	resp, err := h.orders.HandleOrder(c.Request.Context(), origin, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// apiloInitRequest is the integration setup payload.
type apiloInitRequest struct {
	UUID         string `json:"uuid" binding:"required,uuid"`
	APIEndpoint  string `json:"apiEndpoint" binding:"required,url"`
	ClientID     int64  `json:"clientId" binding:"required"`
	ClientSecret string `json:"clientSecret" binding:"required"`
	AuthCode     string `json:"authCode" binding:"required"`
}

// initIntegration exchanges the authorization code, persists the encrypted
// credential record, and pings the endpoint to prove the credential works.
func (h *ApiloHandler) initIntegration(c *gin.Context) {
	var req apiloInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid apilo init payload: "+err.Error())
		return
	}

	integrationUUID := uuid.MustParse(req.UUID)
	tokenUUID, err := h.creds.Initialize(c.Request.Context(), ecommerce.ApiloInitParams{
		IntegrationUUID: integrationUUID,
		Endpoint:        req.APIEndpoint,
		ClientID:        req.ClientID,
		ClientSecret:    req.ClientSecret,
		AuthCode:        req.AuthCode,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	ping, err := h.pinger.Ping(c.Request.Context(), integration.Integration{
		UUID:     integrationUUID,
		Platform: integration.PlatformApilo,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.logger.Info("apilo integration initialized",
		zap.String("integration_uuid", req.UUID),
		zap.String("token_uuid", tokenUUID.String()))
	h.Success(c, gin.H{
		"tokenUuid": tokenUUID.String(),
		"ping":      ping,
	})
}
