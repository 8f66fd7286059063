package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/domain/integration"
)

// MerchantKeyHeader identifies the merchant on integration management calls.
const MerchantKeyHeader = "X-Merchant-Key"

// IntegrationAdmin is the directory's management surface: creating
// integration records and moving them through the lifecycle.
type IntegrationAdmin interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
	Create(ctx context.Context, merchantUUID uuid.UUID, in integration.Integration) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status integration.Status) error
}

// IntegrationHandler serves integration management routes for the merchant
// portal.
type IntegrationHandler struct {
	BaseHandler
	directory IntegrationAdmin
	logger    *zap.Logger
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(directory IntegrationAdmin, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{directory: directory, logger: logger}
}

// RegisterRoutes registers the integration management routes
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/integration", h.create)
	rg.GET("/integration/:uuid", h.get)
	rg.PATCH("/integration", h.updateStatus)
}

// integrationResponse is the management view of an integration record.
type integrationResponse struct {
	UUID     string `json:"uuid"`
	Name     string `json:"integrationName"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
	SiteURL  string `json:"siteUrl,omitempty"`
}

func toIntegrationResponse(in integration.Integration) integrationResponse {
	return integrationResponse{
		UUID:     in.UUID.String(),
		Name:     in.Name,
		Platform: in.Platform.String(),
		Status:   in.Status.String(),
		SiteURL:  in.SiteURL,
	}
}

// createIntegrationRequest is the integration creation payload.
type createIntegrationRequest struct {
	Name     string `json:"integrationName" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	SiteURL  string `json:"siteUrl"`
}

// create records a new integration in pending status. It becomes a fan-out
// participant only after its credentials are initialized and it is activated.
func (h *IntegrationHandler) create(c *gin.Context) {
	merchantUUID, err := uuid.Parse(c.GetHeader(MerchantKeyHeader))
	if err != nil {
		h.Unauthorized(c, "merchant key is missing or invalid")
		return
	}

	var req createIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid integration payload: "+err.Error())
		return
	}

	platform := integration.PlatformCode(req.Platform)
	if !platform.IsValid() {
		h.BadRequest(c, "unsupported platform: "+req.Platform)
		return
	}

	in := integration.Integration{
		UUID:     uuid.New(),
		Name:     req.Name,
		Platform: platform,
		Status:   integration.StatusPending,
		SiteURL:  req.SiteURL,
	}
	if err := h.directory.Create(c.Request.Context(), merchantUUID, in); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.logger.Info("integration created",
		zap.String("merchant_uuid", merchantUUID.String()),
		zap.String("integration_uuid", in.UUID.String()),
		zap.String("platform", platform.String()))
	h.Success(c, toIntegrationResponse(in))
}

func (h *IntegrationHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		h.BadRequest(c, "invalid integration uuid")
		return
	}

	in, err := h.directory.FindByUUID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, toIntegrationResponse(*in))
}

// updateStatusRequest is the lifecycle transition payload.
type updateStatusRequest struct {
	UUID   string `json:"uuid" binding:"required,uuid"`
	Status string `json:"status" binding:"required"`
}

func (h *IntegrationHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid status payload: "+err.Error())
		return
	}

	status := integration.Status(req.Status)
	if !status.IsValid() {
		h.BadRequest(c, "unsupported status: "+req.Status)
		return
	}

	id := uuid.MustParse(req.UUID)
	if err := h.directory.UpdateStatus(c.Request.Context(), id, status); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.logger.Info("integration status updated",
		zap.String("integration_uuid", req.UUID),
		zap.String("status", status.String()))
	h.Success(c, gin.H{"uuid": req.UUID, "status": status.String()})
}
