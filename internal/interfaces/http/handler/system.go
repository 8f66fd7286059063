package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/channelsync/backend/internal/interfaces/http/dto"
)

// Pinger is anything whose liveness the health check reports.
type Pinger interface {
	Ping() error
}

// SystemHandler serves the health and liveness routes.
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.Ping)
	rg.GET("/check", h.Check)
}

// Ping answers liveness probes.
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	}))
}

// checkResponse is the readiness report.
type checkResponse struct {
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Check reports readiness, including database connectivity.
func (h *SystemHandler) Check(c *gin.Context) {
	resp := checkResponse{
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "up",
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Database = "down"
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithData(dto.ErrCodeInternal, "database unreachable", resp))
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
