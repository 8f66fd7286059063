package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError maps a domain error to its error code and HTTP status
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	code := codeForError(err)
	h.Error(c, dto.GetHTTPStatus(code), code, err.Error())
}

// statusForError resolves a domain error straight to its HTTP status.
func statusForError(err error) int {
	return dto.GetHTTPStatus(codeForError(err))
}

// codeForError resolves a domain sentinel to its wire error code.
func codeForError(err error) string {
	switch {
	case errors.Is(err, integration.ErrMalformedPayload):
		return dto.ErrCodeMalformedPayload
	case errors.Is(err, integration.ErrIntegrationNotFound):
		return dto.ErrCodeIntegrationNotFound
	case errors.Is(err, integration.ErrOrderNotFound):
		return dto.ErrCodeOrderNotFound
	case errors.Is(err, integration.ErrCredentialMissing):
		return dto.ErrCodeCredentialMissing
	case errors.Is(err, integration.ErrCredentialDecrypt),
		errors.Is(err, integration.ErrCredentialRefresh):
		return dto.ErrCodeCredential
	case errors.Is(err, integration.ErrUnsupportedPlatform):
		return dto.ErrCodeUnsupportedPlatform
	case errors.Is(err, integration.ErrPlatformUnavailable):
		return dto.ErrCodePlatformUnavailable
	case errors.Is(err, integration.ErrPlatformInvalidResponse):
		return dto.ErrCodePlatformResponse
	case errors.Is(err, integration.ErrPlatformRequestFailed):
		return dto.ErrCodePlatformRequest
	default:
		return dto.ErrCodeInternal
	}
}
