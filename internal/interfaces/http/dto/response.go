package dto

// Response statuses. The storefront plugins switch on the literal status
// string, so these values are wire contract.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Response is the standard API response envelope.
type Response struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Status: StatusError,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithData creates an error response that still carries a
// partial data payload, as the health check does for a degraded report.
func NewErrorResponseWithData(code, message string, data any) Response {
	resp := NewErrorResponse(code, message)
	resp.Data = data
	return resp
}
