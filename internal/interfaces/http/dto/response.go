package dto

// ErrorBody is the body of every error response
type ErrorBody struct {
	Message   string             `json:"message"`
	Code      string             `json:"code"`
	RequestID string             `json:"request_id,omitempty"`
	Retryable bool               `json:"retryable,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is the body of acknowledgement-only endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// OK is the acknowledgement body
var OK = MessageResponse{Message: "OK"}

// NewErrorBody creates an error body
func NewErrorBody(code, message, requestID string) ErrorBody {
	return ErrorBody{
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Retryable: IsRetryable(code),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
