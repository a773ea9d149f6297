package types

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name        string `json:"name" form:"name" yaml:"name" binding:"required"`
	Ingredience string `json:"ingredience" form:"ingredience" yaml:"ingredience" binding:"required"`
}

// Error codes carried in ErrorResponse.Code.
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}
