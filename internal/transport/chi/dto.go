package chi

import "github.com/kailas-cloud/resumatch/internal/domain/report"

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeBatchTooLarge     ErrorCode = "batch_too_large"
	ErrorCodePayloadTooLarge   ErrorCode = "payload_too_large"
	ErrorCodeUnsupportedFormat ErrorCode = "unsupported_format"
	ErrorCodeModelNotLoaded    ErrorCode = "model_not_loaded"
	ErrorCodeProviderError     ErrorCode = "embedding_provider_error"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ScoreRequest is the body of POST /v1/score.
type ScoreRequest struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// RankDocument is one résumé of a RankRequest.
type RankDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RankRequest is the body of POST /v1/rank.
type RankRequest struct {
	Description string         `json:"description"`
	Documents   []RankDocument `json:"documents"`
}

// RankResponse is the ranked batch.
type RankResponse struct {
	Mode       report.Mode          `json:"mode"`
	Count      int                  `json:"count"`
	Unreadable []string             `json:"unreadable"`
	Items      []report.ScoreReport `json:"items"`
}

// Category is one entry of GET /v1/categories.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryListResponse is the body of GET /v1/categories.
type CategoryListResponse struct {
	Items []Category `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
