package handler

import "marithon/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// SignupRequest represents the signup request body.
type SignupRequest struct {
	Email     string `json:"email" binding:"required" example:"master@oceanstar.example"`
	Password  string `json:"password" binding:"required" example:"s3cret-pass"`
	Username  string `json:"username" example:"master"`
	FirstName string `json:"first_name" example:"Ana"`
	LastName  string `json:"last_name" example:"Costa"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"master@oceanstar.example"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateCalculationRequest represents the create calculation request body.
type CreateCalculationRequest struct {
	Form         domain.LaytimeForm `json:"form"`
	DocumentID   string             `json:"document_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SampleEvents bool               `json:"sample_events" example:"false"`
}

// PercentRequest is the body for setting an event's percent utilization.
// The value is kept as entered.
type PercentRequest struct {
	Percent string `json:"percent" example:"50"`
}

// --- Response Types ---

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// DownloadURLResponse carries a presigned download URL.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://bucket.s3.amazonaws.com/sof/..."`
}

// ClausesResponse wraps the business data fragment of a document.
type ClausesResponse struct {
	BusinessData domain.BusinessData `json:"business_data"`
}

// SummariesResponse wraps the laytime summary fragment of a document.
type SummariesResponse struct {
	Summary domain.LaytimeSummary `json:"summary"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
