package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated laytime analyst.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document is an uploaded Statement of Facts and its extraction state.
type Document struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id"`
	OriginalName string          `db:"original_name" json:"original_name"`
	FileType     FileType        `db:"file_type" json:"file_type"`
	ContentType  string          `db:"content_type" json:"content_type"`
	FileSize     int64           `db:"file_size" json:"file_size"`
	S3Bucket     string          `db:"s3_bucket" json:"-"`
	S3Key        string          `db:"s3_key" json:"-"`
	Status       DocumentStatus  `db:"status" json:"status"`
	Attempts     int             `db:"attempts" json:"attempts"`
	ParserMode   string          `db:"parser_mode" json:"parser_mode"`
	Error        string          `db:"error" json:"error,omitempty"`
	Result       json.RawMessage `db:"result" json:"result,omitempty"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ExtractionResult unmarshals the stored result of a completed document.
func (d *Document) ExtractionResult() (*ExtractionResult, error) {
	if d.Status != DocumentStatusCompleted || len(d.Result) == 0 {
		return nil, ErrDocumentNotProcessed
	}
	var res ExtractionResult
	if err := json.Unmarshal(d.Result, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}
	return &res, nil
}

// LaytimeForm is the set of string-typed inputs the analyst edits. Values are
// kept as entered; numeric coercion happens in the calculator.
type LaytimeForm struct {
	Vessel         string `json:"vessel"`
	VoyageFrom     string `json:"voyageFrom"`
	VoyageTo       string `json:"voyageTo"`
	Cargo          string `json:"cargo"`
	Port           string `json:"port"`
	Operation      string `json:"operation"`
	AllowedLaytime string `json:"allowedLaytime"`
	Demurrage      string `json:"demurrage"`
	Dispatch       string `json:"dispatch"`
	Rate           string `json:"rate"`
	Quantity       string `json:"quantity"`
}

// OperationOrDefault returns the form operation, defaulting to discharge.
func (f LaytimeForm) OperationOrDefault() string {
	if f.Operation == "" {
		return string(OperationDischarge)
	}
	return f.Operation
}

// EventRecord is one row of the laytime events timeline.
type EventRecord struct {
	Event              string `json:"event"`
	Day                string `json:"day"`
	StartDateTime      string `json:"startDateTime"`
	EndDateTime        string `json:"endDateTime"`
	TimeUtilization    string `json:"timeUtilization"`
	PercentUtilization string `json:"percentUtilization"`
	LaytimeConsumed    string `json:"laytimeConsumed"`
	LaytimeRemaining   string `json:"laytimeRemaining"`
}

// LaytimeResult is the outcome of a single laytime calculation.
type LaytimeResult struct {
	RequiredDays float64         `db:"required_days" json:"required_days"`
	AllowedDays  float64         `db:"allowed_days" json:"allowed_days"`
	DeltaDays    float64         `db:"delta_days" json:"delta_days"`
	Mode         CalculationMode `db:"mode" json:"mode"`
	Amount       float64         `db:"amount" json:"amount"`
}

// ChartSlices are the two segments of the laytime usage chart.
type ChartSlices struct {
	Used  float64 `json:"used"`
	Saved float64 `json:"saved"`
}

// Calculation is a persisted laytime calculation owned by a user.
type Calculation struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	DocumentID *uuid.UUID      `db:"document_id" json:"document_id"`
	FormData   json.RawMessage `db:"form_data" json:"form_data"`
	EventsData json.RawMessage `db:"events_data" json:"events_data"`
	LaytimeResult
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Form decodes the stored form data.
func (c *Calculation) Form() (LaytimeForm, error) {
	var f LaytimeForm
	if len(c.FormData) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(c.FormData, &f); err != nil {
		return f, fmt.Errorf("decoding form data: %w", err)
	}
	return f, nil
}

// Events decodes the stored events timeline.
func (c *Calculation) Events() ([]EventRecord, error) {
	var events []EventRecord
	if len(c.EventsData) == 0 {
		return events, nil
	}
	if err := json.Unmarshal(c.EventsData, &events); err != nil {
		return nil, fmt.Errorf("decoding events data: %w", err)
	}
	return events, nil
}
