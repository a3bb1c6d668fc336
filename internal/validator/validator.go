// Package validator checks extraction results at the API boundary and
// derives a per-field status for clients.
package validator

import (
	"context"

	"marithon/internal/domain"
)

// Result is the outcome of one rule against one field.
type Result struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Validator is a single built-in extraction rule.
type Validator interface {
	Validate(ctx context.Context, data *domain.ExtractionResult) []Result
	RuleKey() string
	RuleName() string
	Severity() domain.ValidationSeverity
}
