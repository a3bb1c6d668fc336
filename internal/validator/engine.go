package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"marithon/internal/domain"
)

// Engine runs the registered rules against extraction results.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate computes the per-field statuses of data without modifying it.
func (e *Engine) Validate(ctx context.Context, data *domain.ExtractionResult) map[string]*domain.FieldStatus {
	var results []ruleResult
	failed := 0
	for _, v := range e.registry.All() {
		for _, r := range v.Validate(ctx, data) {
			results = append(results, ruleResult{Result: r, Severity: v.Severity()})
			if !r.Passed {
				failed++
			}
		}
	}

	confidence := make(map[string]float64, len(data.Events))
	for i, ev := range data.Events {
		confidence[fmt.Sprintf("events[%d]", i)] = ev.Confidence
	}

	statuses := ComputeFieldStatuses(results, confidence)
	zerolog.Ctx(ctx).Debug().
		Int("rules", len(results)).
		Int("failed", failed).
		Msg("validator.Engine: extraction validated")
	return statuses
}

// Apply validates data and attaches the statuses to it.
func (e *Engine) Apply(ctx context.Context, data *domain.ExtractionResult) *domain.ExtractionResult {
	data.Validation = e.Validate(ctx, data)
	return data
}

// Decode parses an extraction result and checks its shape: the schema
// version must match and every event timestamp must parse. Failures wrap
// domain.ErrInvalidExtraction.
func Decode(raw []byte) (*domain.ExtractionResult, error) {
	var data *domain.ExtractionResult
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExtraction, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidExtraction)
	}
	if data.SchemaVersion != domain.ExtractionSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d, want %d",
			domain.ErrInvalidExtraction, data.SchemaVersion, domain.ExtractionSchemaVersion)
	}
	for i, ev := range data.Events {
		for _, ts := range ev.Timestamps {
			if _, err := time.Parse(domain.TimestampLayout, ts); err != nil {
				return nil, fmt.Errorf("%w: events[%d] timestamp %q", domain.ErrInvalidExtraction, i, ts)
			}
		}
	}
	return data, nil
}

// DecodeCached is Decode for values read back from a local cache. Failures
// wrap domain.ErrInvalidCache.
func DecodeCached(raw []byte) (*domain.ExtractionResult, error) {
	data, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCache, err)
	}
	return data, nil
}
