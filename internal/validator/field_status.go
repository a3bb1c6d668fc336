package validator

import (
	"fmt"

	"marithon/internal/domain"
)

// ruleResult pairs a validation result with its rule's severity.
type ruleResult struct {
	Result
	Severity domain.ValidationSeverity
}

// confidenceFloor is the score at or below which an event is reported unsure.
const confidenceFloor = 0.5

// ComputeFieldStatuses derives per-field validation statuses from rule
// results and confidence scores. confidenceMap maps field paths (e.g.
// "events[0]") to scores in [0, 1].
func ComputeFieldStatuses(results []ruleResult, confidenceMap map[string]float64) map[string]*domain.FieldStatus {
	grouped := make(map[string][]ruleResult)
	for _, r := range results {
		grouped[r.FieldPath] = append(grouped[r.FieldPath], r)
	}

	statuses := make(map[string]*domain.FieldStatus)
	for fieldPath, rrs := range grouped {
		fs := &domain.FieldStatus{Status: domain.FieldStatusValid}
		for _, rr := range rrs {
			if rr.Passed {
				continue
			}
			if rr.Severity == domain.ValidationSeverityError {
				fs.Status = domain.FieldStatusInvalid
			} else if fs.Status != domain.FieldStatusInvalid {
				fs.Status = domain.FieldStatusUnsure
			}
			fs.Messages = append(fs.Messages, rr.Message)
		}
		statuses[fieldPath] = fs
	}

	for fieldPath, confidence := range confidenceMap {
		if _, exists := statuses[fieldPath]; exists {
			continue
		}
		if confidence <= confidenceFloor {
			statuses[fieldPath] = &domain.FieldStatus{
				Status:   domain.FieldStatusUnsure,
				Messages: []string{fmt.Sprintf("low classification confidence %.2f", confidence)},
			}
		} else {
			statuses[fieldPath] = &domain.FieldStatus{Status: domain.FieldStatusValid}
		}
	}
	return statuses
}
