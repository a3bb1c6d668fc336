package laytime

import (
	"fmt"
	"strconv"
	"strings"

	"marithon/internal/domain"
)

// Warning flags a form value the calculator silently coerced.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CheckForm reports coercions the calculator applies to a form. It never
// alters the computed result.
func CheckForm(f domain.LaytimeForm) []Warning {
	var warnings []Warning
	numeric := []struct {
		field string
		value string
	}{
		{"quantity", f.Quantity},
		{"rate", f.Rate},
		{"allowedLaytime", f.AllowedLaytime},
		{"demurrage", f.Demurrage},
		{"dispatch", f.Dispatch},
	}
	for _, n := range numeric {
		s := strings.TrimSpace(n.value)
		if s == "" {
			warnings = append(warnings, Warning{Field: n.field, Message: "empty, treated as 0"})
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			warnings = append(warnings, Warning{Field: n.field, Message: fmt.Sprintf("%q is not a number, treated as 0", s)})
		}
	}

	if r := ParseInput(f.Rate); r < 1 {
		warnings = append(warnings, Warning{Field: "rate", Message: "rate below 1, clamped to 1"})
	}
	if a := ParseInput(f.AllowedLaytime); a < 0 {
		warnings = append(warnings, Warning{Field: "allowedLaytime", Message: "negative allowed laytime, clamped to 0"})
	}
	if op := f.OperationOrDefault(); op != string(domain.OperationLoad) && op != string(domain.OperationDischarge) {
		warnings = append(warnings, Warning{Field: "operation", Message: fmt.Sprintf("unknown operation %q", op)})
	}
	return warnings
}
