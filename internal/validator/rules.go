package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"marithon/internal/domain"
)

// BuiltinValidators returns the rules applied to every extraction result.
func BuiltinValidators() []Validator {
	return []Validator{
		&requiredFieldValidator{
			ruleKey:   "required.vessel",
			ruleName:  "Vessel Required",
			fieldPath: "business_data.vessel",
			severity:  domain.ValidationSeverityWarning,
			extract:   func(b *domain.BusinessData) *string { return b.Vessel },
		},
		&nonNegativeValidator{ruleKey: "number.quantity", ruleName: "Quantity Non-Negative", fieldPath: "business_data.quantity",
			extract: func(b *domain.BusinessData) *float64 { return b.Quantity }},
		&nonNegativeValidator{ruleKey: "number.allowed_laytime", ruleName: "Allowed Laytime Non-Negative", fieldPath: "business_data.allowed_laytime",
			extract: func(b *domain.BusinessData) *float64 { return b.Allowed }},
		&nonNegativeValidator{ruleKey: "number.demurrage", ruleName: "Demurrage Non-Negative", fieldPath: "business_data.demurrage",
			extract: func(b *domain.BusinessData) *float64 { return b.Demurrage }},
		&nonNegativeValidator{ruleKey: "number.dispatch", ruleName: "Dispatch Non-Negative", fieldPath: "business_data.dispatch",
			extract: func(b *domain.BusinessData) *float64 { return b.Dispatch }},
		&positiveRateValidator{},
		&operationValidator{},
	}
}

// requiredFieldValidator checks that a text field is present and non-blank.
type requiredFieldValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	severity  domain.ValidationSeverity
	extract   func(*domain.BusinessData) *string
}

func (v *requiredFieldValidator) RuleKey() string                     { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string                    { return v.ruleName }
func (v *requiredFieldValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *requiredFieldValidator) Validate(_ context.Context, data *domain.ExtractionResult) []Result {
	val := ""
	if data.BusinessData != nil {
		if p := v.extract(data.BusinessData); p != nil {
			val = strings.TrimSpace(*p)
		}
	}
	passed := val != ""
	msg := fmt.Sprintf("%s: %s is present", v.ruleName, v.fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is missing or empty", v.ruleName, v.fieldPath)
	}
	return []Result{{
		Passed:        passed,
		FieldPath:     v.fieldPath,
		ExpectedValue: "non-empty value",
		ActualValue:   val,
		Message:       msg,
	}}
}

// nonNegativeValidator checks an optional number is not below zero.
// Absent numbers are not reported.
type nonNegativeValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	extract   func(*domain.BusinessData) *float64
}

func (v *nonNegativeValidator) RuleKey() string  { return v.ruleKey }
func (v *nonNegativeValidator) RuleName() string { return v.ruleName }
func (v *nonNegativeValidator) Severity() domain.ValidationSeverity {
	return domain.ValidationSeverityError
}

func (v *nonNegativeValidator) Validate(_ context.Context, data *domain.ExtractionResult) []Result {
	if data.BusinessData == nil {
		return nil
	}
	p := v.extract(data.BusinessData)
	if p == nil {
		return nil
	}
	passed := *p >= 0
	msg := fmt.Sprintf("%s: %s is %s", v.ruleName, v.fieldPath, formatFloat(*p))
	if !passed {
		msg = fmt.Sprintf("%s: %s must not be negative, got %s", v.ruleName, v.fieldPath, formatFloat(*p))
	}
	return []Result{{
		Passed:        passed,
		FieldPath:     v.fieldPath,
		ExpectedValue: ">= 0",
		ActualValue:   formatFloat(*p),
		Message:       msg,
	}}
}

type positiveRateValidator struct{}

func (v *positiveRateValidator) RuleKey() string  { return "number.rate" }
func (v *positiveRateValidator) RuleName() string { return "Rate Positive" }
func (v *positiveRateValidator) Severity() domain.ValidationSeverity {
	return domain.ValidationSeverityError
}

func (v *positiveRateValidator) Validate(_ context.Context, data *domain.ExtractionResult) []Result {
	if data.BusinessData == nil || data.BusinessData.Rate == nil {
		return nil
	}
	r := *data.BusinessData.Rate
	res := Result{
		Passed:        r > 0,
		FieldPath:     "business_data.rate",
		ExpectedValue: "> 0",
		ActualValue:   formatFloat(r),
		Message:       "Rate Positive: business_data.rate is " + formatFloat(r),
	}
	if !res.Passed {
		res.Message = "Rate Positive: business_data.rate must be greater than zero, got " + formatFloat(r)
	}
	return []Result{res}
}

type operationValidator struct{}

func (v *operationValidator) RuleKey() string  { return "enum.operation" }
func (v *operationValidator) RuleName() string { return "Operation Known" }
func (v *operationValidator) Severity() domain.ValidationSeverity {
	return domain.ValidationSeverityError
}

func (v *operationValidator) Validate(_ context.Context, data *domain.ExtractionResult) []Result {
	if data.BusinessData == nil || data.BusinessData.Operation == nil {
		return nil
	}
	op := strings.ToLower(strings.TrimSpace(*data.BusinessData.Operation))
	passed := op == string(domain.OperationLoad) || op == string(domain.OperationDischarge)
	res := Result{
		Passed:        passed,
		FieldPath:     "business_data.operation",
		ExpectedValue: "load | discharge",
		ActualValue:   op,
		Message:       "Operation Known: business_data.operation is " + op,
	}
	if !passed {
		res.Message = fmt.Sprintf("Operation Known: business_data.operation %q is not load or discharge", op)
	}
	return []Result{res}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
