package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/domain"
	"marithon/internal/validator"
)

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func newEngine() *validator.Engine {
	return validator.NewEngine(validator.DefaultRegistry())
}

func TestEngine_Validate_AllValid(t *testing.T) {
	data := &domain.ExtractionResult{
		BusinessData: &domain.BusinessData{
			Vessel:    str("MV OCEAN STAR"),
			Operation: str("load"),
			Quantity:  num(55000),
			Rate:      num(10000),
			Demurrage: num(20000),
		},
		Events: []domain.ExtractedEvent{{Event: "COMMENCE", Confidence: 0.92}},
	}

	statuses := newEngine().Validate(context.Background(), data)

	for path, fs := range statuses {
		assert.Equal(t, domain.FieldStatusValid, fs.Status, path)
		assert.Empty(t, fs.Messages, path)
	}
	assert.Contains(t, statuses, "business_data.vessel")
	assert.Contains(t, statuses, "business_data.rate")
	assert.Contains(t, statuses, "events[0]")
	assert.NotContains(t, statuses, "business_data.dispatch")
	assert.Nil(t, data.Validation)
}

func TestEngine_Validate_Failures(t *testing.T) {
	data := &domain.ExtractionResult{
		BusinessData: &domain.BusinessData{
			Operation: str("transship"),
			Quantity:  num(-5),
			Rate:      num(0),
		},
		Events: []domain.ExtractedEvent{{Event: "RAIN", Confidence: 0.48}},
	}

	statuses := newEngine().Validate(context.Background(), data)

	assert.Equal(t, domain.FieldStatusUnsure, statuses["business_data.vessel"].Status)
	assert.Equal(t, domain.FieldStatusInvalid, statuses["business_data.operation"].Status)
	assert.Equal(t, domain.FieldStatusInvalid, statuses["business_data.quantity"].Status)
	assert.Equal(t, domain.FieldStatusInvalid, statuses["business_data.rate"].Status)
	assert.Equal(t, domain.FieldStatusUnsure, statuses["events[0]"].Status)
	require.Len(t, statuses["business_data.rate"].Messages, 1)
	assert.Contains(t, statuses["business_data.rate"].Messages[0], "greater than zero")
}

func TestEngine_Validate_NilBusinessData(t *testing.T) {
	statuses := newEngine().Validate(context.Background(), &domain.ExtractionResult{})

	require.Contains(t, statuses, "business_data.vessel")
	assert.Equal(t, domain.FieldStatusUnsure, statuses["business_data.vessel"].Status)
	assert.Len(t, statuses, 1)
}

func TestEngine_Apply(t *testing.T) {
	data := &domain.ExtractionResult{BusinessData: &domain.BusinessData{Vessel: str("X")}}

	out := newEngine().Apply(context.Background(), data)

	assert.Same(t, data, out)
	assert.Equal(t, domain.FieldStatusValid, data.Validation["business_data.vessel"].Status)
}

func TestRegistry(t *testing.T) {
	r := validator.DefaultRegistry()

	all := r.All()
	require.Len(t, all, 7)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].RuleKey(), all[i].RuleKey())
	}
	require.NotNil(t, r.Get("number.rate"))
	assert.Equal(t, domain.ValidationSeverityError, r.Get("number.rate").Severity())
	assert.Nil(t, r.Get("missing"))
}

func TestDecode(t *testing.T) {
	raw := []byte(`{"schema_version":1,"business_data":{"vessel":"A"},"events":[{"event":"COMMENCE","timestamps":["2024-03-12T08:00:00"]}],"intervals":[],"meta":{}}`)

	data, err := validator.Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "A", *data.BusinessData.Vessel)
	require.Len(t, data.Events, 1)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"schema_version":`},
		{"null", `null`},
		{"wrong version", `{"schema_version":7}`},
		{"missing version", `{"events":[]}`},
		{"bad timestamp", `{"schema_version":1,"events":[{"event":"STOP","timestamps":["yesterday"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Decode([]byte(tt.raw))
			assert.ErrorIs(t, err, domain.ErrInvalidExtraction)

			_, err = validator.DecodeCached([]byte(tt.raw))
			assert.ErrorIs(t, err, domain.ErrInvalidCache)
		})
	}
}
