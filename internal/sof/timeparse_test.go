package sof_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/domain"
	"marithon/internal/sof"
)

var baseDay = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 12, h, m, 0, 0, time.UTC)
}

func TestTimeExtractor_SimpleFormats(t *testing.T) {
	e := sof.NewTimeExtractor(baseDay)

	got := e.Extract("commenced loading at 0730 and stopped at 12.45 then resumed 14:10.")

	assert.Equal(t, []time.Time{at(7, 30), at(12, 45), at(14, 10)}, got)
}

func TestTimeExtractor_RangeRollsOver(t *testing.T) {
	e := sof.NewTimeExtractor(baseDay)

	got := e.Extract("Work 23:50-00:10")

	require.Len(t, got, 2)
	assert.Equal(t, at(23, 50), got[0])
	assert.Equal(t, time.Date(2024, 3, 13, 0, 10, 0, 0, time.UTC), got[1])
}

func TestTimeExtractor_RangeFormats(t *testing.T) {
	e := sof.NewTimeExtractor(baseDay)

	tests := []struct {
		name string
		text string
	}{
		{"colon", "shifting 08:00-09:30"},
		{"dot", "shifting 08.00-09.30"},
		{"compact", "shifting 0800-0930"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []time.Time{at(8, 0), at(9, 30)}, e.Extract(tt.text))
		})
	}
}

func TestTimeExtractor_DateOverridesBase(t *testing.T) {
	e := sof.NewTimeExtractor(baseDay)

	got := e.Extract("15.03.2024 NOR tendered 0915")

	assert.Equal(t, []time.Time{time.Date(2024, 3, 15, 9, 15, 0, 0, time.UTC)}, got)
}

func TestTimeExtractor_InvalidClockDropped(t *testing.T) {
	e := sof.NewTimeExtractor(baseDay)

	assert.Empty(t, e.Extract("reference 2575 and 99:10"))
	assert.Empty(t, e.Extract(""))
}

func event(label, ts string) domain.ExtractedEvent {
	var stamps []string
	if ts != "" {
		stamps = []string{ts}
	}
	return domain.ExtractedEvent{Event: label, Timestamps: stamps}
}

func TestPairIntervals(t *testing.T) {
	events := []domain.ExtractedEvent{
		event("COMMENCE", "2024-03-12T08:00:00"),
		event("STOP", "2024-03-12T12:00:00"),
		event("RAIN", "2024-03-12T12:30:00"),
		event("RESUME", "2024-03-12T13:00:00"),
		event("COMPLETE", "2024-03-12T18:20:00"),
	}

	got := sof.PairIntervals(events)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-12T08:00:00", got[0].Start)
	assert.Equal(t, "2024-03-12T12:00:00", got[0].End)
	assert.Equal(t, 4.0, got[0].DurationHours)
	assert.Equal(t, "COMMENCE", got[0].StartEvent.Event)
	assert.Equal(t, "STOP", got[0].EndEvent.Event)
	assert.Equal(t, 5.3333, got[1].DurationHours)
}

func TestPairIntervals_Nested(t *testing.T) {
	events := []domain.ExtractedEvent{
		event("COMMENCE", "2024-03-12T08:00:00"),
		event("RESUME", "2024-03-12T09:00:00"),
		event("STOP", "2024-03-12T10:00:00"),
		event("COMPLETE", "2024-03-12T11:00:00"),
	}

	got := sof.PairIntervals(events)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-12T09:00:00", got[0].Start)
	assert.Equal(t, "2024-03-12T08:00:00", got[1].Start)
	assert.Equal(t, 3.0, got[1].DurationHours)
}

func TestPairIntervals_SkipsUnpairedAndUntimed(t *testing.T) {
	events := []domain.ExtractedEvent{
		event("STOP", "2024-03-12T07:00:00"),
		event("COMMENCE", ""),
		event("COMMENCE", "not-a-time"),
	}

	got := sof.PairIntervals(events)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
