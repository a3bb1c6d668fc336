package sof_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/sof"
)

func TestParseTimelineRow_Range(t *testing.T) {
	row, ok := sof.ParseTimelineRow("12/03/2024 0800-1230 COMMENCED LOADING")

	require.True(t, ok)
	assert.Equal(t, "12 Mar 2024", row.Date)
	assert.Equal(t, "08:00", row.StartTime)
	assert.Equal(t, "12:30", row.EndTime)
	assert.Equal(t, "4.5h", row.Duration)
	assert.Equal(t, "Commenced Loading", row.Description)
	assert.Equal(t, "-", row.Remarks)
}

func TestParseTimelineRow_RangeOverMidnight(t *testing.T) {
	row, ok := sof.ParseTimelineRow("5.3.2024 2200-0200 shifting to berth")

	require.True(t, ok)
	assert.Equal(t, "05 Mar 2024", row.Date)
	assert.Equal(t, "22:00", row.StartTime)
	assert.Equal(t, "02:00", row.EndTime)
	assert.Equal(t, "4h", row.Duration)
}

func TestParseTimelineRow_SingleTime(t *testing.T) {
	row, ok := sof.ParseTimelineRow("13/03/2024 915 pilot on board")

	require.True(t, ok)
	assert.Equal(t, "09:15", row.StartTime)
	assert.Equal(t, "-", row.EndTime)
	assert.Equal(t, "-", row.Duration)
	assert.Equal(t, "Pilot On Board", row.Description)
}

func TestParseTimelineRow_NoDate(t *testing.T) {
	_, ok := sof.ParseTimelineRow("commenced loading 0800")
	assert.False(t, ok)
}

func TestParseTimelineRow_LongDescriptionTruncated(t *testing.T) {
	row, ok := sof.ParseTimelineRow("12/03/2024 0800 " + strings.Repeat("é", 150))

	require.True(t, ok)
	assert.Equal(t, 100, len([]rune(row.Description)))
}

func TestParseTimeline(t *testing.T) {
	rows := sof.ParseTimeline([]string{
		"STATEMENT OF FACTS",
		"12/03/2024 0800-1230 Commenced loading",
		"Remarks: weather fine",
		"12/03/2024 1400 Resumed loading",
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Commenced Loading", rows[0].Description)
	assert.Equal(t, "14:00", rows[1].StartTime)
}

func TestVesselInfo(t *testing.T) {
	text := strings.Join([]string{
		"Vessel Name: OCEAN STAR",
		"Master: Capt. J. Smith",
		"Port of Loading: Santos",
		"Port of Discharging: Qingdao",
		"Cargo: Soya Beans",
		"Quantity: 55,000 MT",
	}, "\n")

	info := sof.VesselInfo(text)

	assert.Equal(t, "OCEAN STAR", info["Vessel Name"])
	assert.Equal(t, "Capt. J. Smith", info["Master"])
	assert.Equal(t, "Santos", info["Port of Loading"])
	assert.Equal(t, "Qingdao", info["Port of Discharge"])
	assert.Equal(t, "Soya Beans", info["Cargo"])
	assert.Equal(t, "55,000", info["Quantity (MT)"])
	assert.Equal(t, "-", info["Agent"])
}

func TestVesselInfo_Empty(t *testing.T) {
	info := sof.VesselInfo("")

	assert.Len(t, info, 7)
	for k, v := range info {
		assert.Equal(t, "-", v, k)
	}
}
