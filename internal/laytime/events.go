package laytime

import (
	"fmt"
	"strings"
	"time"

	"marithon/internal/domain"
)

// DisplayLayout is the format of event start and end times.
const DisplayLayout = "02 Jan, 2006 15:04"

const zeroDuration = "00h:00m"

// FormatRemaining renders remaining laytime to one decimal.
func FormatRemaining(allowedDays float64) string {
	return fmt.Sprintf("%.1f", allowedDays)
}

// FormatUtilization renders the absolute span between two instants as
// "HHh:MMm". Hours are not capped at 24.
func FormatUtilization(start, end time.Time) string {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02dh:%02dm", minutes/60, minutes%60)
}

// NewEventRow builds a timeline row for a manually added event.
func NewEventRow(description string, start, end time.Time, allowedDays float64) (domain.EventRecord, error) {
	description = strings.TrimSpace(description)
	if description == "" || start.IsZero() || end.IsZero() {
		return domain.EventRecord{}, domain.ErrInvalidEvent
	}
	return domain.EventRecord{
		Event:              description,
		Day:                strings.ToUpper(start.Format("Mon")),
		StartDateTime:      start.Format(DisplayLayout),
		EndDateTime:        end.Format(DisplayLayout),
		TimeUtilization:    FormatUtilization(start, end),
		PercentUtilization: "0",
		LaytimeConsumed:    zeroDuration,
		LaytimeRemaining:   FormatRemaining(allowedDays),
	}, nil
}

type sampleEvent struct {
	event      string
	start, end string
}

var sampleTimeline = []sampleEvent{
	{"VESSEL END OF SEA PASSAGE", "06:00", "06:00"},
	{"PILOT ON BOARD", "08:00", "10:00"},
	{"TWO TUGS MADE FAST", "10:00", "10:30"},
	{"FIRST LINE ASHORE", "10:30", "11:00"},
	{"ALL LINES MADE FAST SST ALONGSIDE BERTH #9 / GANGWAY LOWERED & PILOT OFF", "11:00", "12:00"},
	{"AGENT AND PORT HEALTH OFFICERS ON BOARD / FREE PRATIQUE GRANTED", "12:00", "13:00"},
	{"DISCHARGE IN STEADY PROGRESS IN HOLDS 1,2,3 AND 4", "13:00", "15:42"},
}

var sampleDay = time.Date(2023, time.December, 24, 0, 0, 0, 0, time.UTC)

// SampleEvents returns the demonstration timeline seeded after a calculation
// when no extracted events are available.
func SampleEvents(allowedDays float64) []domain.EventRecord {
	rows := make([]domain.EventRecord, 0, len(sampleTimeline))
	for _, s := range sampleTimeline {
		start := atClock(sampleDay, s.start)
		end := atClock(sampleDay, s.end)
		row, _ := NewEventRow(s.event, start, end, allowedDays)
		rows = append(rows, row)
	}
	return rows
}

func atClock(day time.Time, clock string) time.Time {
	t, _ := time.Parse("15:04", clock)
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

// EventsFromExtraction maps extracted events to timeline rows. Events with
// two timestamps use them as start and end; a single timestamp yields a
// zero-length row; events without timestamps are skipped.
func EventsFromExtraction(events []domain.ExtractedEvent, allowedDays float64) []domain.EventRecord {
	var rows []domain.EventRecord
	for _, ev := range events {
		if len(ev.Timestamps) == 0 {
			continue
		}
		start, err := time.Parse(domain.TimestampLayout, ev.Timestamps[0])
		if err != nil {
			continue
		}
		end := start
		if len(ev.Timestamps) > 1 {
			if t, err := time.Parse(domain.TimestampLayout, ev.Timestamps[len(ev.Timestamps)-1]); err == nil {
				end = t
			}
		}
		description := ev.RawText
		if description == "" {
			description = ev.Event
		}
		row, err := NewEventRow(strings.ToUpper(description), start, end, allowedDays)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
