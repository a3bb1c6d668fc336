package sof

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marithon/internal/domain"
)

var (
	rangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{2}):(\d{2})-(\d{2}):(\d{2})\b`),
		regexp.MustCompile(`\b(\d{2})\.(\d{2})-(\d{2})\.(\d{2})\b`),
		regexp.MustCompile(`\b(\d{2})(\d{2})-(\d{2})(\d{2})\b`),
	}
	simplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{2})(\d{2})\b`),
		regexp.MustCompile(`\b(\d{2})\.(\d{2})\b`),
		regexp.MustCompile(`\b(\d{2}):(\d{2})\b`),
	}
	datePattern = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b`)
)

type span [2]int

func overlaps(a span, spans []span) bool {
	for _, s := range spans {
		if !(a[1] <= s[0] || a[0] >= s[1]) {
			return true
		}
	}
	return false
}

// TimeExtractor finds clock times in free text. Ranges are matched first
// and their spans are excluded from single-time matching.
type TimeExtractor struct {
	base time.Time
}

// NewTimeExtractor creates an extractor anchoring times on the date of base.
func NewTimeExtractor(base time.Time) *TimeExtractor {
	return &TimeExtractor{base: base}
}

// Extract returns range times followed by single times, in pattern order.
// A range whose end is not after its start ends on the next day. A
// dd/mm/yyyy or dd.mm.yyyy date in text overrides the base date.
func (e *TimeExtractor) Extract(text string) []time.Time {
	var results []time.Time
	if text == "" {
		return results
	}

	base := e.base
	var covered []span
	if d, sp, ok := findDate(text); ok {
		base = d
		covered = append(covered, sp)
	}

	for _, rx := range rangePatterns {
		for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
			sp := span{m[0], m[1]}
			if overlaps(sp, covered) {
				continue
			}
			start, ok1 := clock(base, text[m[2]:m[3]], text[m[4]:m[5]])
			end, ok2 := clock(base, text[m[6]:m[7]], text[m[8]:m[9]])
			if !ok1 || !ok2 {
				continue
			}
			if !end.After(start) {
				end = end.AddDate(0, 0, 1)
			}
			results = append(results, start, end)
			covered = append(covered, sp)
		}
	}

	for _, rx := range simplePatterns {
		for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(span{m[0], m[1]}, covered) {
				continue
			}
			if t, ok := clock(base, text[m[2]:m[3]], text[m[4]:m[5]]); ok {
				results = append(results, t)
			}
		}
	}
	return results
}

// findDate returns the first day-first date in text and its span.
func findDate(text string) (time.Time, span, bool) {
	for _, m := range datePattern.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		month, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Day() != day {
			continue
		}
		return d, span{m[0], m[1]}, true
	}
	return time.Time{}, span{}, false
}

func clock(base time.Time, h, m string) (time.Time, bool) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute > 59 {
		return time.Time{}, false
	}
	y, mo, d := base.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, base.Location()), true
}

var (
	startLabels = map[string]bool{"COMMENCE": true, "RESUME": true, "COMMENCED": true, "START": true}
	endLabels   = map[string]bool{"STOP": true, "COMPLETE": true, "COMPLETED": true, "FINISH": true, "FINISHED": true}
)

// PairIntervals matches start-type events with the next end-type event,
// innermost first, using each event's first timestamp. Events without a
// parseable timestamp are skipped.
func PairIntervals(events []domain.ExtractedEvent) []domain.EventInterval {
	type open struct {
		at time.Time
		ev domain.ExtractedEvent
	}
	intervals := []domain.EventInterval{}
	var stack []open

	for _, ev := range events {
		if len(ev.Timestamps) == 0 {
			continue
		}
		t0, err := time.Parse(domain.TimestampLayout, ev.Timestamps[0])
		if err != nil {
			continue
		}
		label := strings.ToUpper(ev.Event)
		switch {
		case startLabels[label]:
			stack = append(stack, open{at: t0, ev: ev})
		case endLabels[label]:
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			hours := t0.Sub(start.at).Hours()
			intervals = append(intervals, domain.EventInterval{
				StartEvent:    start.ev,
				EndEvent:      ev,
				Start:         start.at.Format(domain.TimestampLayout),
				End:           t0.Format(domain.TimestampLayout),
				DurationHours: math.Round(hours*10000) / 10000,
			})
		}
	}
	return intervals
}
