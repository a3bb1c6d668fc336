package sof

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"marithon/internal/domain"
)

var (
	eventLine      = regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{4}.*?\d{3,4}`)
	rowDate        = regexp.MustCompile(`(\d{1,2}[./]\d{1,2}[./]\d{4})`)
	rowTimeRange   = regexp.MustCompile(`(\d{3,4})[:\-](\d{3,4})`)
	rowSingleTime  = regexp.MustCompile(`(\d{3,4})`)
	leadingDigit   = regexp.MustCompile(`^\d`)
	monthShortName = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

const missing = "-"

// ParseTimeline picks the tabular event rows (a date followed by a time)
// out of the document lines.
func ParseTimeline(lines []string) []domain.TimelineRow {
	var rows []domain.TimelineRow
	for _, line := range lines {
		if !eventLine.MatchString(line) {
			continue
		}
		if row, ok := ParseTimelineRow(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// ParseTimelineRow parses one dated event row.
func ParseTimelineRow(line string) (domain.TimelineRow, bool) {
	dm := rowDate.FindStringSubmatchIndex(line)
	if dm == nil {
		return domain.TimelineRow{}, false
	}
	row := domain.TimelineRow{
		Date:    normalizeDate(line[dm[2]:dm[3]]),
		Remarks: missing,
	}

	rest := line[:dm[0]] + " " + line[dm[1]:]
	if m := rowTimeRange.FindStringSubmatch(rest); m != nil {
		row.StartTime = normalizeTime(m[1])
		row.EndTime = normalizeTime(m[2])
		row.Duration = duration(row.StartTime, row.EndTime)
	} else {
		row.StartTime, row.EndTime, row.Duration = missing, missing, missing
		if m := rowSingleTime.FindStringSubmatch(rest); m != nil {
			row.StartTime = normalizeTime(m[1])
		}
	}

	var parts []string
	for _, p := range strings.Fields(line) {
		if !leadingDigit.MatchString(p) {
			parts = append(parts, p)
		}
	}
	desc := []rune(strings.Join(parts, " "))
	if len(desc) > 100 {
		desc = desc[:100]
	}
	row.Description = titleCase(strings.TrimSpace(string(desc)))
	return row, true
}

func normalizeDate(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '/' })
	if len(parts) != 3 {
		return s
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 {
		return s
	}
	name := parts[1]
	if month <= 12 {
		name = monthShortName[month]
	}
	day := parts[0]
	if len(day) < 2 {
		day = "0" + day
	}
	return fmt.Sprintf("%s %s %s", day, name, parts[2])
}

func normalizeTime(s string) string {
	if len(s) < 4 {
		s = strings.Repeat("0", 4-len(s)) + s
	}
	return s[:2] + ":" + s[2:]
}

func duration(start, end string) string {
	sm, ok1 := minutesOf(start)
	em, ok2 := minutesOf(end)
	if !ok1 || !ok2 {
		return missing
	}
	if em < sm {
		em += 24 * 60
	}
	hours := float64(em-sm) / 60
	if hours == float64(int(hours)) {
		return fmt.Sprintf("%dh", int(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}

func minutesOf(hhmm string) (int, bool) {
	h, err1 := strconv.Atoi(hhmm[:2])
	m, err2 := strconv.Atoi(hhmm[3:])
	if err1 != nil || err2 != nil || h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

type infoField struct {
	name     string
	patterns []*regexp.Regexp
}

var vesselInfoFields = []infoField{
	{"Vessel Name", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Name of Vessel|Vessel Name|Vessel|Ship)\b[\t \-:]*([^\n\r]+?)[\t ]*$`),
		regexp.MustCompile(`(?im)M\.V\.?[\t ]*([^\n\r]+?)[\t ]*$`),
	}},
	{"Master", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Name of Master|Captain|Master)\b[\t \-:]*([^\n\r]+?)[\t ]*$`),
	}},
	{"Agent", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Name of Agent|Agents?)\b[\t \-:]*([^\n\r]+?)[\t ]*$`),
	}},
	{"Port of Loading", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Port of Loading|Loading Port)\b[\t \-:]*([^\n\r]+?)[\t ]*$`),
	}},
	{"Port of Discharge", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Port of Discharge|Port of Discharging|Discharge Port)\b[\t \-:]*([^\n\r]+?)[\t ]*$`),
	}},
	{"Cargo", []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:Cargo Description|Cargo)\b[\t \-:]*([^\n\r]+?)[\t ]*(?:Quantity|$)`),
	}},
	{"Quantity (MT)", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Cargo Quantity|Quantity)\b[\t \-:]*([0-9][0-9,\.]*)`),
		regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*(?:METRIC TONS|MT|Tons)\b`),
	}},
}

// VesselInfo extracts the header fields of a Statement of Facts, using "-"
// for any field that is not found.
func VesselInfo(text string) map[string]string {
	info := make(map[string]string, len(vesselInfoFields))
	for _, f := range vesselInfoFields {
		value := ""
		for _, rx := range f.patterns {
			if m := rx.FindStringSubmatch(text); m != nil {
				value = strings.TrimSpace(m[1])
				break
			}
		}
		if value == "" {
			value = missing
		}
		info[f.name] = value
	}
	return info
}
