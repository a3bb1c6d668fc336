// Package export serializes a stored laytime calculation into downloadable
// reports. Exporters never recompute: they render the form values, event
// rows and laytime figures they are given.
package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marithon/internal/domain"
	"marithon/internal/laytime"
)

const (
	// FormatVersion is written into JSON exports.
	FormatVersion = "1.0"
	// Source names the producer in JSON exports.
	Source = "MariThon Laytime Calculator"

	reportTitle = "Laytime Calculation Report"
)

// LaytimeData is the laytime section of a report.
type LaytimeData struct {
	LaytimeAllowed  string                 `json:"laytimeAllowed"`
	CalculationDate string                 `json:"calculationDate"`
	RequiredDays    float64                `json:"requiredDays"`
	DeltaDays       float64                `json:"deltaDays"`
	Mode            domain.CalculationMode `json:"mode"`
	Amount          float64                `json:"amount"`
}

// Report is everything an exporter writes.
type Report struct {
	Form        domain.LaytimeForm
	Events      []domain.EventRecord
	Laytime     LaytimeData
	GeneratedAt time.Time
}

// NewReport assembles a report from stored calculation values.
func NewReport(form domain.LaytimeForm, events []domain.EventRecord, result domain.LaytimeResult, calculatedAt, now time.Time) Report {
	if form.Operation == "" {
		form.Operation = form.OperationOrDefault()
	}
	if events == nil {
		events = []domain.EventRecord{}
	}
	return Report{
		Form:   form,
		Events: events,
		Laytime: LaytimeData{
			LaytimeAllowed:  laytime.FormatAllowed(result.AllowedDays),
			CalculationDate: calculatedAt.UTC().Format(time.RFC3339),
			RequiredDays:    result.RequiredDays,
			DeltaDays:       result.DeltaDays,
			Mode:            result.Mode,
			Amount:          result.Amount,
		},
		GeneratedAt: now,
	}
}

// File is a rendered report ready for download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

var contentTypes = map[domain.ExportFormat]string{
	domain.ExportPDF:  "application/pdf",
	domain.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	domain.ExportCSV:  "text/csv; charset=utf-8",
	domain.ExportJSON: "application/json",
	domain.ExportHTML: "text/html; charset=utf-8",
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (domain.ExportFormat, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentTypes[f]; !ok {
		return "", domain.ErrUnsupportedFormat
	}
	return f, nil
}

// Render serializes r in the requested format. A PDF that cannot be rendered
// is returned as the HTML report instead. Errors wrap domain.ErrExportFailed.
func Render(ctx context.Context, format domain.ExportFormat, r Report) (*File, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case domain.ExportPDF:
		body, err = PDF(r)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("pdf rendering failed, falling back to html")
			return Render(ctx, domain.ExportHTML, r)
		}
	case domain.ExportXLSX:
		body, err = XLSX(r)
	case domain.ExportCSV:
		body, err = CSV(r)
	case domain.ExportJSON:
		body, err = JSON(r)
	case domain.ExportHTML:
		body, err = HTML(r)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExportFailed, format, err)
	}
	return &File{
		Name:        Filename(format, r.Form.Vessel, r.GeneratedAt),
		ContentType: contentTypes[format],
		Body:        body,
	}, nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// Filename returns the download name of a report:
// laytime-calculation[_{vessel}]_{YYYY-MM-DD}.{ext}, with a -report suffix
// on the base for PDFs.
func Filename(format domain.ExportFormat, vessel string, date time.Time) string {
	base := "laytime-calculation"
	if format == domain.ExportPDF {
		base += "-report"
	}
	if v := SanitizeFilename(vessel); v != "" {
		base += "_" + v
	}
	return fmt.Sprintf("%s_%s.%s", base, date.Format("2006-01-02"), format)
}

type field struct {
	key, label, value string
}

func formFields(f domain.LaytimeForm) []field {
	return []field{
		{"vessel", "Vessel", f.Vessel},
		{"voyageFrom", "Voyage From", f.VoyageFrom},
		{"voyageTo", "Voyage To", f.VoyageTo},
		{"cargo", "Cargo", f.Cargo},
		{"port", "Port", f.Port},
		{"operation", "Operation", f.Operation},
		{"allowedLaytime", "Allowed Laytime", f.AllowedLaytime},
		{"demurrage", "Demurrage", f.Demurrage},
		{"dispatch", "Dispatch", f.Dispatch},
		{"rate", "Rate", f.Rate},
		{"quantity", "Quantity", f.Quantity},
	}
}

// parameterFields are the laytime parameters with their display units.
func parameterFields(f domain.LaytimeForm) []field {
	return []field{
		{"allowedLaytime", "Allowed Laytime", f.AllowedLaytime + " days"},
		{"demurrage", "Demurrage", "$" + f.Demurrage + "/day"},
		{"dispatch", "Dispatch", "$" + f.Dispatch + "/day"},
		{"rate", "Rate", f.Rate + " MT/day"},
		{"quantity", "Quantity", f.Quantity + " MT"},
	}
}

var eventHeaders = []string{
	"Event",
	"Day",
	"Start Date Time",
	"End Date Time",
	"Time Utilization",
	"% Utilization",
	"Laytime Consumed",
	"Laytime Remaining",
}

func eventFields(e domain.EventRecord) []field {
	return []field{
		{"event", "Event", e.Event},
		{"day", "Day", e.Day},
		{"startDateTime", "Start Date Time", e.StartDateTime},
		{"endDateTime", "End Date Time", e.EndDateTime},
		{"timeUtilization", "Time Utilization", e.TimeUtilization},
		{"percentUtilization", "% Utilization", e.PercentUtilization},
		{"laytimeConsumed", "Laytime Consumed", e.LaytimeConsumed},
		{"laytimeRemaining", "Laytime Remaining", e.LaytimeRemaining},
	}
}

func eventRow(e domain.EventRecord) []string {
	fields := eventFields(e)
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = f.value
	}
	return row
}

func laytimeFields(l LaytimeData) []field {
	return []field{
		{"laytimeAllowed", "Laytime Allowed", l.LaytimeAllowed},
		{"calculationDate", "Calculation Date", l.CalculationDate},
		{"requiredDays", "Required Days", laytime.FormatNumber(l.RequiredDays)},
		{"deltaDays", "Delta Days", laytime.FormatNumber(l.DeltaDays)},
		{"mode", "Mode", laytime.Badge(l.Mode)},
		{"amount", "Amount", laytime.FormatNumber(l.Amount)},
	}
}
