package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"marithon/internal/domain"
	"marithon/internal/export"
)

var generated = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleReport(events []domain.EventRecord) export.Report {
	form := domain.LaytimeForm{
		Vessel:         "MV Ocean Star",
		VoyageFrom:     "Santos",
		VoyageTo:       "Qingdao",
		Cargo:          "Soya Beans, in bulk",
		Port:           "Santos",
		Operation:      "load",
		AllowedLaytime: "5",
		Demurrage:      "20000",
		Dispatch:       "10000",
		Rate:           "10000",
		Quantity:       "55000",
	}
	result := domain.LaytimeResult{
		RequiredDays: 5.5,
		AllowedDays:  5,
		DeltaDays:    0.5,
		Mode:         domain.ModeDemurrage,
		Amount:       10000,
	}
	return export.NewReport(form, events, result, generated, generated)
}

func sampleEvents() []domain.EventRecord {
	return []domain.EventRecord{
		{
			Event:              "NOR TENDERED",
			Day:                "TUE",
			StartDateTime:      "12 Mar, 2024 08:15",
			EndDateTime:        "12 Mar, 2024 08:15",
			TimeUtilization:    "00h:00m",
			PercentUtilization: "0",
			LaytimeConsumed:    "00h:00m",
			LaytimeRemaining:   "5.0",
		},
		{
			Event:              "COMMENCED LOADING <HATCH 1>",
			Day:                "TUE",
			StartDateTime:      "12 Mar, 2024 10:00",
			EndDateTime:        "12 Mar, 2024 14:00",
			TimeUtilization:    "04h:00m",
			PercentUtilization: "100",
			LaytimeConsumed:    "04h:00m",
			LaytimeRemaining:   "4.8",
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportXLSX, f)

	_, err = export.ParseFormat("docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "laytime-calculation_MV_Ocean_Star_2024-03-14.csv",
		export.Filename(domain.ExportCSV, "MV Ocean Star", generated))
	assert.Equal(t, "laytime-calculation-report_2024-03-14.pdf",
		export.Filename(domain.ExportPDF, "", generated))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "M_V_Ocean_Star", export.SanitizeFilename("M.V. Ocean / Star"))
	assert.Len(t, export.SanitizeFilename(strings.Repeat("a", 150)), 100)
}

func TestNewReport_DefaultsOperation(t *testing.T) {
	r := export.NewReport(domain.LaytimeForm{}, nil, domain.LaytimeResult{AllowedDays: 3}, generated, generated)

	assert.Equal(t, "discharge", r.Form.Operation)
	assert.NotNil(t, r.Events)
	assert.Equal(t, "3.00 Days", r.Laytime.LaytimeAllowed)
	assert.Equal(t, "2024-03-14T09:30:00Z", r.Laytime.CalculationDate)
}

func TestCSV(t *testing.T) {
	body, err := export.CSV(sampleReport(sampleEvents()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("Category,Field,Value\n")), "body starts with the header row")

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Category", "Field", "Value"}, rows[0])
	assert.Equal(t, []string{"Form Data", "vessel", "MV Ocean Star"}, rows[1])
	assert.Equal(t, []string{"Form Data", "cargo", "Soya Beans, in bulk"}, rows[4])
	assert.Equal(t, []string{"Event 1", "event", "NOR TENDERED"}, rows[12])
	assert.Equal(t, []string{"Event 2", "percentUtilization", "100"}, rows[25])

	last := rows[len(rows)-1]
	assert.Equal(t, []string{"Laytime", "amount", "10,000"}, last)
	// header + 11 form + 2*8 events + 6 laytime
	assert.Len(t, rows, 1+11+16+6)
}

func TestJSON_RoundTrip(t *testing.T) {
	r := sampleReport(sampleEvents())

	body, err := export.JSON(r)
	require.NoError(t, err)

	doc, err := export.ImportJSON(body)
	require.NoError(t, err)

	assert.Equal(t, r.Form, doc.FormData)
	assert.Equal(t, r.Events, doc.EventsData)
	assert.Equal(t, r.Laytime, doc.LaytimeData)
	assert.Equal(t, "1.0", doc.Metadata.Version)
	assert.Equal(t, export.Source, doc.Metadata.Source)
	assert.Equal(t, "2024-03-14T09:30:00Z", doc.Metadata.ExportDate)
}

func TestImportJSON_Rejects(t *testing.T) {
	_, err := export.ImportJSON([]byte("{not json"))
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	_, err = export.ImportJSON([]byte(`{"metadata":{"version":"2.0"}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}

func TestImportJSON_EmptyEvents(t *testing.T) {
	doc, err := export.ImportJSON([]byte(`{"formData":{"vessel":"X"}}`))
	require.NoError(t, err)
	assert.Equal(t, "X", doc.FormData.Vessel)
	assert.NotNil(t, doc.EventsData)
	assert.Empty(t, doc.EventsData)
}

func TestXLSX_Sheets(t *testing.T) {
	body, err := export.XLSX(sampleReport(sampleEvents()))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Events", "Raw Data"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "Laytime Calculation Report", summary[0][0])
	assert.Equal(t, []string{"Vessel", "MV Ocean Star"}, summary[5])

	events, err := f.GetRows("Events")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Event", events[0][0])
	assert.Equal(t, "COMMENCED LOADING <HATCH 1>", events[2][0])

	raw, err := f.GetRows("Raw Data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Field", "Value"}, raw[0])
}

func TestXLSX_NoEventsSheetWithoutEvents(t *testing.T) {
	body, err := export.XLSX(sampleReport(nil))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Raw Data"}, f.GetSheetList())
}

func TestPDF(t *testing.T) {
	events := sampleEvents()
	for i := 0; i < 60; i++ {
		events = append(events, events[1])
	}

	body, err := export.PDF(sampleReport(events))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestHTML_EscapesValues(t *testing.T) {
	body, err := export.HTML(sampleReport(sampleEvents()))
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "<title>Laytime Calculation Report</title>")
	assert.Contains(t, html, "MV Ocean Star")
	assert.Contains(t, html, "COMMENCED LOADING &lt;HATCH 1&gt;")
	assert.Contains(t, html, "<td>100%</td>")
	assert.Contains(t, html, "$20000/day")
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r := sampleReport(sampleEvents())

	for _, format := range []domain.ExportFormat{
		domain.ExportPDF, domain.ExportXLSX, domain.ExportCSV, domain.ExportJSON, domain.ExportHTML,
	} {
		t.Run(string(format), func(t *testing.T) {
			file, err := export.Render(ctx, format, r)
			require.NoError(t, err)
			assert.NotEmpty(t, file.Body)
			assert.True(t, strings.HasSuffix(file.Name, "."+string(format)))
			assert.NotEmpty(t, file.ContentType)
		})
	}

	_, err := export.Render(ctx, domain.ExportFormat("doc"), r)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
