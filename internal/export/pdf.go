package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 20.0
	pdfPageBreak = 270.0
)

var pdfColWidths = []float64{40, 20, 30, 30, 25, 15, 25, 25}

var pdfHeaders = []string{"Event", "Day", "Start", "End", "Utilization", "%", "Consumed", "Remaining"}

// PDF renders r as an A4 report.
func PDF(r Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(reportTitle, true)
	pdf.SetSubject("Vessel Laytime Analysis", true)
	pdf.SetAuthor("MariThon Laytime Calculator", true)
	pdf.SetCreator("MariThon System", true)
	pdf.SetCreationDate(r.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentWidth, 8, "Generated on: "+r.GeneratedAt.Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	line := func(label, value string) {
		pdf.CellFormat(contentWidth, 6, tr(label+": "+value), "", 1, "L", false, 0, "")
	}

	section("Vessel and Cargo Details")
	for _, f := range formFields(r.Form)[:6] {
		line(f.label, f.value)
	}
	pdf.Ln(6)

	section("Laytime Parameters")
	for _, f := range parameterFields(r.Form) {
		line(f.label, f.value)
	}
	pdf.Ln(6)

	section("Laytime Summary")
	for _, f := range laytimeFields(r.Laytime) {
		line(f.label, f.value)
	}
	pdf.Ln(6)

	if len(r.Events) > 0 {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}
		section("Events Timeline")

		pdf.SetFont("Helvetica", "B", 9)
		for i, h := range pdfHeaders {
			pdf.CellFormat(pdfColWidths[i], 8, h, "", 0, "L", false, 0, "")
		}
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 8)
		for _, e := range r.Events {
			if pdf.GetY() > pdfPageBreak {
				pdf.AddPage()
			}
			for i, cell := range eventRow(e) {
				pdf.CellFormat(pdfColWidths[i], 6, tr(truncateCell(cell)), "", 0, "L", false, 0, "")
			}
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncateCell shortens table cells longer than 15 runes to 12 plus an ellipsis.
func truncateCell(s string) string {
	r := []rune(s)
	if len(r) > 15 {
		return string(r[:12]) + "..."
	}
	return s
}
