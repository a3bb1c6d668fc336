package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Summary"
	sheetEvents  = "Events"
	sheetRaw     = "Raw Data"
)

// XLSX renders r as a workbook with Summary, Events (only when there are
// events) and Raw Data sheets.
func XLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summary := [][]string{
		{reportTitle},
		{"Generated on:", r.GeneratedAt.Format("2006-01-02")},
		{""},
		{"Vessel and Cargo Details"},
		{"Field", "Value"},
	}
	for _, fl := range formFields(r.Form)[:6] {
		summary = append(summary, []string{fl.label, fl.value})
	}
	summary = append(summary, []string{""}, []string{"Laytime Parameters"}, []string{"Field", "Value"})
	for _, fl := range parameterFields(r.Form) {
		summary = append(summary, []string{fl.label, fl.value})
	}
	summary = append(summary, []string{""}, []string{"Laytime Summary"}, []string{"Field", "Value"})
	for _, fl := range laytimeFields(r.Laytime) {
		summary = append(summary, []string{fl.label, fl.value})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetSummary, "A", "B", 28); err != nil {
		return nil, err
	}

	if len(r.Events) > 0 {
		if _, err := f.NewSheet(sheetEvents); err != nil {
			return nil, err
		}
		rows := [][]string{eventHeaders}
		for _, e := range r.Events {
			rows = append(rows, eventRow(e))
		}
		if err := writeRows(f, sheetEvents, rows); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetEvents, "A1", "H1", bold); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetRaw); err != nil {
		return nil, err
	}
	raw := [][]string{csvHeader}
	for _, fl := range formFields(r.Form) {
		raw = append(raw, []string{"Form Data", fl.key, fl.value})
	}
	for i, e := range r.Events {
		category := fmt.Sprintf("Event %d", i+1)
		for _, fl := range eventFields(e) {
			raw = append(raw, []string{category, fl.key, fl.value})
		}
	}
	for _, fl := range laytimeFields(r.Laytime) {
		raw = append(raw, []string{"Laytime", fl.key, fl.value})
	}
	if err := writeRows(f, sheetRaw, raw); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
