package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Category", "Field", "Value"}

// Writer wraps csv.Writer for exporting a report as Category,Field,Value rows.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the Category,Field,Value header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(csvHeader)
}

// WriteReport writes the form, event and laytime rows of r.
func (w *Writer) WriteReport(r Report) error {
	for _, f := range formFields(r.Form) {
		if err := w.csv.Write([]string{"Form Data", f.key, f.value}); err != nil {
			return err
		}
	}
	for i, e := range r.Events {
		category := fmt.Sprintf("Event %d", i+1)
		for _, f := range eventFields(e) {
			if err := w.csv.Write([]string{category, f.key, f.value}); err != nil {
				return err
			}
		}
	}
	for _, f := range laytimeFields(r.Laytime) {
		if err := w.csv.Write([]string{"Laytime", f.key, f.value}); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// CSV renders r as a CSV document.
func CSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	if err := w.WriteReport(r); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
