package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"marithon/internal/port"
)

// ParsePDFText reads the embedded text layer of a PDF, one line per text row.
// A scanned PDF yields no lines and no error.
func ParsePDFText(content []byte) (lines []port.ParsedLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("reading pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", pageNo, err)
		}
		lineNo := 0
		for _, row := range rows {
			var b strings.Builder
			x0, y0, x1, y1 := 0.0, 0.0, 0.0, 0.0
			for i, t := range row.Content {
				b.WriteString(t.S)
				if i == 0 || t.X < x0 {
					x0 = t.X
				}
				if i == 0 || t.X+t.W > x1 {
					x1 = t.X + t.W
				}
				y0, y1 = t.Y, t.Y+t.FontSize
			}
			text := strings.TrimSpace(b.String())
			if text == "" {
				continue
			}
			lineNo++
			lines = append(lines, port.ParsedLine{
				Text:   text,
				Page:   pageNo,
				BBox:   [4]float64{x0, y0, x1, y1},
				LineNo: lineNo,
			})
		}
	}
	return lines, nil
}

// ParseDOCX extracts the paragraphs of word/document.xml as lines. Legacy
// binary .doc files fall back to their printable text runs.
func ParseDOCX(content []byte) ([]port.ParsedLine, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return printableRuns(content), nil
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document.xml: %w", err)
		}
		defer func() { _ = rc.Close() }()
		return docxParagraphs(rc)
	}
	return nil, errors.New("docx archive has no word/document.xml")
}

func docxParagraphs(r io.Reader) ([]port.ParsedLine, error) {
	dec := xml.NewDecoder(r)
	var (
		lines  []port.ParsedLine
		para   strings.Builder
		inText bool
	)
	flush := func() {
		text := strings.Join(strings.Fields(para.String()), " ")
		para.Reset()
		if text == "" {
			return
		}
		lines = append(lines, port.ParsedLine{Text: text, Page: 1, LineNo: len(lines) + 1})
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte(' ')
			case "br":
				flush()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			case "tc":
				para.WriteByte(' ')
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	flush()
	return lines, nil
}

func printableRuns(content []byte) []port.ParsedLine {
	var lines []port.ParsedLine
	var run strings.Builder
	emit := func() {
		text := strings.Join(strings.Fields(run.String()), " ")
		run.Reset()
		if len(text) < 4 {
			return
		}
		lines = append(lines, port.ParsedLine{Text: text, Page: 1, LineNo: len(lines) + 1})
	}
	for _, b := range content {
		r := rune(b)
		if b == '\r' || b == '\n' || !(unicode.IsPrint(r) && r < unicode.MaxASCII) {
			emit()
			continue
		}
		run.WriteByte(b)
	}
	emit()
	return lines
}

// ParsePlaintext splits text into trimmed, non-empty lines on page 1.
func ParsePlaintext(content []byte) []port.ParsedLine {
	var lines []port.ParsedLine
	text := strings.ToValidUTF8(string(content), "")
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		lines = append(lines, port.ParsedLine{Text: s, Page: 1, LineNo: len(lines) + 1})
	}
	return lines
}
