package parser

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"marithon/internal/port"
)

// Parser modes recorded in extraction metadata.
const (
	ModePDFText        = "pdf_text"
	ModePDFEmpty       = "pdf_empty"
	ModeDOCX           = "docx"
	ModePlaintext      = "plaintext"
	ModeOCRUnavailable = "ocr_unavailable"
	ocrModePrefix      = "ocr_"
)

// DocParser routes a document to the right line parser by extension and
// falls back to OCR for PDFs without a text layer. It implements
// port.DocumentParser.
type DocParser struct {
	ocr port.OCRParser
}

// NewDocParser creates a DocParser. ocr may be nil when no provider is configured.
func NewDocParser(ocr port.OCRParser) *DocParser {
	return &DocParser{ocr: ocr}
}

func (p *DocParser) Parse(ctx context.Context, filename string, content []byte, forceOCR bool) (*port.ParsedDocument, error) {
	log := zerolog.Ctx(ctx)
	doc := &port.ParsedDocument{OCRAvailable: p.ocr != nil}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch ext {
	case "pdf":
		if forceOCR {
			doc.Lines, doc.Mode = p.runOCR(ctx, filename, content)
			return doc, nil
		}
		lines, err := ParsePDFText(content)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("parser.DocParser: text layer unreadable")
		}
		if len(lines) > 0 {
			doc.Lines, doc.Mode = lines, ModePDFText
			return doc, nil
		}
		if ocrLines, mode := p.runOCR(ctx, filename, content); len(ocrLines) > 0 {
			doc.Lines, doc.Mode = ocrLines, mode
			return doc, nil
		}
		doc.Mode = ModePDFEmpty
		return doc, nil
	case "docx", "doc":
		lines, err := ParseDOCX(content)
		if err != nil {
			return nil, err
		}
		doc.Lines, doc.Mode = lines, ModeDOCX
		return doc, nil
	default:
		doc.Lines, doc.Mode = ParsePlaintext(content), ModePlaintext
		return doc, nil
	}
}

func (p *DocParser) runOCR(ctx context.Context, filename string, content []byte) ([]port.ParsedLine, string) {
	if p.ocr == nil {
		return nil, ModeOCRUnavailable
	}
	out, err := p.ocr.Transcribe(ctx, port.OCRInput{
		FileBytes:   content,
		ContentType: "application/pdf",
		FileName:    filename,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", filename).Msg("parser.DocParser: OCR failed")
		return nil, ModeOCRUnavailable
	}
	if len(out.Lines) == 0 {
		return nil, ModeOCRUnavailable
	}
	return out.Lines, ocrModePrefix + out.Provider
}
