package port

import "context"

// ParsedLine is one ordered line of text recovered from a document.
type ParsedLine struct {
	Text   string
	Page   int
	BBox   [4]float64
	LineNo int
}

// ParsedDocument is the line-level view of a document plus how it was read.
type ParsedDocument struct {
	Lines        []ParsedLine
	Mode         string
	OCRAvailable bool
}

// OCRInput carries the bytes of a scanned document for transcription.
type OCRInput struct {
	FileBytes   []byte
	ContentType string
	FileName    string
}

// OCROutput is the transcription returned by an OCR provider.
type OCROutput struct {
	Lines     []ParsedLine
	ModelUsed string
	Provider  string
}

// OCRParser abstracts LLM-vision transcription of scanned documents.
type OCRParser interface {
	Transcribe(ctx context.Context, input OCRInput) (*OCROutput, error)
}

// DocumentParser turns an uploaded Statement of Facts into ordered lines.
type DocumentParser interface {
	Parse(ctx context.Context, filename string, content []byte, forceOCR bool) (*ParsedDocument, error)
}
