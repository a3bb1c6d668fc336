package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"marithon/internal/port"
)

// TranscriptionPrompt instructs a vision model to transcribe a Statement of
// Facts line by line.
const TranscriptionPrompt = `You are an OCR engine for maritime Statement of Facts documents. Transcribe the provided document exactly as printed, line by line, in reading order.

IMPORTANT INSTRUCTIONS:
- Do not summarise, translate or correct anything. Keep times such as 0730, 07.30 or 23:50-00:10 exactly as written.
- Keep table rows on a single line with cells separated by a single space.
- Skip blank lines.

Return ONLY valid JSON with no markdown formatting and no explanation, using this schema:
{"lines": [{"page": 1, "text": ""}]}`

type transcription struct {
	Lines []struct {
		Page int    `json:"page"`
		Text string `json:"text"`
	} `json:"lines"`
}

// ParseTranscription decodes the JSON emitted by a model following
// TranscriptionPrompt into ordered lines, numbering lines per page.
func ParseTranscription(text string) ([]port.ParsedLine, error) {
	text = stripCodeFence(text)

	var t transcription
	if err := json.Unmarshal([]byte(text), &t); err != nil {
		return nil, fmt.Errorf("parsing transcription JSON: %w (raw: %s)", err, Truncate(text, 500))
	}

	lines := make([]port.ParsedLine, 0, len(t.Lines))
	counters := map[int]int{}
	for _, l := range t.Lines {
		s := strings.TrimSpace(l.Text)
		if s == "" {
			continue
		}
		page := l.Page
		if page <= 0 {
			page = 1
		}
		counters[page]++
		lines = append(lines, port.ParsedLine{Text: s, Page: page, LineNo: counters[page]})
	}
	return lines, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Truncate shortens s to maxLen bytes for error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
