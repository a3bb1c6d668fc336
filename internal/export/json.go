package export

import (
	"encoding/json"
	"fmt"
	"time"

	"marithon/internal/domain"
)

// Metadata describes a JSON export.
type Metadata struct {
	ExportDate string `json:"exportDate"`
	Version    string `json:"version"`
	Source     string `json:"source"`
}

// Document is the JSON export layout.
type Document struct {
	Metadata    Metadata             `json:"metadata"`
	FormData    domain.LaytimeForm   `json:"formData"`
	EventsData  []domain.EventRecord `json:"eventsData"`
	LaytimeData LaytimeData          `json:"laytimeData"`
}

// JSON renders r as an indented JSON document.
func JSON(r Report) ([]byte, error) {
	doc := Document{
		Metadata: Metadata{
			ExportDate: r.GeneratedAt.UTC().Format(time.RFC3339),
			Version:    FormatVersion,
			Source:     Source,
		},
		FormData:    r.Form,
		EventsData:  r.Events,
		LaytimeData: r.Laytime,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON reads a JSON export back. Form values and event rows come back
// exactly as they were written.
func ImportJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if doc.Metadata.Version != "" && doc.Metadata.Version != FormatVersion {
		return nil, fmt.Errorf("%w: version %q", domain.ErrInvalidImport, doc.Metadata.Version)
	}
	if doc.EventsData == nil {
		doc.EventsData = []domain.EventRecord{}
	}
	return &doc, nil
}
