package domain

// ExtractionSchemaVersion is bumped whenever the shape of ExtractionResult
// changes in a way cached copies cannot be read back.
const ExtractionSchemaVersion = 1

// TimestampLayout is the ISO-8601 local-time layout of extracted timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// BusinessData holds the commercial fields pulled out of a Statement of Facts.
// A nil pointer means the field was not found.
type BusinessData struct {
	Vessel     *string  `json:"vessel"`
	VoyageFrom *string  `json:"voyage_from"`
	VoyageTo   *string  `json:"voyage_to"`
	Port       *string  `json:"port"`
	Cargo      *string  `json:"cargo"`
	Operation  *string  `json:"operation"`
	Demurrage  *float64 `json:"demurrage"`
	Dispatch   *float64 `json:"dispatch"`
	Rate       *float64 `json:"rate"`
	Quantity   *float64 `json:"quantity"`
	Allowed    *float64 `json:"allowed_laytime"`
}

// NonEmptyCount reports how many fields carry a value.
func (b *BusinessData) NonEmptyCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, s := range []*string{b.Vessel, b.VoyageFrom, b.VoyageTo, b.Port, b.Cargo, b.Operation} {
		if s != nil && *s != "" {
			n++
		}
	}
	for _, f := range []*float64{b.Demurrage, b.Dispatch, b.Rate, b.Quantity, b.Allowed} {
		if f != nil {
			n++
		}
	}
	return n
}

// EventSource locates an event line inside the source document.
type EventSource struct {
	Page   int        `json:"page"`
	BBox   [4]float64 `json:"bbox"`
	LineNo int        `json:"line_no"`
}

// ExtractedEvent is a document line classified into an ontology label.
type ExtractedEvent struct {
	Event          string      `json:"event"`
	Confidence     float64     `json:"confidence"`
	RawText        string      `json:"raw_text"`
	Timestamps     []string    `json:"timestamps"`
	Source         EventSource `json:"source"`
	MatchedSynonym string      `json:"matched_synonym"`
}

// EventInterval pairs a start-type event with the end-type event that closes it.
type EventInterval struct {
	StartEvent    ExtractedEvent `json:"start_event"`
	EndEvent      ExtractedEvent `json:"end_event"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	DurationHours float64        `json:"duration_hours"`
}

// TimelineRow is a tabular Statement of Facts event line.
type TimelineRow struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Remarks     string `json:"remarks"`
}

// SampleLine echoes a parsed line in debug mode.
type SampleLine struct {
	Text   string `json:"text"`
	Page   int    `json:"page"`
	LineNo int    `json:"line_no"`
}

// ExtractionMeta describes how a result was produced.
type ExtractionMeta struct {
	Model        string       `json:"model"`
	Threshold    float64      `json:"threshold"`
	OntologySize int          `json:"ontology_size"`
	NumLines     int          `json:"num_lines"`
	NumEvents    int          `json:"num_events"`
	ParserMode   string       `json:"parser_mode"`
	OCRAvailable bool         `json:"ocr_available"`
	SampleLines  []SampleLine `json:"sample_lines,omitempty"`
}

// FieldStatus is the validation verdict for a single extracted field.
type FieldStatus struct {
	Status   FieldValidationStatus `json:"status"`
	Messages []string              `json:"messages,omitempty"`
}

// LaytimeSummary is the computed outcome attached to a document.
type LaytimeSummary struct {
	Result LaytimeResult `json:"result"`
	Chart  ChartSlices   `json:"chart"`
	Text   string        `json:"text"`
}

// ExtractionResult is the full payload returned for a processed document.
type ExtractionResult struct {
	SchemaVersion int                     `json:"schema_version"`
	DocumentID    string                  `json:"document_id,omitempty"`
	BusinessData  *BusinessData           `json:"business_data"`
	VesselInfo    map[string]string       `json:"vessel_info,omitempty"`
	Timeline      []TimelineRow           `json:"timeline,omitempty"`
	Events        []ExtractedEvent        `json:"events"`
	Intervals     []EventInterval         `json:"intervals"`
	Meta          ExtractionMeta          `json:"meta"`
	Validation    map[string]*FieldStatus `json:"validation,omitempty"`
	Summary       *LaytimeSummary         `json:"summary,omitempty"`
}
