// Package sof turns a Statement of Facts into structured laytime data:
// business fields, classified events with timestamps, and start/end
// intervals.
package sof

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marithon/internal/config"
	"marithon/internal/domain"
	"marithon/internal/port"
)

// Options tune a single pipeline run.
type Options struct {
	// Threshold overrides the configured confidence threshold when non-nil.
	Threshold *float64
	Debug     bool
	ForceOCR  bool
}

// Pipeline runs parsing, business extraction, event classification and
// interval pairing over one document.
type Pipeline struct {
	parser      port.DocumentParser
	business    *BusinessExtractor
	classifier  *Classifier
	threshold   float64
	sampleLines int
	now         func() time.Time
}

// NewPipeline wires a pipeline from its parts.
func NewPipeline(parser port.DocumentParser, business *BusinessExtractor, classifier *Classifier, cfg config.ExtractionConfig) *Pipeline {
	sample := cfg.SampleLines
	if sample <= 0 {
		sample = 20
	}
	return &Pipeline{
		parser:      parser,
		business:    business,
		classifier:  classifier,
		threshold:   cfg.Threshold,
		sampleLines: sample,
		now:         time.Now,
	}
}

// NewPipelineFromConfig loads patterns and ontology from cfg (falling back
// to the built-in sets) and wires a pipeline.
func NewPipelineFromConfig(parser port.DocumentParser, cfg config.ExtractionConfig) (*Pipeline, error) {
	patterns, err := LoadPatterns(cfg.PatternsPath)
	if err != nil {
		return nil, err
	}
	ontology, err := LoadOntology(cfg.OntologyPath)
	if err != nil {
		return nil, err
	}
	return NewPipeline(parser, NewBusinessExtractor(patterns), NewClassifier(ontology), cfg), nil
}

// Run extracts an ExtractionResult from the named document.
func (p *Pipeline) Run(ctx context.Context, filename string, content []byte, opts Options) (*domain.ExtractionResult, error) {
	doc, err := p.parser.Parse(ctx, filename, content, opts.ForceOCR)
	if err != nil {
		return nil, fmt.Errorf("sof.Pipeline.Run: %w", err)
	}

	threshold := p.threshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	texts := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		texts[i] = l.Text
	}
	joined := strings.Join(texts, "\n")

	base := p.baseDate(joined)
	times := NewTimeExtractor(base)

	events := []domain.ExtractedEvent{}
	for _, line := range doc.Lines {
		label, score, matched, ok := p.classifier.Classify(line.Text)
		if !ok || score < threshold {
			continue
		}
		stamps := []string{}
		for _, t := range times.Extract(line.Text) {
			stamps = append(stamps, t.Format(domain.TimestampLayout))
		}
		events = append(events, domain.ExtractedEvent{
			Event:          label,
			Confidence:     math.Round(score*10000) / 10000,
			RawText:        line.Text,
			Timestamps:     stamps,
			Source:         domain.EventSource{Page: line.Page, BBox: line.BBox, LineNo: line.LineNo},
			MatchedSynonym: matched,
		})
	}

	result := &domain.ExtractionResult{
		SchemaVersion: domain.ExtractionSchemaVersion,
		BusinessData:  p.business.Extract(texts),
		VesselInfo:    VesselInfo(joined),
		Timeline:      ParseTimeline(texts),
		Events:        events,
		Intervals:     PairIntervals(events),
		Meta: domain.ExtractionMeta{
			Model:        ClassifierModel,
			Threshold:    threshold,
			OntologySize: p.classifier.OntologySize(),
			NumLines:     len(doc.Lines),
			NumEvents:    len(events),
			ParserMode:   doc.Mode,
			OCRAvailable: doc.OCRAvailable,
		},
	}
	if opts.Debug {
		n := min(p.sampleLines, len(doc.Lines))
		for _, l := range doc.Lines[:n] {
			result.Meta.SampleLines = append(result.Meta.SampleLines, domain.SampleLine{Text: l.Text, Page: l.Page, LineNo: l.LineNo})
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", filename).
		Str("parser_mode", doc.Mode).
		Int("lines", len(doc.Lines)).
		Int("events", len(events)).
		Int("intervals", len(result.Intervals)).
		Msg("sof.Pipeline.Run: extraction finished")

	return result, nil
}

// baseDate is the first date printed in the document, or today.
func (p *Pipeline) baseDate(text string) time.Time {
	if d, _, ok := findDate(text); ok {
		return d
	}
	y, m, d := p.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
