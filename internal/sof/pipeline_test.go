package sof_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marithon/internal/config"
	"marithon/internal/domain"
	"marithon/internal/port"
	"marithon/internal/sof"
	"marithon/mocks"
)

func sofLines(texts ...string) []port.ParsedLine {
	lines := make([]port.ParsedLine, len(texts))
	for i, t := range texts {
		lines[i] = port.ParsedLine{Text: t, Page: 1, LineNo: i}
	}
	return lines
}

func newPipeline(t *testing.T, parser port.DocumentParser) *sof.Pipeline {
	t.Helper()
	p, err := sof.NewPipelineFromConfig(parser, config.ExtractionConfig{Threshold: 0.45, SampleLines: 20})
	require.NoError(t, err)
	return p
}

func TestPipeline_Run(t *testing.T) {
	parser := new(mocks.MockDocumentParser)
	content := []byte("%PDF-1.4")
	parser.On("Parse", mock.Anything, "sof.pdf", content, false).Return(&port.ParsedDocument{
		Lines: sofLines(
			"STATEMENT OF FACTS",
			"Vessel Name: MV OCEAN STAR",
			"Date: 12/03/2024",
			"Commenced loading 0800",
			"Stopped loading 1200",
		),
		Mode:         "pdf_text",
		OCRAvailable: true,
	}, nil)

	result, err := newPipeline(t, parser).Run(context.Background(), "sof.pdf", content, sof.Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionSchemaVersion, result.SchemaVersion)
	require.NotNil(t, result.BusinessData)
	require.NotNil(t, result.BusinessData.Vessel)
	assert.Equal(t, "MV OCEAN STAR", *result.BusinessData.Vessel)
	assert.Equal(t, "MV OCEAN STAR", result.VesselInfo["Vessel Name"])

	require.Len(t, result.Events, 2)
	assert.Equal(t, "COMMENCE", result.Events[0].Event)
	assert.Equal(t, []string{"2024-03-12T08:00:00"}, result.Events[0].Timestamps)
	assert.Equal(t, 3, result.Events[0].Source.LineNo)
	assert.Equal(t, 1.0, result.Events[0].Confidence)
	assert.Equal(t, "STOP", result.Events[1].Event)

	require.Len(t, result.Intervals, 1)
	assert.Equal(t, 4.0, result.Intervals[0].DurationHours)

	assert.Equal(t, 5, result.Meta.NumLines)
	assert.Equal(t, 2, result.Meta.NumEvents)
	assert.Equal(t, "pdf_text", result.Meta.ParserMode)
	assert.True(t, result.Meta.OCRAvailable)
	assert.Equal(t, 0.45, result.Meta.Threshold)
	assert.Equal(t, sof.ClassifierModel, result.Meta.Model)
	assert.Equal(t, 19, result.Meta.OntologySize)
	assert.Nil(t, result.Meta.SampleLines)
	parser.AssertExpectations(t)
}

func TestPipeline_Run_DebugAndThreshold(t *testing.T) {
	parser := new(mocks.MockDocumentParser)
	parser.On("Parse", mock.Anything, "sof.txt", mock.Anything, true).Return(&port.ParsedDocument{
		Lines: sofLines("Commenced loading 0800", "Stopped loading 1200"),
		Mode:  "plaintext",
	}, nil)

	threshold := 1.01
	result, err := newPipeline(t, parser).Run(context.Background(), "sof.txt", []byte("x"), sof.Options{
		Threshold: &threshold,
		Debug:     true,
		ForceOCR:  true,
	})

	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.NotNil(t, result.Intervals)
	assert.Equal(t, 1.01, result.Meta.Threshold)
	require.Len(t, result.Meta.SampleLines, 2)
	assert.Equal(t, "Commenced loading 0800", result.Meta.SampleLines[0].Text)
}

func TestPipeline_Run_ParserError(t *testing.T) {
	parser := new(mocks.MockDocumentParser)
	parseErr := errors.New("boom")
	parser.On("Parse", mock.Anything, "sof.pdf", mock.Anything, false).Return(nil, parseErr)

	result, err := newPipeline(t, parser).Run(context.Background(), "sof.pdf", nil, sof.Options{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, parseErr)
}
