package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marithon/internal/domain"
	"marithon/internal/parser"
	"marithon/internal/service"
	"marithon/internal/sof"
	"marithon/internal/validator"
	"marithon/mocks"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleExtraction() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		SchemaVersion: domain.ExtractionSchemaVersion,
		BusinessData: &domain.BusinessData{
			Vessel:    strPtr("MV OCEAN STAR"),
			Port:      strPtr("Santos"),
			Cargo:     strPtr("Soybeans"),
			Operation: strPtr("discharge"),
			Demurrage: floatPtr(12000),
			Dispatch:  floatPtr(6000),
			Rate:      floatPtr(10000),
			Quantity:  floatPtr(55000),
			Allowed:   floatPtr(5),
		},
		Events: []domain.ExtractedEvent{
			{Event: "nor_tendered", Confidence: 0.9, RawText: "NOR tendered 0815", Timestamps: []string{"2024-03-01T08:15:00"}},
		},
		Intervals: []domain.EventInterval{},
		Meta:      domain.ExtractionMeta{ParserMode: "text", NumLines: 12, NumEvents: 1},
	}
}

func completedDoc(t *testing.T, userID uuid.UUID) *domain.Document {
	t.Helper()
	raw, err := json.Marshal(sampleExtraction())
	require.NoError(t, err)
	return &domain.Document{
		ID:           uuid.New(),
		UserID:       userID,
		OriginalName: "sof.pdf",
		S3Bucket:     "test-bucket",
		S3Key:        "sof/k.pdf",
		Status:       domain.DocumentStatusCompleted,
		Result:       raw,
	}
}

type docFixture struct {
	repo      *mocks.MockDocumentRepo
	storage   *mocks.MockObjectStorage
	extractor *mocks.MockExtractor
	svc       service.DocumentService
}

func newDocFixture() docFixture {
	f := docFixture{
		repo:      new(mocks.MockDocumentRepo),
		storage:   new(mocks.MockObjectStorage),
		extractor: new(mocks.MockExtractor),
	}
	f.svc = service.NewDocumentService(f.repo, f.storage, f.extractor, validator.NewEngine(validator.DefaultRegistry()))
	return f
}

func TestDocumentService_Extract(t *testing.T) {
	f := newDocFixture()
	content := []byte("statement of facts")
	f.extractor.On("Run", mock.Anything, "sof.txt", content, sof.Options{Debug: true}).Return(sampleExtraction(), nil)

	res, err := f.svc.Extract(context.Background(), "sof.txt", content, sof.Options{Debug: true})

	require.NoError(t, err)
	assert.NotNil(t, res.Validation)
	require.NotNil(t, res.Summary)
	assert.Equal(t, domain.ModeDemurrage, res.Summary.Result.Mode)
	assert.InDelta(t, 0.5, res.Summary.Result.DeltaDays, 1e-9)
}

func TestDocumentService_Extract_EmptyContent(t *testing.T) {
	f := newDocFixture()

	_, err := f.svc.Extract(context.Background(), "sof.txt", nil, sof.Options{})

	assert.ErrorIs(t, err, domain.ErrMissingFile)
	f.extractor.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Extract_PipelineError(t *testing.T) {
	f := newDocFixture()
	f.extractor.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("no text"))

	_, err := f.svc.Extract(context.Background(), "sof.txt", []byte("x"), sof.Options{})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestDocumentService_RunOCR_ReturnsStoredResult(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := completedDoc(t, userID)
	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)

	res, err := f.svc.RunOCR(context.Background(), userID, doc.ID, sof.Options{})

	require.NoError(t, err)
	assert.Equal(t, "MV OCEAN STAR", *res.BusinessData.Vessel)
	f.repo.AssertNotCalled(t, "MarkProcessing", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_RunOCR_ProcessesQueuedDocument(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, OriginalName: "sof.pdf", S3Bucket: "b", S3Key: "k", Status: domain.DocumentStatusQueued}
	processing := *doc
	processing.Status = domain.DocumentStatusProcessing

	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)
	f.repo.On("MarkProcessing", mock.Anything, userID, doc.ID).Return(&processing, nil)
	f.storage.On("Download", mock.Anything, "b", "k").Return([]byte("%PDF-1.4"), nil)
	f.extractor.On("Run", mock.Anything, "sof.pdf", []byte("%PDF-1.4"), sof.Options{ForceOCR: true}).Return(sampleExtraction(), nil)
	f.repo.On("UpdateResult", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.Status == domain.DocumentStatusCompleted && d.ParserMode == "text" && d.ProcessedAt != nil && len(d.Result) > 0
	})).Return(nil)

	res, err := f.svc.RunOCR(context.Background(), userID, doc.ID, sof.Options{ForceOCR: true})

	require.NoError(t, err)
	assert.Equal(t, doc.ID.String(), res.DocumentID)
	f.repo.AssertExpectations(t)
}

func TestDocumentService_RunOCR_ForceOCRReprocessesCompleted(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := completedDoc(t, userID)

	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)
	f.repo.On("MarkProcessing", mock.Anything, userID, doc.ID).Return(nil, domain.ErrDocumentBusy)

	_, err := f.svc.RunOCR(context.Background(), userID, doc.ID, sof.Options{ForceOCR: true})

	assert.ErrorIs(t, err, domain.ErrDocumentBusy)
}

func TestDocumentService_RunOCR_FailureMarksDocumentFailed(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, S3Bucket: "b", S3Key: "k", Status: domain.DocumentStatusProcessing}

	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)
	f.repo.On("MarkProcessing", mock.Anything, userID, doc.ID).Return(doc, nil)
	f.storage.On("Download", mock.Anything, "b", "k").Return(nil, errors.New("gone"))
	f.repo.On("UpdateResult", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.Status == domain.DocumentStatusFailed && d.Error != ""
	})).Return(nil)

	_, err := f.svc.RunOCR(context.Background(), userID, doc.ID, sof.Options{})

	assert.Error(t, err)
	f.repo.AssertExpectations(t)
}

func TestDocumentService_Clauses(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := completedDoc(t, userID)
	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)

	data, err := f.svc.Clauses(context.Background(), userID, doc.ID)

	require.NoError(t, err)
	assert.Equal(t, "Santos", *data.Port)
	assert.Equal(t, 55000.0, *data.Quantity)
}

func TestDocumentService_Clauses_NotProcessed(t *testing.T) {
	f := newDocFixture()
	userID, docID := uuid.New(), uuid.New()
	f.repo.On("GetByID", mock.Anything, userID, docID).
		Return(&domain.Document{ID: docID, Status: domain.DocumentStatusQueued}, nil)

	_, err := f.svc.Clauses(context.Background(), userID, docID)

	assert.ErrorIs(t, err, domain.ErrDocumentNotProcessed)
}

func TestDocumentService_Summaries_ComputedWhenMissing(t *testing.T) {
	f := newDocFixture()
	userID := uuid.New()
	doc := completedDoc(t, userID)
	f.repo.On("GetByID", mock.Anything, userID, doc.ID).Return(doc, nil)

	summary, err := f.svc.Summaries(context.Background(), userID, doc.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeDemurrage, summary.Result.Mode)
	assert.InDelta(t, 6000, summary.Result.Amount, 1e-6)
	assert.NotEmpty(t, summary.Text)
}

func TestDocumentService_ProcessDocument_Success(t *testing.T) {
	f := newDocFixture()
	doc := &domain.Document{ID: uuid.New(), OriginalName: "sof.txt", S3Bucket: "b", S3Key: "k", Status: domain.DocumentStatusProcessing, Attempts: 1}

	f.storage.On("Download", mock.Anything, "b", "k").Return([]byte("sof"), nil)
	f.extractor.On("Run", mock.Anything, "sof.txt", []byte("sof"), sof.Options{}).Return(sampleExtraction(), nil)
	f.repo.On("UpdateResult", mock.Anything, mock.Anything).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.DocumentStatusCompleted, doc.Status)
	assert.Empty(t, doc.Error)
}

func TestDocumentService_ProcessDocument_RateLimitRequeues(t *testing.T) {
	f := newDocFixture()
	doc := &domain.Document{ID: uuid.New(), OriginalName: "sof.pdf", S3Bucket: "b", S3Key: "k", Status: domain.DocumentStatusProcessing, Attempts: 1}

	f.storage.On("Download", mock.Anything, "b", "k").Return([]byte("%PDF"), nil)
	f.extractor.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 30))
	f.repo.On("UpdateResult", mock.Anything, mock.Anything).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.DocumentStatusQueued, doc.Status)
	assert.Contains(t, doc.Error, "claude")
}

func TestDocumentService_ProcessDocument_RateLimitExhaustedFails(t *testing.T) {
	f := newDocFixture()
	doc := &domain.Document{ID: uuid.New(), S3Bucket: "b", S3Key: "k", Status: domain.DocumentStatusProcessing, Attempts: 3}

	f.storage.On("Download", mock.Anything, "b", "k").Return([]byte("%PDF"), nil)
	f.extractor.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, parser.NewRateLimitError("gemini", errors.New("429"), 0))
	f.repo.On("UpdateResult", mock.Anything, mock.Anything).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.DocumentStatusFailed, doc.Status)
	assert.NotEmpty(t, doc.Error)
}
