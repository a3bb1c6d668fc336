package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marithon/internal/domain"
	"marithon/internal/laytime"
	"marithon/internal/parser"
	"marithon/internal/port"
	"marithon/internal/sof"
	"marithon/internal/validator"
)

// Extractor runs the Statement of Facts pipeline over raw file bytes.
type Extractor interface {
	Run(ctx context.Context, filename string, content []byte, opts sof.Options) (*domain.ExtractionResult, error)
}

var _ Extractor = (*sof.Pipeline)(nil)

// DocumentService defines extraction over uploaded and ad-hoc documents.
type DocumentService interface {
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error)
	// Extract runs the pipeline over a file that is not stored.
	Extract(ctx context.Context, filename string, content []byte, opts sof.Options) (*domain.ExtractionResult, error)
	// RunOCR returns the stored result of a completed document, or extracts it
	// synchronously when it has not been processed yet or ForceOCR is set.
	RunOCR(ctx context.Context, userID, docID uuid.UUID, opts sof.Options) (*domain.ExtractionResult, error)
	Clauses(ctx context.Context, userID, docID uuid.UUID) (*domain.BusinessData, error)
	Summaries(ctx context.Context, userID, docID uuid.UUID) (*domain.LaytimeSummary, error)
	// ProcessDocument is called by the queue worker for a claimed document.
	ProcessDocument(ctx context.Context, doc *domain.Document, maxAttempts int)
}

type documentService struct {
	docRepo   port.DocumentRepository
	storage   port.ObjectStorage
	extractor Extractor
	engine    *validator.Engine
	now       func() time.Time
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	extractor Extractor,
	engine *validator.Engine,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		storage:   storage,
		extractor: extractor,
		engine:    engine,
		now:       time.Now,
	}
}

func (s *documentService) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, userID, docID)
}

func (s *documentService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *documentService) Extract(ctx context.Context, filename string, content []byte, opts sof.Options) (*domain.ExtractionResult, error) {
	if len(content) == 0 {
		return nil, domain.ErrMissingFile
	}
	res, err := s.run(ctx, filename, content, opts)
	if err != nil {
		return nil, fmt.Errorf("documentService.Extract: %w", err)
	}
	return res, nil
}

func (s *documentService) RunOCR(ctx context.Context, userID, docID uuid.UUID, opts sof.Options) (*domain.ExtractionResult, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCompleted && !opts.ForceOCR {
		return validator.Decode(doc.Result)
	}

	doc, err = s.docRepo.MarkProcessing(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	res, err := s.process(ctx, doc, opts)
	if err != nil {
		s.failParsing(ctx, doc, err.Error())
		return nil, fmt.Errorf("documentService.RunOCR: %w", err)
	}
	return res, nil
}

func (s *documentService) Clauses(ctx context.Context, userID, docID uuid.UUID) (*domain.BusinessData, error) {
	res, err := s.completedResult(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if res.BusinessData == nil {
		return &domain.BusinessData{}, nil
	}
	return res.BusinessData, nil
}

func (s *documentService) Summaries(ctx context.Context, userID, docID uuid.UUID) (*domain.LaytimeSummary, error) {
	res, err := s.completedResult(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if res.Summary != nil {
		return res.Summary, nil
	}
	summary := laytime.Summarize(laytime.Prefill(domain.LaytimeForm{}, laytime.FormFromBusinessData(res.BusinessData)))
	return &summary, nil
}

func (s *documentService) ProcessDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	logger := zerolog.Ctx(ctx).With().Str("document_id", doc.ID.String()).Int("attempt", doc.Attempts).Logger()

	if _, err := s.process(ctx, doc, sof.Options{}); err != nil {
		s.handleParseError(logger.WithContext(ctx), doc, err, maxAttempts)
		return
	}
	logger.Info().Str("parser_mode", doc.ParserMode).Msg("document extracted")
}

func (s *documentService) completedResult(ctx context.Context, userID, docID uuid.UUID) (*domain.ExtractionResult, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusCompleted {
		return nil, domain.ErrDocumentNotProcessed
	}
	return validator.Decode(doc.Result)
}

// process downloads a claimed document, extracts it and stores the result.
func (s *documentService) process(ctx context.Context, doc *domain.Document, opts sof.Options) (*domain.ExtractionResult, error) {
	content, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	res, err := s.run(ctx, doc.OriginalName, content, opts)
	if err != nil {
		return nil, err
	}
	res.DocumentID = doc.ID.String()

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	now := s.now().UTC()
	doc.Status = domain.DocumentStatusCompleted
	doc.ParserMode = res.Meta.ParserMode
	doc.Error = ""
	doc.Result = raw
	doc.ProcessedAt = &now
	if err := s.docRepo.UpdateResult(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving result: %w", err)
	}
	return res, nil
}

func (s *documentService) run(ctx context.Context, filename string, content []byte, opts sof.Options) (*domain.ExtractionResult, error) {
	res, err := s.extractor.Run(ctx, filename, content, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	s.engine.Apply(ctx, res)

	summary := laytime.Summarize(laytime.Prefill(domain.LaytimeForm{}, laytime.FormFromBusinessData(res.BusinessData)))
	res.Summary = &summary
	return res, nil
}

func (s *documentService) handleParseError(ctx context.Context, doc *domain.Document, parseErr error, maxAttempts int) {
	var rlErr *parser.RateLimitError
	if errors.As(parseErr, &rlErr) && doc.Attempts < maxAttempts {
		doc.Status = domain.DocumentStatusQueued
		doc.Error = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		if err := s.docRepo.UpdateResult(ctx, doc); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("requeueing rate limited document")
			return
		}
		zerolog.Ctx(ctx).Warn().Dur("retry_after", rlErr.RetryAfter).Msg("document requeued after rate limit")
		return
	}
	s.failParsing(ctx, doc, parseErr.Error())
}

func (s *documentService) failParsing(ctx context.Context, doc *domain.Document, errMsg string) {
	zerolog.Ctx(ctx).Error().Str("document_id", doc.ID.String()).Str("error", errMsg).Msg("document extraction failed")
	doc.Status = domain.DocumentStatusFailed
	doc.Error = errMsg
	if err := s.docRepo.UpdateResult(ctx, doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("document_id", doc.ID.String()).Msg("updating failed document")
	}
}
