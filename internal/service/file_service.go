package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marithon/internal/config"
	"marithon/internal/domain"
	"marithon/internal/intake"
	"marithon/internal/port"
	s3storage "marithon/internal/storage/s3"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	UserID uuid.UUID
	File   multipart.File
	Header *multipart.FileHeader
}

// FileService stores Statement of Facts uploads and queues them for extraction.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.Document, error)
	GetDownloadURL(ctx context.Context, userID, docID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}

type fileService struct {
	docRepo port.DocumentRepository
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		docRepo: docRepo,
		storage: storage,
		cfg:     cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.Document, error) {
	if input.File == nil || input.Header == nil {
		return nil, domain.ErrMissingFile
	}

	fileType, err := intake.Check(input.Header.Filename, input.File, input.Header.Size, s.cfg.MaxFileSizeBytes())
	if err != nil {
		return nil, err
	}

	docID := uuid.New()
	key := s3storage.ObjectKey(input.UserID, docID, input.Header.Filename)
	contentType := domain.AllowedFileTypes[fileType]
	logger := zerolog.Ctx(ctx).With().Str("document_id", docID.String()).Logger()

	logger.Info().
		Str("filename", input.Header.Filename).
		Str("content_type", contentType).
		Int64("size", input.Header.Size).
		Msg("uploading statement of facts")

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		logger.Error().Err(err).Msg("storage upload failed")
		return nil, domain.ErrUploadFailed
	}

	doc := &domain.Document{
		ID:           docID,
		UserID:       input.UserID,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		ContentType:  contentType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        key,
		Status:       domain.DocumentStatusQueued,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			logger.Warn().Err(delErr).Msg("removing orphaned upload")
		}
		return nil, fmt.Errorf("fileService.Upload: %w", err)
	}

	return doc, nil
}

func (s *fileService) GetDownloadURL(ctx context.Context, userID, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.cfg.PresignExpiry)
}

func (s *fileService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("document_id", docID.String()).Msg("deleting document")

	if err := s.storage.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		return fmt.Errorf("deleting from storage: %w", err)
	}
	return s.docRepo.Delete(ctx, userID, docID)
}
