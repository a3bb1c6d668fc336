package port

import (
	"context"

	"github.com/google/uuid"

	"marithon/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error)
	// ClaimQueued atomically moves up to limit queued documents to processing
	// and returns them, oldest first.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
	// MarkProcessing claims a single document for synchronous extraction.
	// It returns domain.ErrDocumentBusy when a worker already holds it.
	MarkProcessing(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	UpdateResult(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}
