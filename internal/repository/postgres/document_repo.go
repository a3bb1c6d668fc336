package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marithon/internal/domain"
	"marithon/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, user_id, original_name, file_type, content_type, file_size,
		s3_bucket, s3_key, status, attempts, parser_mode, error, result,
		processed_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.UserID, doc.OriginalName, doc.FileType, doc.ContentType, doc.FileSize,
		doc.S3Bucket, doc.S3Key, doc.Status, doc.Attempts, doc.ParserMode, doc.Error, doc.Result,
		doc.ProcessedAt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByUser count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByUser: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs, `
		UPDATE documents
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM documents
			WHERE status = 'queued'
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (r *documentRepo) MarkProcessing(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, `
		UPDATE documents
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status <> 'processing'
		RETURNING *`, docID, userID)
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("documentRepo.MarkProcessing: %w", err)
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE id = $1 AND user_id = $2)", docID, userID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.MarkProcessing lookup: %w", err)
	}
	if exists {
		return nil, domain.ErrDocumentBusy
	}
	return nil, domain.ErrDocumentNotFound
}

func (r *documentRepo) UpdateResult(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			status = $1, parser_mode = $2, error = $3, result = $4,
			processed_at = $5, updated_at = $6
		 WHERE id = $7`,
		doc.Status, doc.ParserMode, doc.Error, doc.Result,
		doc.ProcessedAt, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
