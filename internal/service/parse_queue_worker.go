package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"marithon/internal/port"
)

// ParseQueueConfig holds settings for the parse queue worker.
type ParseQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	// Timeout bounds a single document extraction. Zero means five minutes.
	Timeout time.Duration
}

// ParseQueueWorker polls for queued documents and dispatches them for extraction.
type ParseQueueWorker struct {
	docRepo    port.DocumentRepository
	docService DocumentService
	cfg        ParseQueueConfig
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

// NewParseQueueWorker creates a new ParseQueueWorker.
func NewParseQueueWorker(docRepo port.DocumentRepository, docService DocumentService, cfg ParseQueueConfig, logger zerolog.Logger) *ParseQueueWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &ParseQueueWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
		logger:     logger.With().Str("component", "parse_queue").Logger(),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ParseQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.logger.Info().
		Dur("poll", w.cfg.PollInterval).
		Int("concurrency", w.cfg.Concurrency).
		Int("max_retries", w.cfg.MaxRetries).
		Msg("started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("shutting down, waiting for in-flight extractions")
			w.wg.Wait()
			w.logger.Info().Msg("shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.logger.Error().Err(err).Msg("claiming queued documents")
				continue
			}

			for i := range docs {
				doc := docs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// In-flight extractions outlive the poll context so shutdown
					// does not abandon a claimed document mid-way.
					parseCtx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
					defer cancel()
					parseCtx = w.logger.WithContext(parseCtx)

					w.logger.Debug().Str("document_id", doc.ID.String()).Int("attempt", doc.Attempts).Msg("dispatching document")
					w.docService.ProcessDocument(parseCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
