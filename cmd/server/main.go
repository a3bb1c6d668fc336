package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"marithon/internal/config"
	"marithon/internal/handler"
	"marithon/internal/logging"
	"marithon/internal/parser"
	_ "marithon/internal/parser/claude"
	_ "marithon/internal/parser/gemini"
	_ "marithon/internal/parser/openai"
	"marithon/internal/port"
	"marithon/internal/repository/postgres"
	"marithon/internal/router"
	"marithon/internal/service"
	"marithon/internal/sof"
	s3storage "marithon/internal/storage/s3"
	"marithon/internal/validator"
)

const (
	shutdownTimeout  = 15 * time.Second
	denylistPurgeInt = time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	denylist := postgres.NewTokenDenylistRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	calcRepo := postgres.NewCalculationRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the extraction pipeline
	ocr, err := parser.NewOCRChain(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR providers: %w", err)
	}
	if ocr == nil {
		logger.Warn().Msg("no OCR provider configured; scanned PDFs will not be transcribed")
	}
	pipeline, err := sof.NewPipelineFromConfig(parser.NewDocParser(ocr), cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction pipeline: %w", err)
	}
	engine := validator.NewEngine(validator.DefaultRegistry())

	// Initialize services
	authSvc := service.NewAuthService(userRepo, denylist, cfg.JWT)
	fileSvc := service.NewFileService(docRepo, s3Client, &cfg.S3)
	docSvc := service.NewDocumentService(docRepo, s3Client, pipeline, engine)
	calcSvc := service.NewCalculationService(calcRepo, docRepo)

	worker := service.NewParseQueueWorker(docRepo, docSvc, service.ParseQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	}, logger)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Document:    handler.NewDocumentHandler(fileSvc, docSvc),
		Extract:     handler.NewExtractHandler(docSvc, cfg.S3.MaxFileSizeBytes()),
		Calculation: handler.NewCalculationHandler(calcSvc),
		Health:      handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		worker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		purgeDenylist(gctx, denylist, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// purgeDenylist drops expired revoked-token rows until ctx is canceled.
func purgeDenylist(ctx context.Context, denylist port.TokenDenylist, logger zerolog.Logger) {
	ticker := time.NewTicker(denylistPurgeInt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := denylist.PurgeExpired(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("purging token denylist")
				continue
			}
			if n > 0 {
				logger.Info().Int64("purged", n).Msg("token denylist purged")
			}
		}
	}
}
