package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/artifact"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/command"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/config"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/pdf"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/render"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/server"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage/audit"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/telemetry"
	tmpl "github.com/GSA-TTS/spiffworkflow-connector/internal/template"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("artifact-connector", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var opts []tmpl.Option
	for name, meta := range cfg.Templates.Meta {
		opts = append(opts, tmpl.WithMeta(name+".html", tmpl.Meta{
			Associated:         meta.Associated,
			HasIDTeamChecklist: meta.IDTeamChecklist,
		}))
	}
	registry, err := tmpl.NewRegistry(os.DirFS(cfg.Templates.Path), opts...)
	if err != nil {
		log.Fatalf("Failed to load templates from %s: %v", cfg.Templates.Path, err)
	}
	logger.Info("templates loaded",
		slog.String("path", cfg.Templates.Path),
		slog.Any("names", registry.Names()))

	controlURL, err := render.Launch()
	if err != nil {
		log.Fatalf("Failed to launch browser: %v", err)
	}
	pool := render.NewPool(controlURL, cfg.Renderer.PoolSize, logger)
	defer pool.Close()

	store, err := storage.NewMinioStore(storage.MinioOptions{
		Region:         cfg.Storage.Region,
		AccessKey:      cfg.Storage.AccessKey,
		SecretKey:      cfg.Storage.SecretKey,
		Endpoint:       cfg.Storage.Endpoint,
		PublicEndpoint: cfg.Storage.PublicEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to create object store client: %v", err)
	}
	gateway := storage.NewGateway(store, cfg.Storage.Bucket, cfg.Storage.LinkExpiry)

	var auditor command.Auditor
	var auditReader command.AuditReader
	if cfg.Audit.Enabled {
		auditStore, err := audit.New(cfg.Audit.Path)
		if err != nil {
			log.Fatalf("Failed to open audit store: %v", err)
		}
		defer auditStore.Close()
		auditor = auditStore
		auditReader = auditStore
	}

	compositor := artifact.NewCompositor(pool, pdf.NewMerger(), logger)
	service := artifact.NewService(registry, compositor, gateway, logger)
	handler := command.NewArtifactsHandler(service, auditor, logger)

	srv := server.New(cfg.Server.Port, cfg.Server.RequestTimeout, logger)
	srv.Router.Post("/v1/do/artifacts/GenerateArtifact", handler.HandleGenerateArtifact)
	srv.Router.Post("/v1/do/artifacts/GetLinkToArtifact", handler.HandleGetLink)
	srv.Router.Post("/v1/do/artifacts/GenerateHtmlPreview", handler.HandleGeneratePreview)
	srv.Router.Get("/v1/commands", command.HandleCommands(logger))
	if auditReader != nil {
		srv.Router.Get("/v1/artifacts/recent", command.NewAuditHandler(auditReader, logger).HandleRecent)
	}
	srv.Router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping connector...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Connector shutdown complete")
}
