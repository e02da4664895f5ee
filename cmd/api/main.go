package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/mould-triage/internal/application"
	apptriage "github.com/bryanwahyu/mould-triage/internal/application/triage"
	"github.com/bryanwahyu/mould-triage/internal/config"
	domain "github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/ai/openai"
	"github.com/bryanwahyu/mould-triage/internal/infra/httpserver"
	"github.com/bryanwahyu/mould-triage/internal/infra/queue"
	"github.com/bryanwahyu/mould-triage/internal/infra/storage"
	"github.com/bryanwahyu/mould-triage/internal/middleware"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vision, err := openai.NewAzureClient(openai.Config{
		Endpoint:   cfg.Vision.Endpoint,
		APIKey:     cfg.Vision.APIKey,
		Deployment: cfg.Vision.Deployment,
		APIVersion: cfg.Vision.APIVersion,
	})
	if err != nil {
		log.Fatalf("vision client error: %v", err)
	}

	publisher, err := queue.Open(cfg.Queue.ConnectionString)
	if err != nil {
		log.Fatalf("queue init error: %v", err)
	}

	readiness := map[string]middleware.HealthChecker{"queue": publisher}

	var uploads domain.ImageStore
	switch cfg.Upload.Backend {
	case "minio":
		store, err := storage.NewMinio(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		uploads = store
		readiness["uploads"] = store
	default:
		store, err := storage.NewLocal(cfg.Upload.Dir)
		if err != nil {
			log.Fatalf("upload dir error: %v", err)
		}
		uploads = store
	}

	svc := &apptriage.Service{
		Vision:    vision,
		Publisher: publisher,
		Uploads:   uploads,
		Queues:    cfg.Queue.Names,
		Clock:     application.SystemClock{},
		Observe:   middleware.RecordOutcome,
	}

	handler := httpserver.NewRouter(ctx, svc, httpserver.Options{
		MaxUploadBytes:     cfg.Upload.MaxBytes,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateCapacity:       cfg.RateLimit.Capacity,
		RateRefill:         cfg.RateLimit.RefillRate,
		Readiness:          readiness,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// one model call plus one publish
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s deployment=%s queues=%s/%s/%s upload_backend=%s",
			addr, cfg.Vision.Deployment,
			cfg.Queue.Names.Urgent, cfg.Queue.Names.Standard, cfg.Queue.Names.NoMould,
			cfg.Upload.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
