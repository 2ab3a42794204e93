//	@title			Communal Collage API
//	@version		1.0
//	@description	Token-gated shared image uploads backed by S3-compatible storage with a local-disk fallback.
//
//	@host		localhost:5001
//	@BasePath	/api

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collage/service/internal/admission"
	"github.com/collage/service/internal/config"
	"github.com/collage/service/internal/server"
	"github.com/collage/service/internal/storage"
	"github.com/collage/service/internal/upload"
)

func main() {
	cfg := config.Load()

	local, err := storage.NewLocalStore(cfg.LocalStorageDir)
	if err != nil {
		log.Fatalf("local storage init failed: %v", err)
	}

	// A malformed endpoint leaves only local storage; connectivity problems
	// are detected later by the storage layer itself.
	var remote storage.ObjectStore
	minioStore, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageRegion,
		cfg.StorageUseSSL,
		cfg.StorageTimeout,
	)
	if err != nil {
		log.Printf("object storage client init failed: %v", err)
	} else {
		remote = minioStore
		log.Printf("object storage client configured (endpoint: %s)", cfg.StorageEndpoint)
	}

	store := storage.New(remote, local)
	if err := store.EnsureBucketExists(context.Background(), cfg.StorageBucket); err != nil {
		log.Fatalf("no storage available for bucket %q: %v", cfg.StorageBucket, err)
	}

	// Wire dependencies: admission + storage → service → handler
	tokens := admission.NewController(nil)
	uploadSvc, err := upload.NewService(tokens, store, upload.Options{
		Bucket:            cfg.StorageBucket,
		TempDir:           cfg.UploadTempDir,
		MaxBytes:          cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
	})
	if err != nil {
		log.Fatalf("upload service init failed: %v", err)
	}
	uploadHandler := upload.NewHandler(uploadSvc)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.NewRouter(uploadHandler, cfg),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s, storage=%s)", cfg.Port, cfg.AppEnv, store.Mode())
		if !cfg.IsProduction() {
			log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
