package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/dtroode/jobtracker-server/internal/api/http/context"
	"github.com/dtroode/jobtracker-server/internal/api/http/handler"
	"github.com/dtroode/jobtracker-server/internal/api/http/router"
	httpServer "github.com/dtroode/jobtracker-server/internal/api/http/server"
	"github.com/dtroode/jobtracker-server/internal/config"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
	"github.com/dtroode/jobtracker-server/internal/repository/postgres"
	"github.com/dtroode/jobtracker-server/internal/server"
	"github.com/dtroode/jobtracker-server/internal/service"
	storage "github.com/dtroode/jobtracker-server/internal/storage/minio"
	"github.com/dtroode/jobtracker-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()
	logger.Info("database ready", "schema_version", db.SchemaVersion())

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	tokenService := service.NewTokenService(tokenManager, sessionRepo, tokenManager.RefreshTTL(), logger)
	identity := service.NewIdentity(userRepo, tokenService, service.CredentialPolicy{
		BcryptCost:        cfg.Auth.BcryptCost,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	}, logger)
	ctxMgr := httpctx.NewManager()

	var (
		attachments   handler.AttachmentService
		objectStorage model.Storage
	)
	if cfg.Storage.Enabled {
		objectStorage = newStorageClient(ctx, cfg.Storage, logger)
		logger.Info("attachments enabled", "bucket", cfg.Storage.Bucket)
	}

	jobService := service.NewJob(jobRepo, objectStorage, logger)
	if objectStorage != nil {
		attachments = service.NewAttachment(jobService, objectStorage, cfg.Storage.MaxAttachmentSize, logger)
	}

	r := router.New(identity, jobService, attachments, db, ctxMgr, cfg.HTTP.CORSAllowedOrigins, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newStorageClient(ctx context.Context, cfg config.Storage, logger *logger.Logger) *storage.Client {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}

	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}
	return storageClient
}
