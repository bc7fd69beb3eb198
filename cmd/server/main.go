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

	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/internal/app/controller"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/ikkim/member-directory/internal/db"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/router"
	"github.com/ikkim/member-directory/internal/scheduler"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/internal/websocket"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting member directory server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     logLevel,
		"upload_driver": cfg.Upload.Driver,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(cfg.Admin); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token revocation is optional. The interfaces must stay untyped nil
	// when redis is disabled.
	var (
		revoker service.TokenRevoker
		checker middleware.RevocationChecker
	)
	if cfg.Redis.Enabled() {
		store, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer store.Close()
		revoker, checker = store, store
	} else {
		logger.Warn("Redis not configured, logout will not revoke tokens")
	}

	fileStore, presigner, err := newFileStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	database := db.GetDB()
	memberRepo := repository.NewMemberRepository(database)
	businessRepo := repository.NewBusinessRepository(database)
	familyRepo := repository.NewFamilyRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	adminRepo := repository.NewAdminRepository(database)
	viewRepo := repository.NewProfileViewRepository(database)

	// Initialize services
	authService := service.NewAuthService(
		adminRepo,
		memberRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	memberService := service.NewMemberService(memberRepo)
	businessService := service.NewBusinessService(businessRepo, memberRepo)
	familyService := service.NewFamilyService(familyRepo, memberRepo)
	ratingService := service.NewRatingService(ratingRepo, businessRepo)
	directoryService := service.NewDirectoryService(
		memberRepo,
		directory.NewPipeline(directory.NewSorter(cfg.Directory.Locale)),
		directory.NewAggregator(cfg.Directory.MediaBaseURL, ratingService.Fetcher()),
		cfg.Directory.PageSize,
	)
	profileViewService := service.NewProfileViewService(viewRepo, memberRepo, hub)
	exportService := service.NewExportService(memberRepo)

	views := scheduler.NewProfileViewScheduler(profileViewService, cfg.Scheduler.CleanupSpec, cfg.Scheduler.ProfileViewRetention)
	if err := views.Start(); err != nil {
		logger.Fatal("Failed to start profile view scheduler", err)
	}
	defer views.Stop()

	// Initialize controllers
	uploader := controller.NewUploader(fileStore, storage.Limits{
		MaxFileBytes: cfg.Upload.MaxFileBytes,
		MaxFiles:     cfg.Upload.MaxGalleryFiles,
	})
	controllers := router.Controllers{
		Auth:        controller.NewAuthController(authService),
		Member:      controller.NewMemberController(memberService, directoryService, exportService, uploader),
		Directory:   controller.NewDirectoryController(directoryService),
		Business:    controller.NewBusinessController(businessService, uploader),
		Family:      controller.NewFamilyController(familyService),
		Rating:      controller.NewRatingController(ratingService),
		Upload:      controller.NewUploadController(uploader, presigner),
		ProfileView: controller.NewProfileViewController(profileViewService, hub),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, checker)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}

// newFileStore picks the upload driver. The presigner is nil for local disk.
func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, storage.Presigner, error) {
	switch cfg.Upload.Driver {
	case config.UploadDriverS3:
		s3Store := storage.NewS3Storage(ctx, cfg.S3)
		return s3Store, s3Store, nil
	default:
		local, err := storage.NewLocalStorage(cfg.Upload.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		return local, nil, nil
	}
}
