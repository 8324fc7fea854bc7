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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/zyquraflow/docs"
	pkgmw "github.com/johnquangdev/zyquraflow/pkg/middleware"
	pkgvalidator "github.com/johnquangdev/zyquraflow/pkg/validator"

	"github.com/johnquangdev/zyquraflow/internal/adapter/handler"
	"github.com/johnquangdev/zyquraflow/internal/adapter/repository"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/cache"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/database"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/lock"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/storage"
	usecaseai "github.com/johnquangdev/zyquraflow/internal/usecase/ai"
	"github.com/johnquangdev/zyquraflow/internal/usecase/cases"
	"github.com/johnquangdev/zyquraflow/internal/usecase/session"
	"github.com/johnquangdev/zyquraflow/internal/usecase/system"
	pkgai "github.com/johnquangdev/zyquraflow/pkg/ai"
	"github.com/johnquangdev/zyquraflow/pkg/config"
)

// @title           ZyquraFlow API
// @version         1.0
// @description     Session and case service: audio upload, transcription, summarization and provider configuration.

// @BasePath  /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Structured request logging
	e.Use(middleware.RequestID())
	e.Use(pkgmw.RequestLogger(logger))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("512M"))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Printf("📦 Connecting to %s database...", cfg.Database.Driver)
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run `migrate up` before starting the server")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	sessionRepo := repository.NewSessionRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	configRepo := repository.NewConfigRepository(db)
	callRepo := repository.NewCallRecordRepository(db)

	// Provider catalog and system configuration
	log.Println("🗂️  Loading provider catalog...")
	catalog, err := system.LoadCatalog(cfg.AI.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load provider catalog: %v", err)
	}
	configStore, err := system.NewConfigStore(ctx, catalog, configRepo, logger)
	if err != nil {
		log.Fatalf("Failed to load system config: %v", err)
	}

	// Audio storage
	audioStore, err := newAudioStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize audio storage: %v", err)
	}

	// Per-session exclusion
	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session locks: %v", err)
	}
	defer closeLocker()

	// Initialize AI clients
	log.Println("🤖 Initializing AI components...")
	var stt session.SpeechToText
	switch cfg.AI.STTBackend {
	case "assemblyai":
		stt = pkgai.NewAssemblyAITranscriber(&cfg.AI)
	default:
		stt = pkgai.NewWhisperClient(&cfg.AI)
	}
	log.Printf("🎙️  Speech-to-text backend: %s", stt.Name())

	ollama := pkgai.NewOllamaClient(&cfg.AI, logger)
	if cfg.AI.GroqAPIKey == "" {
		log.Println("⚠️  AI_GROQ_API_KEY not set; summaries with the groq provider will fail")
	}
	if cfg.AI.MockFallback {
		log.Println("⚠️  Ollama mock fallback enabled")
	}
	engine := usecaseai.NewSummaryEngine(logger, ollama, pkgai.NewGroqClient(&cfg.AI))

	// Initialize use cases
	log.Println("✨ Initializing services...")
	caseService := cases.NewService(caseRepo, sessionRepo, logger)
	store := session.NewStore(sessionRepo, caseService, audioStore, locker, logger)
	linkage := session.NewLinkage(store)
	pipeline := session.NewPipeline(store, stt, engine, configStore, callRepo, session.PipelineOptions{
		TranscribeTimeout: cfg.Pipeline.TranscribeTimeout,
		SummarizeTimeout:  cfg.Pipeline.SummarizeTimeout,
	}, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		handler.NewSessionHandler(store, linkage, pipeline, logger),
		handler.NewCaseHandler(caseService, linkage, logger),
		handler.NewSystemHandler(configStore, ollama, audioStore, cfg.Server.Environment, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newAudioStorage(ctx context.Context, cfg *config.Config) (storage.AudioStorage, error) {
	if cfg.Storage.Type == "minio" {
		log.Printf("📦 Connecting to MinIO at %s (bucket %s)...", cfg.Storage.Endpoint, cfg.Storage.BucketName)
		client, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	log.Printf("📁 Storing audio under %s", cfg.Storage.DataRoot)
	local, err := storage.NewLocalStore(cfg.Storage.DataRoot)
	if err != nil {
		return nil, err
	}
	return local, nil
}

func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.Lock.Backend != "redis" {
		log.Println("🔒 Using in-process session locks")
		return lock.NewMemoryLocker(), func() {}, nil
	}

	log.Println("📦 Connecting to Redis...")
	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("🔒 Using Redis session locks (ttl %s)", cfg.Lock.TTL)
	return lock.NewRedisLocker(client, cfg.Lock.KeyPrefix, cfg.Lock.TTL), func() { _ = client.Close() }, nil
}
