package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/coursekit/platform-service/internal/auth"
	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/config"
	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/handlers"
	"github.com/coursekit/platform-service/internal/rbac"
	"github.com/coursekit/platform-service/internal/repositories/postgres"
	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/utils"
	"github.com/coursekit/platform-service/internal/validator"
	"github.com/coursekit/platform-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (optional; the cache layer degrades to always-miss)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Load the role -> permissions policy
	policy, err := rbac.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to load role policy: %v", err)
	}

	// Token codec and password hasher
	codec := token.NewCodec(cfg.JWT.Secret)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Event publisher (Kafka when brokers are configured)
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	} else {
		publisher = events.NewNoopPublisher()
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerDeps{
		Repo:      repoManager.GetRepository(),
		RepoMgr:   repoManager,
		Cache:     cache.NewCacheManager(redisClient),
		Codec:     codec,
		Hasher:    hasher,
		Publisher: publisher,
		Logger:    slogLogger,
		Validator: validator.NewValidator(),
		Config:    cfg,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, codec, policy, logger, !cfg.IsProduction())

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services (closes the publisher and repositories)
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
