package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Agure-la/alx-poll/internal/config"
	"github.com/Agure-la/alx-poll/internal/container"
	"github.com/Agure-la/alx-poll/internal/handler"
	"github.com/Agure-la/alx-poll/internal/middleware"
	"github.com/Agure-la/alx-poll/internal/repository"
	"github.com/Agure-la/alx-poll/internal/service"
	"github.com/Agure-la/alx-poll/pkg/database"
	"github.com/Agure-la/alx-poll/pkg/logger"
	"github.com/Agure-la/alx-poll/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if r.db != nil {
		r.log.Info("Closing database connection pool...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.db.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Database health check failed before closing")
		}
		healthCancel()

		r.db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting alx-poll server")

	// Create dependency injection container
	container, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Initialize database connection
	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize repositories and services
	pollRepo := repository.NewPollRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	cacheService := container.GetCacheService()
	pollService := service.NewPollService(pollRepo, cacheService, cfg.PublicBaseURL, log.Logger)
	voteService := service.NewVoteService(pollRepo, voteRepo, cacheService, log.Logger)
	analyticsService := service.NewAnalyticsService(pollRepo, voteRepo, cacheService, log.Logger)

	// Setup router
	router := setupRouter(container, pollService, voteService, analyticsService, cacheService)

	// Create HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Create resources manager for cleanup
	resources := &Resources{
		db:          db,
		redisClient: container.GetRedisClient(),
		server:      server,
		log:         log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(
	container *container.Container,
	pollService *service.PollService,
	voteService *service.VoteService,
	analyticsService *service.AnalyticsService,
	cacheService *service.CacheService,
) *chi.Mux {
	cfg := container.GetConfig()
	log := container.GetLogger()
	authService := container.GetAuthService()

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(cacheService, log)
	authHandler := handler.NewAuthHandler(log)
	pollHandler := handler.NewPollHandler(pollService, log)
	votingHandler := handler.NewVotingHandler(voteService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Public poll surfaces. A session, when present, resolves the
		// voter identity; anonymous voters identify by email or phone.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(authService, log))

			r.Get("/polls/{pollID}", pollHandler.GetPoll)
			r.Get("/polls/shared/{shareToken}", pollHandler.GetSharedPoll)
			r.Get("/polls/{pollID}/qr", pollHandler.GetPollQR)

			r.Post("/polls/{pollID}/votes", votingHandler.SubmitVote)
			r.Get("/polls/{pollID}/my-vote", votingHandler.GetMyVoteStatus)
			r.Get("/votes/{voteID}", votingHandler.VerifyVote)

			r.Get("/polls/{pollID}/results", analyticsHandler.GetResults)
			r.Get("/polls/{pollID}/analytics", analyticsHandler.GetAnalytics)
		})

		// Owner surfaces (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))

			r.Post("/polls", pollHandler.CreatePoll)
			r.Get("/polls", pollHandler.ListMyPolls)
			r.Patch("/polls/{pollID}", pollHandler.UpdatePoll)
			r.Delete("/polls/{pollID}", pollHandler.DeletePoll)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", authHandler.GetProfile)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
