package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"novelhub/database"
	"novelhub/internal/config"
	"novelhub/internal/microservices/http-api/handler"
	"novelhub/internal/microservices/http-api/middleware"
	"novelhub/internal/microservices/http-api/repository"
	"novelhub/internal/microservices/http-api/service"
	"novelhub/internal/microservices/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	// Repositories
	novelRepo := repository.NewNovelRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	regionRepo := repository.NewRegionRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	readingListRepo := repository.NewReadingListRepository(db)
	chatRepo := repository.NewChatRepository(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Redis read-through cache for the filter panel reference data.
	// A missing Redis is tolerated: reads fall back to Postgres.
	refCache, err := repository.NewReferenceCache(
		cfg.RedisURL, cfg.RedisPassword,
		time.Duration(cfg.CacheTTL)*time.Second,
		regionRepo, genreRepo, logger,
	)
	if err != nil {
		return fmt.Errorf("reference cache: %w", err)
	}
	defer refCache.Close()

	// Realtime plumbing: the changefeed publishes NOTIFY for the chat
	// service and bridges LISTEN notifications into the hub.
	feed, err := websocket.NewChangefeed(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("changefeed: %w", err)
	}
	defer feed.Close()

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, refreshTokenRepo, cfg)
	novelService := service.NewNovelService(novelRepo, reviewRepo)
	genreService := service.NewGenreService(genreRepo, refCache)
	regionService := service.NewRegionService(regionRepo, refCache)
	reviewService := service.NewReviewService(reviewRepo, novelRepo)
	readingListService := service.NewReadingListService(readingListRepo, novelRepo)
	chatService := service.NewChatService(chatRepo, feed)

	hub := websocket.NewHub(chatService, logger)
	go hub.Run(ctx)
	go feed.Run(ctx, hub)

	// HTTP layer
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))
	handler.NewNovelHandler(novelService).RegisterRoutes(api.Group("/novels"), authService)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api.Group("/novels"), authService)
	handler.NewGenreHandler(genreService).RegisterRoutes(api.Group("/genres"), authService)
	handler.NewRegionHandler(regionService).RegisterRoutes(api.Group("/regions"), authService)
	handler.NewReadingListHandler(readingListService).RegisterRoutes(api.Group("/reading-list"), authService)
	handler.NewChatHandler(chatService).RegisterRoutes(api.Group("/chat"), authService)

	r.GET("/ws/chat",
		middleware.OptionalAuth(authService),
		websocket.WSHandler(hub, authService, cfg.ChatRateLimit, cfg.ChatRateBurst),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
