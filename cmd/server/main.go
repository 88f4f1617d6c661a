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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"elearning_platform/internal/config"
	"elearning_platform/internal/handler"
	"elearning_platform/internal/middleware"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/repository"
	"elearning_platform/internal/service"
	"elearning_platform/pkg/logger"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Подключение к PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// Реестр комнат и рассыльщик. Реестр всегда локальный; при
	// нескольких процессах кадры ходят через Redis Pub/Sub.
	reg := registry.NewInMemory()
	var broadcaster registry.Broadcaster
	if cfg.Redis.FanoutEnabled {
		broadcaster = registry.NewRedisBroadcaster(rdb, reg, appLogger)
		appLogger.Info("Fan-out backed by Redis Pub/Sub")
	} else {
		broadcaster = registry.NewLocalBroadcaster(reg, appLogger)
	}
	defer broadcaster.Close()

	// Инициализация репозиториев, сервисов, handlers
	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, broadcaster, cfg, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, cfg.Chat.RateLimit, cfg.Chat.RateWindowSeconds, appLogger)

	handlers := handler.NewHandlers(services, reg, cfg, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	// Запуск HTTP сервера
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.Health.Check)

	// API v1
	v1 := router.Group("/api/v1")
	{
		public := v1.Group("/auth")
		{
			public.POST("/login", rateLimitMiddleware.Limit(), handlers.Auth.Login)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			// Догоняющее чтение после реконнекта: история комнаты,
			// уведомления, отметка о прочтении
			protected.GET("/rooms/:room/messages", handlers.Chat.GetMessages)
			protected.GET("/notifications", handlers.Notification.List)
			protected.POST("/notifications/mark-read", handlers.Notification.MarkRead)
		}
	}

	// WebSocket endpoints: чат открыт анонимным, уведомления - только
	// с токеном (гейт внутри handler, чтобы отказ шел close-кадром)
	router.GET("/ws/chat/:room", handlers.WebSocket.HandleChat)
	router.GET("/ws/notifications", handlers.WebSocket.HandleNotifications)

	return router
}
