package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/config"
	"github.com/d60-Lab/gin-social/internal/api"
	"github.com/d60-Lab/gin-social/internal/api/handler"
	"github.com/d60-Lab/gin-social/internal/broker"
	"github.com/d60-Lab/gin-social/internal/cache"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/internal/model"
	"github.com/d60-Lab/gin-social/internal/realtime"
	"github.com/d60-Lab/gin-social/internal/repository"
	"github.com/d60-Lab/gin-social/internal/service"
	"github.com/d60-Lab/gin-social/pkg/database"
	"github.com/d60-Lab/gin-social/pkg/logger"
	"github.com/d60-Lab/gin-social/pkg/tracing"
)

// @title gin-social API
// @version 1.0
// @description 关注关系、通知与推荐用户服务
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db, model.All()...); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	views := cache.NewNoopViewCache()
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connect redis failed", zap.Error(err))
		}
		defer rdb.Close()
		views = cache.NewRedisViewCache(rdb, cfg.Suggestions.CacheTTL)
	}

	var publisher broker.Publisher
	if cfg.Kafka.Enabled {
		publisher = broker.NewKafkaPublisher(cfg.Kafka)
		defer publisher.Close()
	}

	hub := realtime.NewHub()
	dispatcher := service.NewEventDispatcher(publisher, hub, cfg.Dispatcher.QueueSize)
	stopDispatcher := dispatcher.Start(cfg.Dispatcher.Workers)

	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	users := service.NewUserService(userRepo)
	h := handler.NewHandler(handler.Services{
		Users: users,
		Relations: service.NewRelationshipService(users, userRepo, repository.NewFollowRepository(db),
			notifRepo, repository.NewTransactor(db), views, dispatcher),
		Suggestions:   service.NewSuggestionService(users, userRepo, views, cfg.Suggestions),
		Notifications: service.NewNotificationService(users, notifRepo),
		Navigation:    service.NewNavigationService(),
		Posts:         service.NewPostService(users, repository.NewPostRepository(db)),
	}, hub)

	verifier, err := identity.NewJWTVerifier(cfg.Identity)
	if err != nil {
		logger.Fatal("init identity verifier failed", zap.Error(err))
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(cfg, h, verifier),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	hub.Close()
	if err := stopDispatcher(shutdownCtx); err != nil {
		logger.Warn("dispatcher did not drain", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
