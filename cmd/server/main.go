package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"microblog/internal/config"
	apphttp "microblog/internal/http"
	"microblog/internal/service"
	"microblog/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer cleanup()

	indexService := service.NewIndexService(st)
	userService := service.NewUserService(st, indexService)
	graphService := service.NewGraphService(st)
	postService := service.NewPostService(st, indexService)
	timelineService := service.NewTimelineService(st, graphService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		graphService,
		postService,
		timelineService,
		indexService,
		logger,
		time.Duration(cfg.Auth.CookieTTLDays)*24*time.Hour,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("using in-memory store; data will not survive a restart")
		return store.NewMemoryStore(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Infof("using redis at %s (db %d)", cfg.Redis.Addr, cfg.Redis.DB)
		return store.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
