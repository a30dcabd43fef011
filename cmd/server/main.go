package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"

	"github.com/jengzang/bikeshare-backend-go/internal/api"
	"github.com/jengzang/bikeshare-backend-go/internal/cache"
	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/dataset"
	"github.com/jengzang/bikeshare-backend-go/internal/logging"
	"github.com/jengzang/bikeshare-backend-go/internal/observability"
	"github.com/jengzang/bikeshare-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// 加载数据集
	start := time.Now()
	ds, err := dataset.Open(ctx, cfg)
	if err != nil {
		return err
	}
	info := ds.Info()
	logger.Info("dataset loaded",
		"source", info.Source,
		"rows", info.Rows,
		"fingerprint", info.Fingerprint,
		"took", time.Since(start),
	)
	if n := ds.UnknownSeasons(); n > 0 {
		logger.Warn("records with unknown season code", "rows", n)
	}

	metrics := observability.NewMetrics()
	metrics.SetDatasetRows(info.Rows)

	// Redis 可选
	var shared *cache.RedisStore
	if cfg.RedisURL != "" {
		client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		shared = cache.NewRedisStore(client, "bikeshare:", cfg.CacheTTL, metrics)
		defer shared.Close()
		logger.Info("shared summary cache enabled")
	}

	exploreService := service.NewExploreService(ds, service.ExploreOptions{
		CacheTTL:     cfg.CacheTTL,
		CacheEntries: cfg.CacheEntries,
		Shared:       shared,
		Metrics:      metrics,
		Logger:       logger,
	})

	// 初始化路由
	router := api.SetupRouter(cfg, api.Deps{
		Explore: exploreService,
		Metrics: metrics,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           handlers.CompressHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
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
