package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-image-enhancer/internal/app"
	"github.com/weiawesome/wes-image-enhancer/internal/cache"
	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/handler"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	"github.com/weiawesome/wes-image-enhancer/internal/service"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateAPI(); err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("invalid config")
	}

	app.InitLogger(cfg, "image-api")
	l := pkglog.L()

	ctx := context.Background()
	store, err := app.NewStorage(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init storage")
	}

	repos, err := app.NewRepositories(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init repositories")
	}
	defer repos.Close()

	// The cache is optional; the API serves straight from the repository without it.
	var outcomeCache cache.OutcomeCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisOutcomeCache(cfg.Redis, cfg.Cache.Prefix)
		if err != nil {
			l.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis unavailable, serving without cache")
		} else {
			outcomeCache = redisCache
			defer redisCache.Close()
		}
	}

	collector := metrics.NewCollector("image_api")
	queryService := service.NewQueryService(repos.Outcomes, repos.Images, store, outcomeCache, cfg.Cache.TTL, collector)
	httpHandler := handler.NewHTTPHandler(queryService, collector.Handler())

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(pkglog.GinMiddleware(l, "/health", "/metrics"))

	httpHandler.RegisterRoutes(router)
	if local, ok := store.(*storage.LocalStorage); ok {
		router.Static(storage.LocalFilesRoute, local.GetBasePath())
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := ginadapter.New(router)
		l.Info().Msg("image-api running behind API Gateway")
		lambda.Start(adapter.ProxyWithContext)
		return
	}

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Info().Str("addr", addr).Msg("image-api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("server exited")
}
