package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/weiawesome/wes-image-enhancer/internal/app"
	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/handler"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	"github.com/weiawesome/wes-image-enhancer/internal/processor"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("invalid config")
	}

	app.InitLogger(cfg, "enhance-lambda")
	l := pkglog.L()

	// Clients are built once per container and reused across invocations.
	ctx := context.Background()
	store, err := app.NewStorage(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init storage")
	}

	repos, err := app.NewRepositories(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init repositories")
	}

	notifier, err := app.NewNotifier(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init notifier")
	}

	enhancer, err := processor.NewImageEnhancer(store, repos.Outcomes, notifier, cfg.Enhancer)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init enhancer")
	}

	collector := metrics.NewCollector("image_enhancer")
	dispatcher := processor.NewDispatcher(enhancer, cfg.Enhancer.EnhancedPrefix, collector)
	h := handler.NewS3Handler(dispatcher)

	l.Info().
		Str("table", cfg.Metadata.TableName).
		Str("target_bucket", cfg.Enhancer.TargetBucket).
		Str("notify", cfg.Notify.Driver).
		Msg("enhance-lambda ready")

	lambda.Start(h.HandleS3Event)
}
