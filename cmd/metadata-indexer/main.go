package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/weiawesome/wes-image-enhancer/internal/app"
	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/handler"
	"github.com/weiawesome/wes-image-enhancer/internal/indexer"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	pkglog "github.com/weiawesome/wes-image-enhancer/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateIndexer(); err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("invalid config")
	}

	app.InitLogger(cfg, "metadata-indexer")
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

	ix := indexer.New(store, repos.Images, metrics.NewCollector("metadata_indexer"))
	h := handler.NewSQSHandler(ix)

	l.Info().Str("table", cfg.Metadata.ImageTableName).Msg("metadata-indexer ready")

	lambda.Start(h.HandleSQSEvent)
}
