package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weiawesome/wes-image-enhancer/internal/app"
	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/metrics"
	"github.com/weiawesome/wes-image-enhancer/internal/mq"
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

	app.InitLogger(cfg, "enhance-worker")
	l := pkglog.L()
	l.Info().Msg("enhance-worker starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer, err := mq.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.ConsumerTopic,
		cfg.Kafka.ConsumerGroupID,
		mq.Filter{Bucket: cfg.Processor.BucketFilter, EventNames: cfg.Processor.EventNameFilters},
		dispatcher,
	)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to init kafka consumer")
	}

	metricsSrv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           collector.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", cfg.Metrics.Address).Msg("metrics server listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("metrics server failed")
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("failed to start consumer")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	l.Info().Msg("shutting down: waiting for in-flight batches to complete")
	cancel()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		consumer.Close()
		notifier.Close()
		repos.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		metricsSrv.Shutdown(shutdownCtx)
	}()

	select {
	case <-shutdownDone:
		l.Info().Msg("shutdown complete")
	case <-time.After(30 * time.Second):
		l.Warn().Msg("shutdown timed out after 30s")
	}
}
