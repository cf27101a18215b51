package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/re-geocode-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/re-geocode-service/internal/adapter/kafka"
	"github.com/couchcryptid/re-geocode-service/internal/observability"
	"github.com/couchcryptid/re-geocode-service/internal/pipeline"
)

// providersReady reports ready once at least one provider is configured. It
// backs /readyz when stream mode is off.
type providersReady struct {
	count int
}

func (r providersReady) CheckReadiness(_ context.Context) error {
	if r.count == 0 {
		return errors.New("no providers configured")
	}
	return nil
}

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP lookup API and, with KAFKA_BROKERS set, the stream pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, observability.NewMetrics())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  httpadapter.ReadinessChecker = providersReady{count: len(a.store.All())}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.StreamEnabled() {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(a.geo, a.store, cfg.DefaultStrategy, logger)
		p = pipeline.New(reader, transformer, writer, logger, a.metrics, cfg.BatchSize, cfg.BatchMaxConcurrency)
		ready = p
		logger.Info("stream mode enabled", "brokers", cfg.KafkaBrokers, "source", cfg.KafkaSourceTopic, "sink", cfg.KafkaSinkTopic)
	} else {
		logger.Info("stream mode disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, logger,
		httpadapter.WithLookupAPI(a.geo, a.store, cfg.DefaultStrategy),
	)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start stream pipeline.
	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
