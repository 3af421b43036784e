package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/dtr-datecode/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/dtr-datecode/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/dtr-datecode/internal/adapter/kafka"
	"github.com/couchcryptid/dtr-datecode/internal/config"
	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
	"github.com/couchcryptid/dtr-datecode/internal/pipeline"
	"github.com/couchcryptid/dtr-datecode/internal/scheduler"
)

type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	codec := datecode.NewCodec(clockwork.NewRealClock())

	var decoder domain.Decoder = domain.CodeDecoder{}
	if cfg.DecodeCacheSize > 0 {
		decoder = cache.NewCachedDecoder(decoder, cfg.DecodeCacheSize, metrics)
		logger.Info("decode cache enabled", "size", cfg.DecodeCacheSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready sharedobs.ReadinessChecker = alwaysReady{}

	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(decoder, metrics, logger)
		var opts []pipeline.Option
		if cfg.PublishRejections {
			opts = append(opts, pipeline.WithRejecter(transformer))
		}
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize, opts...)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	var announcer *scheduler.Announcer
	var announceWriter *kafkaadapter.Writer
	if cfg.AnnounceEnabled {
		announceWriter = kafkaadapter.NewTopicWriter(cfg.KafkaBrokers, cfg.KafkaAnnounceTopic, logger)
		announcer = scheduler.NewAnnouncer(cfg.AnnounceSchedule, announceWriter, metrics, logger)
		if err := announcer.Start(); err != nil {
			logger.Error("failed to start announcer", "error", err)
			os.Exit(1)
		}
	}

	codes := httpadapter.NewCodeHandler(codec, decoder, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, codes, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if announcer != nil {
		announcer.Stop(shutdownCtx)
		if err := announceWriter.Close(); err != nil {
			logger.Error("announce writer close error", "error", err)
		}
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
}
