package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/consumers"
	"github.com/spacesedan/feedbackflow/internal/db"
	"github.com/spacesedan/feedbackflow/internal/feedback"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spacesedan/feedbackflow/internal/monitoring"
	"github.com/spacesedan/feedbackflow/internal/render"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Consumer terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return exitConfig, err
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kafkaCfg := kafka_client.GetKafkaConfig(cfg)
	for attempt := 0; ; attempt++ {
		err := kafka_client.InitProducer(kafkaCfg)
		if err == nil {
			break
		}
		if attempt+1 >= clients.MAX_RETRIES {
			return exitRuntime, err
		}

		backoff := clients.BackoffFor(attempt)
		slog.Warn("Kafka init failed, retrying...",
			slog.String("error", err.Error()),
			slog.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return exitOK, nil
		case <-time.After(backoff):
		}
	}
	defer kafka_client.CloseProducer()

	valkeyClient, err := clients.InitValkey(cfg)
	if err != nil {
		return exitRuntime, err
	}
	defer clients.CloseValkey()

	valkeyHealthy := &atomic.Bool{}
	valkeyHealthy.Store(true)
	go monitoring.MonitorHealth(ctx, "valkey", monitoring.HEALTHCHECK_TIMER, valkeyClient.Ping, valkeyHealthy)

	dynamoClient, err := clients.GetDynamoDBClient(cfg)
	if err != nil {
		return exitRuntime, err
	}
	store := db.NewReportStore(dynamoClient, cfg.ReportsTable, cfg.ReportTTL)

	formatter := feedback.NewFormatter(render.NewTerminal(cfg.RenderColor))
	feedbackConsumer := consumers.NewFeedbackConsumer(consumers.FeedbackConsumerConfig{
		ResultsTopic:  cfg.KafkaResultsTopic,
		BatchSize:     cfg.BatchSize,
		BatchTimeout:  cfg.BatchTimeout,
		StripMarkdown: cfg.StripMarkdown,
	}, formatter, valkeyClient, store, kafka_client.PublishToKafka).WithHealthCheck(valkeyHealthy)

	kafka_client.RegisterConsumer(kafkaCfg.Topic, feedbackConsumer.Start)

	if err := kafka_client.StartConsumer(ctx, kafkaCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
		return exitRuntime, err
	}

	slog.Info("[Main] Consumer stopped")
	return exitOK, nil
}
