package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	kafkautils "github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/feedbackflow/internal/logging"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// maxLineSize bounds a single JSON line of feedback.
const maxLineSize = 1 << 20

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Producer terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	if len(args) != 1 {
		return exitConfig, errors.New("usage: producer <feedback.jsonl | ->")
	}

	cfg, err := config.Load()
	if err != nil {
		return exitConfig, err
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return exitConfig, fmt.Errorf("[Producer] failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	kafkaCfg := kafka_client.GetKafkaConfig(cfg)
	if err := kafka_client.InitProducer(kafkaCfg); err != nil {
		return exitRuntime, err
	}
	defer kafka_client.CloseProducer()

	sent, skipped, err := publishLines(ctx, in, func(msg models.FeedbackMessage) error {
		return kafka_client.PublishToKafka(kafkaCfg.Topic, msg.FeedbackID, msg)
	})
	slog.Info("[Producer] Finished publishing feedback",
		slog.Int("sent", sent),
		slog.Int("skipped", skipped))
	if err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// publishLines decodes one FeedbackMessage per non-empty line and hands it to
// publish. Undecodable lines are logged and skipped.
func publishLines(ctx context.Context, r io.Reader, publish func(models.FeedbackMessage) error) (int, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	sent, skipped, line := 0, 0, 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return sent, skipped, err
		}

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var msg models.FeedbackMessage
		if err := kafkautils.DeserializeFromJSON(raw, &msg); err != nil {
			slog.Warn("[Producer] Skipping invalid line", slog.Int("line", line))
			skipped++
			continue
		}
		msg.EnsureID()

		if err := publish(msg); err != nil {
			return sent, skipped, fmt.Errorf("[Producer] line %d: %w", line, err)
		}
		sent++
	}
	if err := scanner.Err(); err != nil {
		return sent, skipped, fmt.Errorf("[Producer] failed to read input: %w", err)
	}
	return sent, skipped, nil
}
