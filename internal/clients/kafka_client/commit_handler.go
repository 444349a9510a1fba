package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type commitFunc func(offsets []kafka.TopicPartition) ([]kafka.TopicPartition, error)

// KafkaCommitHandler commits consumer group positions. Offsets are the next
// offset to read on each partition, as returned by utils.OffsetTracker.
type KafkaCommitHandler struct {
	commit     commitFunc
	ctx        context.Context
	retryDelay time.Duration
}

func NewCommitHandler(ctx context.Context, consumer *kafka.Consumer) *KafkaCommitHandler {
	ch := &KafkaCommitHandler{
		ctx:        ctx,
		retryDelay: RETRY_DELAY,
	}
	if consumer != nil {
		ch.commit = consumer.CommitOffsets
	}
	return ch
}

func (ch *KafkaCommitHandler) CommitOffsets(offsets []kafka.TopicPartition) error {
	if ch.commit == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}
	if len(offsets) == 0 {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if err := ch.ctx.Err(); err != nil {
			slog.Warn("[KafkaCommitHandler] Context canceled, stopping commit")
			return err
		}

		committed, err := ch.commit(offsets)
		if err == nil {
			err = partitionError(committed)
		}
		if err == nil {
			for _, tp := range committed {
				slog.Debug("[KafkaCommitHandler] Committed position",
					slog.Int("partition", int(tp.Partition)),
					slog.String("offset", tp.Offset.String()))
			}
			return nil
		}

		lastErr = err
		slog.Warn("[KafkaCommitHandler] Commit failed, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("partitions", len(offsets)),
			slog.String("error", err.Error()))

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrAllBrokersDown {
			slog.Error("[KafkaCommitHandler] All Kafka brokers are down. Aborting commit")
			return err
		}

		time.Sleep(ch.retryDelay)
	}

	return fmt.Errorf("[KafkaCommitHandler] commit failed after %d attempts: %w", MAX_RETRIES, lastErr)
}

// partitionError surfaces the first per-partition failure of a commit that
// succeeded as a request.
func partitionError(committed []kafka.TopicPartition) error {
	for _, tp := range committed {
		if tp.Error != nil {
			return fmt.Errorf("partition %d: %w", tp.Partition, tp.Error)
		}
	}
	return nil
}
