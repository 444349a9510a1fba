package kafka_client

import (
	"context"
	"errors"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/require"
)

func positions(offset int64) []kafka.TopicPartition {
	topic := "feedback-raw"
	return []kafka.TopicPartition{{Topic: &topic, Partition: 0, Offset: kafka.Offset(offset)}}
}

func TestCommitOffsets(t *testing.T) {
	t.Run("Commits on first attempt", func(t *testing.T) {
		var got []kafka.TopicPartition
		ch := &KafkaCommitHandler{ctx: context.Background(), commit: func(offsets []kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			got = offsets
			return offsets, nil
		}}

		require.NoError(t, ch.CommitOffsets(positions(7)))
		require.Equal(t, kafka.Offset(7), got[0].Offset)
	})

	t.Run("Retries transient failures", func(t *testing.T) {
		calls := 0
		ch := &KafkaCommitHandler{ctx: context.Background(), commit: func(offsets []kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("coordinator loading")
			}
			return offsets, nil
		}}

		require.NoError(t, ch.CommitOffsets(positions(3)))
		require.Equal(t, 3, calls)
	})

	t.Run("Per-partition errors are retried", func(t *testing.T) {
		calls := 0
		ch := &KafkaCommitHandler{ctx: context.Background(), commit: func(offsets []kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			calls++
			failed := append([]kafka.TopicPartition(nil), offsets...)
			failed[0].Error = errors.New("rebalance in progress")
			return failed, nil
		}}

		require.Error(t, ch.CommitOffsets(positions(3)))
		require.Equal(t, MAX_RETRIES, calls)
	})

	t.Run("Aborts when all brokers are down", func(t *testing.T) {
		calls := 0
		ch := &KafkaCommitHandler{ctx: context.Background(), commit: func([]kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			calls++
			return nil, kafka.NewError(kafka.ErrAllBrokersDown, "all brokers down", false)
		}}

		require.Error(t, ch.CommitOffsets(positions(3)))
		require.Equal(t, 1, calls)
	})

	t.Run("Stops on canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ch := &KafkaCommitHandler{ctx: ctx, commit: func([]kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			t.Fatal("commit must not be attempted")
			return nil, nil
		}}

		require.ErrorIs(t, ch.CommitOffsets(positions(3)), context.Canceled)
	})

	t.Run("Nothing to commit", func(t *testing.T) {
		ch := NewCommitHandler(context.Background(), nil)
		require.Error(t, ch.CommitOffsets(positions(1)))

		ch.commit = func([]kafka.TopicPartition) ([]kafka.TopicPartition, error) {
			t.Fatal("empty commit must be skipped")
			return nil, nil
		}
		require.NoError(t, ch.CommitOffsets(nil))
	})
}
