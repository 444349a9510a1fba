package kafka_client

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(cfg.producerConfigMap())
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	go logDeliveryReports(p)

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func logDeliveryReports(p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				slog.Error("[KafkaClient] Delivery failed",
					slog.String("key", string(ev.Key)),
					slog.String("error", ev.TopicPartition.Error.Error()))
			}
		case kafka.Error:
			slog.Warn("[KafkaClient] Producer error",
				slog.String("error", ev.Error()))
		}
	}
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// Flush waits up to timeoutMs for queued messages and returns how many remain.
func Flush(timeoutMs int) int {
	if producer == nil {
		return 0
	}
	return producer.Flush(timeoutMs)
}

// PublishToKafka serializes value as JSON and produces it to topic under key.
func PublishToKafka(topic string, key string, value any) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] Kafka producer has not been initialized")
	}

	jsonData, err := utils.SerializeToJSON(value)
	if err != nil {
		return err
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
	}

	slog.Debug("[KafkaClient] Published message",
		slog.String("topic", topic),
		slog.String("key", key))
	return nil
}
