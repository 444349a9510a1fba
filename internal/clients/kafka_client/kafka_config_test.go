package kafka_client

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/stretchr/testify/require"
)

func TestGetKafkaConfig(t *testing.T) {
	cfg := GetKafkaConfig(config.Config{
		KafkaBroker:       "broker:9092",
		KafkaGroupID:      "group",
		KafkaRawTopic:     "feedback-raw",
		KafkaResultsTopic: "feedback-analyzed",
	})

	require.Equal(t, "broker:9092", cfg.Broker)
	require.Equal(t, "feedback-raw", cfg.Topic)
	require.Equal(t, "group", cfg.GroupID)

	consumerCfg := cfg.consumerConfigMap()
	v, err := consumerCfg.Get("enable.auto.commit", nil)
	require.NoError(t, err)
	require.Equal(t, false, v)

	producerCfg := cfg.producerConfigMap()
	v, err = producerCfg.Get("acks", nil)
	require.NoError(t, err)
	require.Equal(t, "all", v)
}

func TestRegisterConsumer(t *testing.T) {
	_, err := lookupConsumer("unregistered-topic")
	require.Error(t, err)

	RegisterConsumer("test-topic", func(context.Context, *kafka.Consumer) {})
	fn, err := lookupConsumer("test-topic")
	require.NoError(t, err)
	require.NotNil(t, fn)
}

func TestPublishToKafka_NotInitialized(t *testing.T) {
	require.Error(t, PublishToKafka("topic", "key", map[string]string{"a": "b"}))
	require.Equal(t, 0, Flush(10))
}
