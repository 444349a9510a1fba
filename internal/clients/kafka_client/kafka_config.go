package kafka_client

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/config"
)

type KafkaConfig struct {
	Broker  string
	GroupID string
	Topic   string
}

func GetKafkaConfig(cfg config.Config) KafkaConfig {
	return KafkaConfig{
		Broker:  cfg.KafkaBroker,
		GroupID: cfg.KafkaGroupID,
		Topic:   cfg.KafkaRawTopic,
	}
}

func (c KafkaConfig) consumerConfigMap() *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":  c.Broker,
		"group.id":           c.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	}
}

func (c KafkaConfig) producerConfigMap() *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":                     c.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	}
}
