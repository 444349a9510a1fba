package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
)

func SerializeToJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[KafkaUtils] Failed to serialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

func DeserializeFromJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize JSON",
			slog.String("error", err.Error()))
	}
	return err
}

// HandleConsumerError logs err unless it is one of the quiet sentinels.
func HandleConsumerError(err error, quiet ...error) {
	if err == nil {
		return
	}
	for _, q := range quiet {
		if errors.Is(err, q) {
			return
		}
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
