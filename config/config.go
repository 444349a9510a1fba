package config

import (
	"fmt"
	"os"
	"time"

	env "github.com/Netflix/go-env"
)

type Config struct {
	AppEnv   string `env:"APP_ENV,default=dev"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	KafkaBroker       string `env:"KAFKA_BROKER,default=localhost:29092"`
	KafkaGroupID      string `env:"KAFKA_CONSUMER_GROUP_ID,default=feedbackflow-consumer-group"`
	KafkaRawTopic     string `env:"KAFKA_TOPIC_FEEDBACK_RAW,default=feedback-raw"`
	KafkaResultsTopic string `env:"KAFKA_TOPIC_FEEDBACK_ANALYZED,default=feedback-analyzed"`

	ValkeyAddress  string        `env:"VALKEY_INIT_ADDRESS,default=localhost:6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool          `env:"VALKEY_TLS,default=false"`
	ProcessedTTL   time.Duration `env:"PROCESSED_TTL,default=24h"`

	AWSRegion    string        `env:"AWS_REGION,default=us-west-2"`
	AWSEndpoint  string        `env:"AWS_ENDPOINT,default=http://localhost:8000"`
	ReportsTable string        `env:"DYNAMODB_REPORTS_TABLE,default=FeedbackReports"`
	ReportTTL    time.Duration `env:"REPORT_TTL,default=720h"`

	BatchSize    int           `env:"BATCH_SIZE,default=25"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT,default=5s"`

	RenderColor   bool `env:"RENDER_COLOR,default=false"`
	StripMarkdown bool `env:"STRIP_MARKDOWN,default=true"`
}

// AppEnv returns APP_ENV, falling back to "dev".
func AppEnv() string {
	if e := os.Getenv("APP_ENV"); e != "" {
		return e
	}
	return "dev"
}

// Load reads the env file for the current APP_ENV and unmarshals the
// environment into a Config.
func Load() (Config, error) {
	LoadEnv(AppEnv())

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("[Config] failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 || c.BatchSize > 25 {
		return fmt.Errorf("[Config] BATCH_SIZE must be between 1 and 25, got %d", c.BatchSize)
	}
	if c.BatchTimeout <= 0 {
		return fmt.Errorf("[Config] BATCH_TIMEOUT must be positive, got %s", c.BatchTimeout)
	}
	if c.KafkaRawTopic == c.KafkaResultsTopic {
		return fmt.Errorf("[Config] raw and results topics must differ, both are %q", c.KafkaRawTopic)
	}
	return nil
}
