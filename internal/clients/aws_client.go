package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/feedbackflow/config"
)

var (
	awsCfg   aws.Config
	awsErr   error
	awsOnce  sync.Once
	endpoint string
)

func GetAWSConfig(cfg config.Config) (aws.Config, error) {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...",
			slog.String("region", cfg.AWSRegion))
		loaded, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			awsErr = fmt.Errorf("[AWSClient] Failed to load AWS config: %w", err)
			return
		}

		awsCfg = loaded
		endpoint = cfg.AWSEndpoint
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfg, awsErr
}

func GetDynamoDBClient(cfg config.Config) (*dynamodb.Client, error) {
	loaded, err := GetAWSConfig(cfg)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(loaded, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
