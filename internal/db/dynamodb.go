package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/feedbackflow/internal/feedback"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const maxBatchSize = 25

// DynamoAPI is the subset of the DynamoDB client the report store uses.
type DynamoAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type ReportStore struct {
	client  DynamoAPI
	table   string
	ttl     time.Duration
	backoff time.Duration
}

func NewReportStore(client DynamoAPI, table string, ttl time.Duration) *ReportStore {
	return &ReportStore{
		client:  client,
		table:   table,
		ttl:     ttl,
		backoff: 500 * time.Millisecond,
	}
}

// BatchInsertReports writes reports in chunks of 25, retrying unprocessed
// items with exponential backoff.
func (s *ReportStore) BatchInsertReports(ctx context.Context, reports []models.AnalyzedFeedback) error {
	for i := 0; i < len(reports); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+maxBatchSize, len(reports))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, report := range reports[i:end] {
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: ReportToDynamoDBItem(report, s.ttl),
				},
			})
		}

		if err := s.writeChunk(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored feedback reports",
		slog.Int("count", len(reports)))
	return nil
}

func (s *ReportStore) writeChunk(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write feedback reports: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < 3 {
		time.Sleep(backoff)
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed feedback reports...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d feedback reports were not written after retries", remaining)
	}
	return nil
}

func (s *ReportStore) GetReport(ctx context.Context, feedbackID string) (*StoredReport, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"feedback_id": &types.AttributeValueMemberS{Value: feedbackID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to get feedback report %s: %w", feedbackID, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var stored StoredReport
	if err := attributevalue.UnmarshalMap(out.Item, &stored); err != nil {
		return nil, fmt.Errorf("[DynamoDB] Unable to unmarshal feedback report: %w", err)
	}
	return &stored, nil
}

// StoredReport is the flat shape of a report row.
type StoredReport struct {
	FeedbackID    string         `dynamodbav:"feedback_id"`
	Source        string         `dynamodbav:"source"`
	Subject       string         `dynamodbav:"subject,omitempty"`
	OriginalText  string         `dynamodbav:"original_text,omitempty"`
	FormattedText string         `dynamodbav:"formatted_text"`
	WithEmoji     string         `dynamodbav:"with_emoji"`
	Score         feedback.Score `dynamodbav:"sentiment_score"`
	Sentiment     string         `dynamodbav:"sentiment_label"`
	Description   string         `dynamodbav:"description"`
	CreatedAt     int64          `dynamodbav:"created_at"`
	TTL           int64          `dynamodbav:"ttl"`
}

func ReportToDynamoDBItem(result models.AnalyzedFeedback, ttl time.Duration) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)
	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}

	item["feedback_id"] = &types.AttributeValueMemberS{Value: result.FeedbackID}
	item["source"] = &types.AttributeValueMemberS{Value: result.Source}
	item["formatted_text"] = &types.AttributeValueMemberS{Value: result.Report.FormattedText}
	item["with_emoji"] = &types.AttributeValueMemberS{Value: result.Report.WithEmoji}
	item["sentiment_score"] = &types.AttributeValueMemberN{Value: strconv.Itoa(int(result.Report.Score))}
	item["sentiment_label"] = &types.AttributeValueMemberS{Value: result.Report.Sentiment}
	item["description"] = &types.AttributeValueMemberS{Value: result.Report.Description}
	item["created_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(analyzedAt.Unix(), 10)}
	item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(analyzedAt.Add(ttl).Unix(), 10)}

	metadata := make(map[string]types.AttributeValue)
	if result.Metadata.Author != "" {
		metadata["author"] = &types.AttributeValueMemberS{Value: result.Metadata.Author}
	}
	if result.Metadata.URL != "" {
		metadata["url"] = &types.AttributeValueMemberS{Value: result.Metadata.URL}
	}
	if !result.Metadata.Timestamp.IsZero() {
		metadata["timestamp"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(result.Metadata.Timestamp.Unix(), 10)}
	}
	if len(metadata) > 0 {
		item["metadata"] = &types.AttributeValueMemberM{Value: metadata}
	}

	if result.Subject != "" {
		item["subject"] = &types.AttributeValueMemberS{Value: result.Subject}
	}
	if result.Report.OriginalText != "" {
		item["original_text"] = &types.AttributeValueMemberS{Value: result.Report.OriginalText}
	}

	return item
}
