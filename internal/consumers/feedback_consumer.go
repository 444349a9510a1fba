package consumers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/samber/lo"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	kafkautils "github.com/spacesedan/feedbackflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/feedbackflow/internal/feedback"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/textprep"
	"github.com/spacesedan/feedbackflow/internal/utils"
)

type ProcessedStore interface {
	IsProcessed(ctx context.Context, id string) bool
	MarkProcessed(ctx context.Context, ids ...string) error
}

type ReportWriter interface {
	BatchInsertReports(ctx context.Context, reports []models.AnalyzedFeedback) error
}

// Committer commits the next offset to read on each partition.
type Committer interface {
	CommitOffsets(offsets []kafka.TopicPartition) error
}

// PublishFunc matches kafka_client.PublishToKafka.
type PublishFunc func(topic string, key string, value any) error

type FeedbackConsumerConfig struct {
	ResultsTopic  string
	BatchSize     int
	BatchTimeout  time.Duration
	StripMarkdown bool
}

// pendingFeedback is an analyzed message waiting to be stored, with the
// Kafka position it was read from.
type pendingFeedback struct {
	result   models.AnalyzedFeedback
	position kafka.TopicPartition
}

type FeedbackConsumer struct {
	cfg       FeedbackConsumerConfig
	formatter *feedback.Formatter
	processed ProcessedStore
	reports   ReportWriter
	publish   PublishFunc
	buffer    *utils.BatchBuffer[pendingFeedback]
	offsets   utils.OffsetTracker
	healthy   *atomic.Bool
}

func NewFeedbackConsumer(cfg FeedbackConsumerConfig, formatter *feedback.Formatter, processed ProcessedStore, reports ReportWriter, publish PublishFunc) *FeedbackConsumer {
	return &FeedbackConsumer{
		cfg:       cfg,
		formatter: formatter,
		processed: processed,
		reports:   reports,
		publish:   publish,
		buffer:    utils.NewBatchBuffer[pendingFeedback](cfg.BatchSize),
	}
}

// WithHealthCheck makes the consumer bypass the processed store while
// healthy is false.
func (fc *FeedbackConsumer) WithHealthCheck(healthy *atomic.Bool) *FeedbackConsumer {
	fc.healthy = healthy
	return fc
}

func (fc *FeedbackConsumer) storeAvailable() bool {
	if fc.processed == nil {
		return false
	}
	return fc.healthy == nil || fc.healthy.Load()
}

// Start reads feedback until ctx is canceled. It has the shape expected by
// kafka_client.RegisterConsumer.
func (fc *FeedbackConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer, 500*time.Millisecond)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	slog.Info("[FeedbackConsumer] Listening for messages...")

	ticker := time.NewTicker(fc.cfg.BatchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[FeedbackConsumer] Stopping consumer...")
			fc.Flush(context.WithoutCancel(ctx), kafka_client.NewCommitHandler(context.Background(), consumer))
			return
		case <-ticker.C:
			fc.Flush(ctx, committer)
		default:
			msg, err := iterator.Next()
			if err != nil {
				kafkautils.HandleConsumerError(err, kafka_client.ErrNoMessage, context.Canceled)
				continue
			}

			if full := fc.HandleMessage(ctx, msg); full {
				fc.Flush(ctx, committer)
			}
		}
	}
}

// HandleMessage analyzes one Kafka message and buffers the result. Messages
// that cannot be decoded or were already processed are marked done without
// being buffered; their offsets are committed by the next Flush once every
// earlier offset on the partition is done. It returns true once the buffer is
// full.
func (fc *FeedbackConsumer) HandleMessage(ctx context.Context, msg *kafka.Message) bool {
	fc.offsets.Track(msg.TopicPartition)

	var in models.FeedbackMessage
	if err := kafkautils.DeserializeFromJSON(msg.Value, &in); err != nil {
		slog.Warn("[FeedbackConsumer] Skipping undecodable message",
			slog.String("key", string(msg.Key)),
			slog.String("offset", msg.TopicPartition.Offset.String()))
		fc.offsets.Done(msg.TopicPartition)
		return false
	}

	if in.FeedbackID == "" {
		in.FeedbackID = string(msg.Key)
	}
	in.EnsureID()

	if fc.storeAvailable() && fc.processed.IsProcessed(ctx, in.FeedbackID) {
		slog.Debug("[FeedbackConsumer] Feedback already processed",
			slog.String("feedback_id", in.FeedbackID))
		fc.offsets.Done(msg.TopicPartition)
		return false
	}

	text := textprep.Prepare(in, fc.cfg.StripMarkdown)
	report := fc.formatter.Analyze(text)

	slog.Debug("[FeedbackConsumer] Analyzed feedback",
		slog.String("feedback_id", in.FeedbackID),
		slog.Int("score", int(report.Score)),
		slog.String("sentiment", report.Sentiment))

	return fc.buffer.Add(pendingFeedback{
		result:   models.NewAnalyzedFeedback(in, text, report),
		position: msg.TopicPartition,
	})
}

// Flush stores the buffered reports, publishes them, marks them processed and
// commits every partition position whose earlier offsets are all done. When
// storage fails the batch goes back into the buffer and is retried on the
// next flush; its offsets stay pending so no later commit passes them.
func (fc *FeedbackConsumer) Flush(ctx context.Context, committer Committer) {
	if fc.buffer.HasData() {
		fc.buffer.LogBatchProcessing("feedback")
		fc.storeBatch(ctx, fc.buffer.GetAndClear())
	}
	fc.commitReady(committer)
}

func (fc *FeedbackConsumer) storeBatch(ctx context.Context, batch []pendingFeedback) {
	results := lo.Map(batch, func(p pendingFeedback, _ int) models.AnalyzedFeedback { return p.result })
	ids := lo.Map(results, func(r models.AnalyzedFeedback, _ int) string { return r.FeedbackID })

	var insertErr error
	for i := 0; i < 3; i++ {
		insertErr = fc.reports.BatchInsertReports(ctx, results)
		if insertErr == nil || errors.Is(insertErr, context.Canceled) {
			break
		}
		slog.Error("[FeedbackConsumer] Failed to write reports to DB",
			slog.String("error", insertErr.Error()),
			slog.Int("attempt", i+1))
	}
	if insertErr != nil {
		slog.Error("[FeedbackConsumer] Keeping batch for the next flush",
			slog.Int("batch_size", len(batch)))
		fc.buffer.Requeue(batch)
		return
	}

	if fc.publish != nil && fc.cfg.ResultsTopic != "" {
		for _, result := range results {
			if err := fc.publish(fc.cfg.ResultsTopic, result.FeedbackID, result); err != nil {
				slog.Warn("[FeedbackConsumer] Failed to publish analyzed feedback",
					slog.String("feedback_id", result.FeedbackID),
					slog.String("error", err.Error()))
			}
		}
	}

	if fc.storeAvailable() {
		if err := fc.processed.MarkProcessed(ctx, ids...); err != nil {
			slog.Warn("[FeedbackConsumer] Failed to mark feedback processed",
				slog.String("error", err.Error()))
		}
	}

	lo.ForEach(batch, func(p pendingFeedback, _ int) { fc.offsets.Done(p.position) })

	slog.Info("[FeedbackConsumer] Flushed feedback batch",
		slog.Int("batch_size", len(batch)))
}

func (fc *FeedbackConsumer) commitReady(committer Committer) {
	if committer == nil {
		return
	}
	positions := fc.offsets.Committable()
	if len(positions) == 0 {
		return
	}
	if err := committer.CommitOffsets(positions); err != nil {
		slog.Warn("[FeedbackConsumer] Failed to commit offsets",
			slog.Int("partitions", len(positions)),
			slog.String("error", err.Error()))
	}
}
