package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/feedback"
)

// FeedbackMessage is a raw comment as it arrives on the feedback topic.
// Text is left loosely typed so that non-string payloads can be detected and
// treated as missing feedback.
type FeedbackMessage struct {
	FeedbackID string           `json:"feedback_id"`
	Source     string           `json:"source"`
	Subject    string           `json:"subject,omitempty"`
	Format     string           `json:"format,omitempty"`
	Text       any              `json:"text"`
	Metadata   FeedbackMetadata `json:"metadata"`
}

type FeedbackMetadata struct {
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url,omitempty"`
}

// NewFeedbackMessage builds a plain text message with a fresh ID.
func NewFeedbackMessage(source, subject, text string) FeedbackMessage {
	return FeedbackMessage{
		FeedbackID: uuid.NewString(),
		Source:     source,
		Subject:    subject,
		Text:       text,
		Metadata: FeedbackMetadata{
			Timestamp: time.Now().UTC(),
		},
	}
}

// EnsureID assigns a random ID when the producer did not set one.
func (m *FeedbackMessage) EnsureID() {
	if m.FeedbackID == "" {
		m.FeedbackID = uuid.NewString()
	}
}

type AnalyzedFeedback struct {
	FeedbackID string           `json:"feedback_id"`
	Source     string           `json:"source"`
	Subject    string           `json:"subject,omitempty"`
	Metadata   FeedbackMetadata `json:"metadata"`
	// AnalyzedText is the text after preparation, which may differ from the
	// original for markdown feedback.
	AnalyzedText string          `json:"analyzed_text"`
	Report       feedback.Report `json:"report"`
	AnalyzedAt   time.Time       `json:"analyzed_at"`
}

func NewAnalyzedFeedback(msg FeedbackMessage, text string, report feedback.Report) AnalyzedFeedback {
	return AnalyzedFeedback{
		FeedbackID:   msg.FeedbackID,
		Source:       msg.Source,
		Subject:      msg.Subject,
		Metadata:     msg.Metadata,
		AnalyzedText: text,
		Report:       report,
		AnalyzedAt:   time.Now().UTC(),
	}
}
