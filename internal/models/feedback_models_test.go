package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/feedback"
	"github.com/stretchr/testify/require"
)

func TestNewFeedbackMessage(t *testing.T) {
	req := require.New(t)
	msg := NewFeedbackMessage("console", "go-101", "great course")

	_, err := uuid.Parse(msg.FeedbackID)
	req.NoError(err)
	req.Equal("great course", feedback.TextOf(msg.Text))
	req.False(msg.Metadata.Timestamp.IsZero())
}

func TestFeedbackMessage_EnsureID(t *testing.T) {
	msg := FeedbackMessage{}
	msg.EnsureID()
	require.NotEmpty(t, msg.FeedbackID)

	kept := FeedbackMessage{FeedbackID: "abc"}
	kept.EnsureID()
	require.Equal(t, "abc", kept.FeedbackID)
}

func TestFeedbackMessage_DecodeNonStringText(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{"String text", `{"feedback_id":"1","text":"boring"}`, "boring"},
		{"Number text", `{"feedback_id":"2","text":42}`, ""},
		{"Null text", `{"feedback_id":"3","text":null}`, ""},
		{"Missing text", `{"feedback_id":"4"}`, ""},
		{"Object text", `{"feedback_id":"5","text":{"body":"good"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg FeedbackMessage
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &msg))
			require.Equal(t, tt.expected, feedback.TextOf(msg.Text))
		})
	}
}

func TestNewAnalyzedFeedback(t *testing.T) {
	msg := FeedbackMessage{FeedbackID: "f-1", Source: "console", Subject: "go-101"}
	report := feedback.NewFormatter(nil).Analyze("helpful labs")

	out := NewAnalyzedFeedback(msg, "helpful labs", report)
	require.Equal(t, "f-1", out.FeedbackID)
	require.Equal(t, feedback.Positive, out.Report.Score)
	require.False(t, out.AnalyzedAt.IsZero())

	data, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"sentiment":"Positive"`)
	require.Contains(t, string(data), `"withEmoji":"😊 helpful labs"`)
}
