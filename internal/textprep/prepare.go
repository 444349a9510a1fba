package textprep

import (
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/feedback"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const FormatMarkdown = "markdown"

// Prepare returns the text to analyze for msg. Markdown feedback is flattened
// to plain text when stripMarkdown is set; anything else is passed through so
// keyword matching sees exactly what the author wrote.
func Prepare(msg models.FeedbackMessage, stripMarkdown bool) string {
	text := feedback.TextOf(msg.Text)
	if text == "" || msg.Format != FormatMarkdown || !stripMarkdown {
		return text
	}

	plain := ConvertMarkdownToText(text)
	slog.Debug("[TextPrep] Converted markdown feedback",
		slog.String("feedback_id", msg.FeedbackID),
		slog.Int("before", len(text)),
		slog.Int("after", len(plain)))
	return plain
}
