package feedback

// Report is the detailed analysis of one piece of feedback.
type Report struct {
	OriginalText  string `json:"originalText"`
	FormattedText string `json:"formattedText"`
	Score         Score  `json:"score"`
	Sentiment     string `json:"sentiment"`
	Description   string `json:"description"`
	WithEmoji     string `json:"withEmoji"`
}

// TextOf extracts feedback text from a loosely typed value such as a decoded
// JSON field. Anything that is not a string yields "", which every operation
// treats as missing feedback.
func TextOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t != nil {
			return *t
		}
	}
	return ""
}
