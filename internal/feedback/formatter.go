package feedback

// Formatter binds the sentiment operations to a Renderer. It holds no
// mutable state and is safe for concurrent use.
type Formatter struct {
	renderer Renderer
}

func NewFormatter(r Renderer) *Formatter {
	if r == nil {
		r = RendererFunc(func(text string, _ StyleTag) string { return text })
	}
	return &Formatter{renderer: r}
}

// Style renders text with the tag chosen by StyleOf. The renderer is called
// exactly once.
func (f *Formatter) Style(text string) string {
	tag := StyleOf(text)
	if tag == StyleMuted {
		return f.renderer.Render(NoFeedback, tag)
	}
	return f.renderer.Render(text, tag)
}

// WithEmoji prefixes the styled text with the emoji for its score.
func (f *Formatter) WithEmoji(text string) string {
	score := ScoreOf(text)
	return score.Emoji() + " " + f.Style(text)
}

// Analyze builds the full report for text.
func (f *Formatter) Analyze(text string) Report {
	score := ScoreOf(text)
	return Report{
		OriginalText:  text,
		FormattedText: f.Style(text),
		Score:         score,
		Sentiment:     score.Label(),
		Description:   score.Description(),
		WithEmoji:     f.WithEmoji(text),
	}
}
