package feedback

// StyleTag names the visual treatment a Renderer applies to feedback text.
type StyleTag string

const (
	StyleAlertStrong    StyleTag = "alert-strong"
	StyleSuccessStrong  StyleTag = "success-strong"
	StyleInfo           StyleTag = "info"
	StyleWarningDefault StyleTag = "warning-default"
	// StyleMuted is only used for the "No feedback provided" placeholder.
	StyleMuted StyleTag = "muted"
)

// NoFeedback is rendered in place of empty feedback.
const NoFeedback = "No feedback provided"

// Renderer turns text and a style tag into a display string.
type Renderer interface {
	Render(text string, tag StyleTag) string
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(text string, tag StyleTag) string

func (f RendererFunc) Render(text string, tag StyleTag) string {
	return f(text, tag)
}

// StyleOf picks the style tag for text using the style rules, which are
// broader than the score rules. Empty text gets StyleMuted.
func StyleOf(text string) StyleTag {
	if text == "" {
		return StyleMuted
	}
	return evaluate(styleRules, text, StyleWarningDefault)
}
