package render

import (
	"github.com/gookit/color"
	"github.com/spacesedan/feedbackflow/internal/feedback"
)

var styles = map[feedback.StyleTag]color.Style{
	feedback.StyleAlertStrong:    color.New(color.FgRed, color.OpBold),
	feedback.StyleSuccessStrong:  color.New(color.FgGreen, color.OpBold),
	feedback.StyleInfo:           color.New(color.FgBlue),
	feedback.StyleWarningDefault: color.New(color.FgYellow),
	feedback.StyleMuted:          color.New(color.FgGray),
}

// Terminal renders style tags as ANSI colors.
type Terminal struct {
	enabled bool
}

// NewTerminal returns a Terminal renderer. A disabled renderer returns text
// unchanged, which is what gets stored alongside reports.
func NewTerminal(enabled bool) *Terminal {
	return &Terminal{enabled: enabled}
}

// Plain is a Terminal with colors turned off.
func Plain() *Terminal {
	return NewTerminal(false)
}

func (t *Terminal) Render(text string, tag feedback.StyleTag) string {
	if !t.enabled {
		return text
	}
	style, ok := styles[tag]
	if !ok {
		return text
	}
	return color.RenderString(style.String(), text)
}

// Code returns the ANSI code sequence used for tag, or "" when none applies.
func Code(tag feedback.StyleTag) string {
	if style, ok := styles[tag]; ok {
		return style.String()
	}
	return ""
}
