package feedback

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagRenderer wraps text in its tag so tests can see which style was chosen.
func tagRenderer(text string, tag StyleTag) string {
	return fmt.Sprintf("<%s>%s</%s>", tag, text, tag)
}

type countingRenderer struct {
	mu    sync.Mutex
	calls []StyleTag
}

func (c *countingRenderer) Render(text string, tag StyleTag) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, tag)
	return text
}

func TestScoreOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Score
	}{
		{"Empty input", "", Neutral},
		{"Very positive keyword", "This course is absolutely excellent!", VeryPositive},
		{"Negative keywords", "The lectures are boring and confusing", Negative},
		{"Neutral keyword", "It's okay, nothing special", Neutral},
		{"Love", "I love the interactive sessions", VeryPositive},
		{"Worst", "This is the worst course ever", VeryNegative},
		{"Positive keywords", "The content is informative and helpful", Positive},
		{"Average", "Average quality, could be better", Neutral},
		{"Very negative wins over positive", "this is terrible but good", VeryNegative},
		{"Negative wins over very positive", "bad start, amazing finish", Negative},
		{"Very positive wins over positive", "great and perfect", VeryPositive},
		{"Substring not whole word", "goodbye everyone", Positive},
		{"Waste is not scored", "what a waste", Neutral},
		{"No keyword", "the room was on the third floor", Neutral},
		{"Whitespace only", "   ", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ScoreOf(tt.input))
		})
	}
}

func TestScoreOf_CaseInsensitive(t *testing.T) {
	req := require.New(t)
	req.Equal(VeryPositive, ScoreOf("EXCELLENT"))
	req.Equal(ScoreOf("excellent"), ScoreOf("EXCELLENT"))
	req.Equal(VeryNegative, ScoreOf("I HaTe mondays"))
}

func TestScore_Tables(t *testing.T) {
	tests := []struct {
		score       Score
		label       string
		description string
		emoji       string
	}{
		{VeryNegative, "Very Negative", "strong dissatisfaction", "😠"},
		{Negative, "Negative", "some dissatisfaction", "😕"},
		{Neutral, "Neutral", "neutral or balanced", "😐"},
		{Positive, "Positive", "satisfaction", "😊"},
		{VeryPositive, "Very Positive", "strong satisfaction", "😍"},
		{Score(7), "Unknown", "Unable to determine sentiment", "🤔"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.label, tt.score.Label())
			req.Contains(tt.score.Description(), tt.description)
			req.Equal(tt.emoji, tt.score.Emoji())
		})
	}
	require.False(t, Score(-3).Valid())
	require.True(t, Neutral.Valid())
}

func TestStyleOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StyleTag
	}{
		{"Empty input", "", StyleMuted},
		{"Negative", "The lectures are boring", StyleAlertStrong},
		{"Waste only styles negative", "what a waste", StyleAlertStrong},
		{"Difficult", "A difficult module", StyleAlertStrong},
		{"Negative beats positive", "good but difficult", StyleAlertStrong},
		{"Positive", "Wonderful lectures", StyleSuccessStrong},
		{"Neutral", "A decent course", StyleInfo},
		{"No match", "see you tomorrow", StyleWarningDefault},
		{"Upper case", "BRILLIANT", StyleSuccessStrong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, StyleOf(tt.input))
		})
	}
}

func TestFormatter_Style(t *testing.T) {
	f := NewFormatter(RendererFunc(tagRenderer))

	t.Run("Missing feedback renders placeholder", func(t *testing.T) {
		require.Equal(t, "<muted>No feedback provided</muted>", f.Style(""))
	})

	t.Run("Identity renderer yields the literal placeholder", func(t *testing.T) {
		require.Equal(t, NoFeedback, NewFormatter(nil).Style(""))
	})

	t.Run("Styled text keeps original casing", func(t *testing.T) {
		require.Equal(t, "<success-strong>GREAT Course</success-strong>", f.Style("GREAT Course"))
	})

	t.Run("Divergence between style and score", func(t *testing.T) {
		require.Equal(t, "<alert-strong>what a waste</alert-strong>", f.Style("what a waste"))
		require.Equal(t, Neutral, ScoreOf("what a waste"))
	})

	t.Run("Renderer called once per call", func(t *testing.T) {
		for _, input := range []string{"", "bad", "good", "okay", "hello"} {
			r := &countingRenderer{}
			NewFormatter(r).Style(input)
			require.Len(t, r.calls, 1, input)
		}
	})
}

func TestFormatter_WithEmoji(t *testing.T) {
	f := NewFormatter(RendererFunc(tagRenderer))
	markers := []string{"😠", "😕", "😐", "😊", "😍", "🤔"}

	inputs := []string{
		"", "terrible", "boring", "okay", "helpful", "fantastic", "nothing", "what a waste",
	}
	for _, input := range inputs {
		out := f.WithEmoji(input)
		matched := 0
		for _, m := range markers {
			if strings.HasPrefix(out, m+" ") {
				matched++
			}
		}
		require.Equal(t, 1, matched, "input %q produced %q", input, out)
		require.Equal(t, ScoreOf(input).Emoji()+" "+f.Style(input), out)
	}

	require.Equal(t, "😐 <muted>No feedback provided</muted>", f.WithEmoji(""))
	require.Equal(t, "😍 <success-strong>love it</success-strong>", f.WithEmoji("love it"))
}

func TestFormatter_Analyze(t *testing.T) {
	f := NewFormatter(RendererFunc(tagRenderer))

	t.Run("Fantastic and helpful", func(t *testing.T) {
		req := require.New(t)
		text := "This course is fantastic and very helpful!"
		report := f.Analyze(text)

		req.Equal(text, report.OriginalText)
		req.Equal(VeryPositive, report.Score)
		req.Equal("Very Positive", report.Sentiment)
		req.Contains(report.Description, "strong satisfaction")
		req.Equal("<success-strong>"+text+"</success-strong>", report.FormattedText)
		req.True(strings.HasPrefix(report.WithEmoji, "😍 "))
	})

	t.Run("Boring and confusing", func(t *testing.T) {
		report := f.Analyze("The lectures are boring and confusing")
		require.Equal(t, Negative, report.Score)
		require.Equal(t, "Negative", report.Sentiment)
	})

	t.Run("Okay", func(t *testing.T) {
		report := f.Analyze("It's okay, nothing special")
		require.Equal(t, Neutral, report.Score)
		require.Equal(t, "Neutral", report.Sentiment)
		require.Equal(t, "<info>It's okay, nothing special</info>", report.FormattedText)
	})

	t.Run("Missing feedback", func(t *testing.T) {
		report := f.Analyze(TextOf(nil))
		require.Equal(t, Neutral, report.Score)
		require.Equal(t, "<muted>No feedback provided</muted>", report.FormattedText)
		require.Equal(t, "😐 <muted>No feedback provided</muted>", report.WithEmoji)
	})

	t.Run("Score matches ScoreOf", func(t *testing.T) {
		for _, text := range []string{"", "awful", "poor", "best", "clear", "fine", "meh"} {
			require.Equal(t, ScoreOf(text), f.Analyze(text).Score)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		text := "Great course, but the labs were difficult"
		require.Equal(t, f.Analyze(text), f.Analyze(text))
		require.Equal(t, f.WithEmoji(text), f.WithEmoji(text))
	})
}

func TestFormatter_ConcurrentUse(t *testing.T) {
	f := NewFormatter(RendererFunc(tagRenderer))
	want := f.Analyze("I love it")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, f.Analyze("I love it"))
		}()
	}
	wg.Wait()
}

func TestTextOf(t *testing.T) {
	s := "helpful"
	var nilStr *string
	require.Equal(t, "helpful", TextOf("helpful"))
	require.Equal(t, "helpful", TextOf(&s))
	require.Equal(t, "", TextOf(nilStr))
	require.Equal(t, "", TextOf(nil))
	require.Equal(t, "", TextOf(42))
	require.Equal(t, "", TextOf(map[string]any{"text": "good"}))
	require.Equal(t, Neutral, ScoreOf(TextOf(3.14)))
}

func TestRules_AreCopies(t *testing.T) {
	rules := ScoreRules()
	require.Equal(t, "very-negative", rules[0].Name)
	rules[0].Keywords[0] = "changed"
	require.Equal(t, "terrible", ScoreRules()[0].Keywords[0])

	styles := StyleRules()
	require.Len(t, styles, 3)
	require.Contains(t, styles[0].Keywords, "waste")
	require.NotContains(t, ScoreRules()[1].Keywords, "waste")
}
