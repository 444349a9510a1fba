package feedback

import (
	"strings"

	"github.com/samber/lo"
)

// Rule is one entry of an ordered, first-match-wins rule list.
type Rule[T any] struct {
	Name     string
	Keywords []string
	Result   T
}

// Matches reports whether any keyword is a substring of lowerText.
// lowerText must already be lower-cased.
func (r Rule[T]) Matches(lowerText string) bool {
	return lo.SomeBy(r.Keywords, func(keyword string) bool {
		return strings.Contains(lowerText, keyword)
	})
}

// evaluate walks rules in order and returns the first hit.
func evaluate[T any](rules []Rule[T], text string, fallback T) T {
	lowerText := strings.ToLower(text)
	for _, rule := range rules {
		if rule.Matches(lowerText) {
			return rule.Result
		}
	}
	return fallback
}

// Order matters: very negative before negative, very positive before positive.
var scoreRules = []Rule[Score]{
	{
		Name:     "very-negative",
		Keywords: []string{"terrible", "awful", "hate", "worst", "useless"},
		Result:   VeryNegative,
	},
	{
		Name:     "negative",
		Keywords: []string{"bad", "boring", "poor", "disappointing", "confusing"},
		Result:   Negative,
	},
	{
		Name:     "very-positive",
		Keywords: []string{"excellent", "amazing", "love", "best", "awesome", "fantastic", "perfect"},
		Result:   VeryPositive,
	},
	{
		Name:     "positive",
		Keywords: []string{"good", "great", "helpful", "clear", "informative"},
		Result:   Positive,
	},
	{
		Name:     "neutral",
		Keywords: []string{"okay", "average", "fine", "normal", "standard"},
		Result:   Neutral,
	},
}

// Style categories are kept separate from scoreRules; "waste", "difficult",
// "wonderful" and friends only exist here.
var styleRules = []Rule[StyleTag]{
	{
		Name: "negative",
		Keywords: []string{
			"bad", "boring", "terrible", "awful", "hate", "worst", "poor",
			"disappointing", "useless", "waste", "confusing", "difficult",
		},
		Result: StyleAlertStrong,
	},
	{
		Name: "positive",
		Keywords: []string{
			"good", "great", "excellent", "amazing", "love", "best", "awesome",
			"fantastic", "wonderful", "brilliant", "outstanding", "perfect",
			"helpful", "clear", "informative",
		},
		Result: StyleSuccessStrong,
	},
	{
		Name:     "neutral",
		Keywords: []string{"okay", "average", "fine", "normal", "standard", "decent"},
		Result:   StyleInfo,
	},
}

// ScoreRules returns a copy of the classifier's rule list in evaluation order.
func ScoreRules() []Rule[Score] {
	return cloneRules(scoreRules)
}

// StyleRules returns a copy of the styler's rule list in evaluation order.
func StyleRules() []Rule[StyleTag] {
	return cloneRules(styleRules)
}

func cloneRules[T any](rules []Rule[T]) []Rule[T] {
	return lo.Map(rules, func(r Rule[T], _ int) Rule[T] {
		r.Keywords = append([]string(nil), r.Keywords...)
		return r
	})
}
