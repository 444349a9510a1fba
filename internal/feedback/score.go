package feedback

// Score is the coarse sentiment of a piece of feedback, from -2 to 2.
type Score int

const (
	VeryNegative Score = -2
	Negative     Score = -1
	Neutral      Score = 0
	Positive     Score = 1
	VeryPositive Score = 2
)

type scoreInfo struct {
	label       string
	description string
	emoji       string
}

var scoreTable = map[Score]scoreInfo{
	VeryNegative: {"Very Negative", "This feedback indicates strong dissatisfaction", "😠"},
	Negative:     {"Negative", "This feedback indicates some dissatisfaction", "😕"},
	Neutral:      {"Neutral", "This feedback is neutral or balanced", "😐"},
	Positive:     {"Positive", "This feedback indicates satisfaction", "😊"},
	VeryPositive: {"Very Positive", "This feedback indicates strong satisfaction", "😍"},
}

var unknownScore = scoreInfo{"Unknown", "Unable to determine sentiment", "🤔"}

func (s Score) info() scoreInfo {
	if info, ok := scoreTable[s]; ok {
		return info
	}
	return unknownScore
}

// Label is the human readable sentiment name, e.g. "Very Positive".
func (s Score) Label() string { return s.info().label }

func (s Score) Description() string { return s.info().description }

// Emoji is the marker placed in front of annotated feedback.
func (s Score) Emoji() string { return s.info().emoji }

// Valid reports whether s is inside the closed range [-2, 2].
func (s Score) Valid() bool {
	_, ok := scoreTable[s]
	return ok
}

// ScoreOf classifies text against the score rules. The first matching
// keyword set wins, so "terrible but good" is VeryNegative. Empty text is
// Neutral.
func ScoreOf(text string) Score {
	if text == "" {
		return Neutral
	}
	return evaluate(scoreRules, text, Neutral)
}
