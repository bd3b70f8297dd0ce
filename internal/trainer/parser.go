package trainer

import (
	"regexp"
	"strconv"
	"strings"
)

// Outcome identifies which branch of the evaluation parser produced a result.
// The model's output is free text, so structured-data recovery is a small
// state machine with three terminal states.
type Outcome string

const (
	// OutcomeParsed means the strict "Score: n ... Feedback: text" shape matched.
	OutcomeParsed Outcome = "parsed"
	// OutcomePartial means the shape did not match and the digit/keyword
	// fallback was applied.
	OutcomePartial Outcome = "partial"
	// OutcomeDefault means the model call itself failed and the sentinel
	// pair was substituted.
	OutcomeDefault Outcome = "default"
)

const (
	// SentinelScore is the low-but-nonzero default assigned when no score can
	// be recovered. Distinct from the 0 returned for empty conversations.
	SentinelScore = 2

	// MissingFeedback substitutes for feedback the fallback tier could not find.
	MissingFeedback = "Evaluation feedback could not be extracted."

	// DefaultFeedback accompanies SentinelScore when evaluation fails outright.
	DefaultFeedback = "An error occurred during evaluation. Default score assigned."

	// EmptyConversationFeedback explains the score of 0 for an empty transcript.
	EmptyConversationFeedback = "No conversation detected for evaluation. Please ensure the interaction is recorded."
)

var (
	scoreFeedbackRe = regexp.MustCompile(`(?s)Score:\s*(\d+)\D*Feedback:\s*(.+)`)
	firstIntRe      = regexp.MustCompile(`\d+`)
)

// ParseEvaluation recovers a score and feedback string from the model's
// free-text evaluation response. The primary pattern wants the requested
// "Score: <n>" / "Feedback: <text>" shape; failing that, the first decimal
// integer anywhere becomes the score (SentinelScore if none) and the whole
// response is used as feedback only when it mentions "Feedback" at all.
func ParseEvaluation(raw string) (int, string, Outcome) {
	if m := scoreFeedbackRe.FindStringSubmatch(raw); m != nil {
		score, err := strconv.Atoi(m[1])
		if err == nil {
			return clampScore(score), strings.TrimSpace(m[2]), OutcomeParsed
		}
	}

	score := SentinelScore
	if m := firstIntRe.FindString(raw); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			score = clampScore(n)
		}
	}
	feedback := MissingFeedback
	if strings.Contains(raw, "Feedback") {
		feedback = raw
	}
	return score, feedback, OutcomePartial
}

// clampScore bounds a recovered score to the rubric's 0-10 range.
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
