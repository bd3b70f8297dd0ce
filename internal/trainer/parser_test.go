package trainer

import "testing"

func TestParseEvaluationStrictShape(t *testing.T) {
	score, feedback, outcome := ParseEvaluation("Score: 7\nFeedback: Good rapport with patient.")
	if outcome != OutcomeParsed {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomeParsed)
	}
	if score != 7 {
		t.Fatalf("score = %d, want 7", score)
	}
	if feedback != "Good rapport with patient." {
		t.Fatalf("feedback = %q, want %q", feedback, "Good rapport with patient.")
	}
}

func TestParseEvaluationMultilineFeedback(t *testing.T) {
	raw := "Score: 9\n\nFeedback: Strong opening questions.\nConsider asking about medication history."
	score, feedback, outcome := ParseEvaluation(raw)
	if outcome != OutcomeParsed {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomeParsed)
	}
	if score != 9 {
		t.Fatalf("score = %d, want 9", score)
	}
	want := "Strong opening questions.\nConsider asking about medication history."
	if feedback != want {
		t.Fatalf("feedback = %q, want %q", feedback, want)
	}
}

func TestParseEvaluationFallbackFirstDigit(t *testing.T) {
	score, feedback, outcome := ParseEvaluation("I would rate this interaction a 4 out of ten overall.")
	if outcome != OutcomePartial {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomePartial)
	}
	if score != 4 {
		t.Fatalf("score = %d, want 4", score)
	}
	if feedback != MissingFeedback {
		t.Fatalf("feedback = %q, want %q", feedback, MissingFeedback)
	}
}

func TestParseEvaluationFallbackKeepsResponseWhenFeedbackMentioned(t *testing.T) {
	raw := "Overall rating 6. Feedback is included inline: decent clarity, limited empathy."
	score, feedback, outcome := ParseEvaluation(raw)
	if outcome != OutcomePartial {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomePartial)
	}
	if score != 6 {
		t.Fatalf("score = %d, want 6", score)
	}
	if feedback != raw {
		t.Fatalf("feedback = %q, want whole response", feedback)
	}
}

func TestParseEvaluationNoDigitsDefaultsToSentinel(t *testing.T) {
	score, feedback, outcome := ParseEvaluation("The doctor did reasonably well.")
	if outcome != OutcomePartial {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomePartial)
	}
	if score != SentinelScore {
		t.Fatalf("score = %d, want sentinel %d", score, SentinelScore)
	}
	if feedback != MissingFeedback {
		t.Fatalf("feedback = %q, want %q", feedback, MissingFeedback)
	}
}

func TestParseEvaluationClampsAboveTen(t *testing.T) {
	score, _, outcome := ParseEvaluation("Score: 15\nFeedback: Enthusiastic but out of range.")
	if outcome != OutcomeParsed {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomeParsed)
	}
	if score != 10 {
		t.Fatalf("score = %d, want clamped 10", score)
	}
}

func TestIsEndChat(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"end chat", true},
		{"End Chat", true},
		{"END CHAT", true},
		{"  end chat  ", true},
		{"end chat please", false},
		{"ending chat", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsEndChat(tc.in); got != tc.want {
			t.Fatalf("IsEndChat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
