package trainer

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"meditrain/internal/llm"
	"meditrain/internal/observability"
	"meditrain/internal/store"
)

func newTestMetrics(prefix string) *observability.Metrics {
	return observability.NewMetrics(prefix + strconv.FormatInt(time.Now().UnixNano(), 10))
}

func TestEvaluateEmptyConversationSkipsModel(t *testing.T) {
	mock := &llm.MockClient{}
	st := store.NewInMemoryStore()
	e := NewEvaluator(mock, st, newTestMetrics("test_eval_empty_"), time.Second)

	score, feedback := e.Evaluate(context.Background(), "   \n  ")
	if score != 0 {
		t.Fatalf("score = %d, want 0", score)
	}
	if feedback != EmptyConversationFeedback {
		t.Fatalf("feedback = %q, want %q", feedback, EmptyConversationFeedback)
	}
	if mock.Calls() != 0 {
		t.Fatalf("model called %d times for empty conversation, want 0", mock.Calls())
	}
}

func TestEvaluateModelFailureYieldsSentinel(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("upstream unavailable")}
	st := store.NewInMemoryStore()
	e := NewEvaluator(mock, st, newTestMetrics("test_eval_err_"), time.Second)

	score, feedback := e.Evaluate(context.Background(), "Doctor: hello\nPatient: hi")
	if score != SentinelScore {
		t.Fatalf("score = %d, want sentinel %d", score, SentinelScore)
	}
	if feedback != DefaultFeedback {
		t.Fatalf("feedback = %q, want %q", feedback, DefaultFeedback)
	}

	rows, err := st.RecentEvaluations(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentEvaluations() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("persisted %d evaluations, want 1", len(rows))
	}
	if rows[0].Score != SentinelScore {
		t.Fatalf("persisted score = %d, want %d", rows[0].Score, SentinelScore)
	}
}

func TestEvaluatePersistsParsedResult(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{"Score: 8\nFeedback: Clear and empathetic."}}
	st := store.NewInMemoryStore()
	e := NewEvaluator(mock, st, newTestMetrics("test_eval_ok_"), time.Second)

	conversation := "How can I help?\nMy back aches."
	score, feedback := e.Evaluate(context.Background(), conversation)
	if score != 8 {
		t.Fatalf("score = %d, want 8", score)
	}
	if feedback != "Clear and empathetic." {
		t.Fatalf("feedback = %q, want %q", feedback, "Clear and empathetic.")
	}

	rows, err := st.RecentEvaluations(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentEvaluations() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("persisted %d evaluations, want 1", len(rows))
	}
	if rows[0].Conversation != conversation {
		t.Fatalf("persisted conversation = %q, want %q", rows[0].Conversation, conversation)
	}

	req := mock.Request(0)
	if len(req) != 1 || req[0].Role != llm.RoleUser {
		t.Fatalf("evaluation request shape = %+v, want single user message", req)
	}
}
