package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestRecentChatsNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		err := s.SaveChat(context.Background(), ChatLogRecord{
			UserQuery:   fmt.Sprintf("q%d", i),
			BotResponse: fmt.Sprintf("r%d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveChat() error = %v", err)
		}
	}

	got, err := s.RecentChats(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentChats() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("RecentChats() returned %d rows, want 10", len(got))
	}
	if got[0].UserQuery != "q11" {
		t.Fatalf("first row = %q, want newest (q11)", got[0].UserQuery)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("rows not in descending timestamp order at index %d", i)
		}
	}
}

func TestRecentEvaluationsLimit(t *testing.T) {
	s := NewInMemoryStore()
	for i := 0; i < 3; i++ {
		err := s.SaveEvaluation(context.Background(), Evaluation{
			Conversation: fmt.Sprintf("conv%d", i),
			Score:        i,
			Feedback:     "ok",
		})
		if err != nil {
			t.Fatalf("SaveEvaluation() error = %v", err)
		}
	}

	got, err := s.RecentEvaluations(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentEvaluations() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("RecentEvaluations() returned %d rows, want 3", len(got))
	}
	if got[0].Conversation != "conv2" {
		t.Fatalf("first row = %q, want newest (conv2)", got[0].Conversation)
	}
}

func TestSaveChatAssignsIDAndTimestamp(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.SaveChat(context.Background(), ChatLogRecord{UserQuery: "q", BotResponse: "r"}); err != nil {
		t.Fatalf("SaveChat() error = %v", err)
	}
	got, err := s.RecentChats(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentChats() error = %v", err)
	}
	if got[0].ID == "" {
		t.Fatalf("record ID not assigned")
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("record timestamp not assigned")
	}
}
