package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use.
type InMemoryStore struct {
	mu    sync.RWMutex
	chats []ChatLogRecord
	evals []Evaluation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) SaveChat(_ context.Context, record ChatLogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.chats = append(s.chats, record)
	return nil
}

func (s *InMemoryStore) RecentChats(_ context.Context, limit int) ([]ChatLogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	if limit > len(s.chats) {
		limit = len(s.chats)
	}
	out := make([]ChatLogRecord, 0, limit)
	for i := len(s.chats) - 1; i >= len(s.chats)-limit; i-- {
		out = append(out, s.chats[i])
	}
	return out, nil
}

func (s *InMemoryStore) SaveEvaluation(_ context.Context, eval Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}
	s.evals = append(s.evals, eval)
	return nil
}

func (s *InMemoryStore) RecentEvaluations(_ context.Context, limit int) ([]Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	if limit > len(s.evals) {
		limit = len(s.evals)
	}
	out := make([]Evaluation, 0, limit)
	for i := len(s.evals) - 1; i >= len(s.evals)-limit; i-- {
		out = append(out, s.evals[i])
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
