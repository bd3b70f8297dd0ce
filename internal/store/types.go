package store

import (
	"context"
	"time"
)

// ChatLogRecord is one persisted trainee/patient exchange.
type ChatLogRecord struct {
	ID          string    `json:"id"`
	UserQuery   string    `json:"user_query"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// Evaluation is one persisted end-of-session scoring result.
type Evaluation struct {
	ID           string    `json:"id"`
	Conversation string    `json:"conversation_summary"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists chat turns and evaluations. Recent reads return rows newest
// first.
type Store interface {
	SaveChat(ctx context.Context, record ChatLogRecord) error
	RecentChats(ctx context.Context, limit int) ([]ChatLogRecord, error)
	SaveEvaluation(ctx context.Context, eval Evaluation) error
	RecentEvaluations(ctx context.Context, limit int) ([]Evaluation, error)
	Close() error
}
