package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists chat logs and evaluations in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_history (
			id TEXT PRIMARY KEY,
			user_query TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_created ON chat_history (created_at);`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			id TEXT PRIMARY KEY,
			conversation_summary TEXT NOT NULL,
			score INT NOT NULL,
			feedback TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations (created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveChat(ctx context.Context, record ChatLogRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_history (id, user_query, bot_response, created_at)
		 VALUES ($1, $2, $3, $4)`,
		record.ID,
		record.UserQuery,
		record.BotResponse,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save chat: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentChats(ctx context.Context, limit int) ([]ChatLogRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_query, bot_response, created_at
		 FROM chat_history ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent chats: %w", err)
	}
	defer rows.Close()

	items := make([]ChatLogRecord, 0, limit)
	for rows.Next() {
		var r ChatLogRecord
		if err := rows.Scan(&r.ID, &r.UserQuery, &r.BotResponse, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) SaveEvaluation(ctx context.Context, eval Evaluation) error {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO evaluations (id, conversation_summary, score, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		eval.ID,
		eval.Conversation,
		eval.Score,
		eval.Feedback,
		eval.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentEvaluations(ctx context.Context, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_summary, score, feedback, created_at
		 FROM evaluations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent evaluations: %w", err)
	}
	defer rows.Close()

	items := make([]Evaluation, 0, limit)
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.Conversation, &e.Score, &e.Feedback, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation row: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluation rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
