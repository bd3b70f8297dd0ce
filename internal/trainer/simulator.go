package trainer

import (
	"context"
	"log"
	"strings"
	"time"

	"meditrain/internal/llm"
	"meditrain/internal/memory"
	"meditrain/internal/observability"
	"meditrain/internal/store"
)

// IsEndChat reports whether an utterance is the session-termination command.
func IsEndChat(utterance string) bool {
	return strings.EqualFold(strings.TrimSpace(utterance), "end chat")
}

// Simulator handles one practice turn: it builds the prompt from the persona
// instruction and the session's bounded history, asks the model for the
// patient's reply, and records the exchange.
type Simulator struct {
	llm     llm.Client
	store   store.Store
	metrics *observability.Metrics
	timeout time.Duration
}

func NewSimulator(client llm.Client, st store.Store, metrics *observability.Metrics, timeout time.Duration) *Simulator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Simulator{
		llm:     client,
		store:   st,
		metrics: metrics,
		timeout: timeout,
	}
}

// Respond produces the patient's reply to one trainee utterance. The caller
// must hold the session lock, which serializes turns for the session key.
//
// A model failure degrades to FallbackReply: no retry, no history append, no
// chat-log row. On success the exchange is appended to the bounded history
// and durably logged; a persistence failure is logged and swallowed so the
// chat continues.
func (s *Simulator) Respond(ctx context.Context, sess *memory.Session, utterance string) string {
	history := sess.History()
	messages := make([]llm.Message, 0, len(history)*2+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: PersonaPrompt})
	for _, ex := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: ex.Human},
			llm.Message{Role: llm.RoleAssistant, Content: ex.Assistant},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: utterance})

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.llm.Complete(cctx, messages)
	s.metrics.ObserveModelLatency(time.Since(start))
	if err != nil {
		s.metrics.ModelCalls.WithLabelValues("turn", "error").Inc()
		log.Printf("model call failed for session %q: %v", sess.Key(), err)
		return FallbackReply
	}
	s.metrics.ModelCalls.WithLabelValues("turn", "ok").Inc()

	sess.Append(utterance, reply)

	if err := s.store.SaveChat(ctx, store.ChatLogRecord{
		UserQuery:   utterance,
		BotResponse: reply,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		s.metrics.PersistenceErrors.WithLabelValues("chat_history").Inc()
		log.Printf("failed to save chat log: %v", err)
	}

	return reply
}
