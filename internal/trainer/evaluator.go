package trainer

import (
	"context"
	"log"
	"strings"
	"time"

	"meditrain/internal/llm"
	"meditrain/internal/observability"
	"meditrain/internal/store"
)

// Evaluator scores a completed practice conversation against the fixed
// rubric and persists the result.
type Evaluator struct {
	llm     llm.Client
	store   store.Store
	metrics *observability.Metrics
	timeout time.Duration
}

func NewEvaluator(client llm.Client, st store.Store, metrics *observability.Metrics, timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Evaluator{
		llm:     client,
		store:   st,
		metrics: metrics,
		timeout: timeout,
	}
}

// Evaluate scores the newline-joined conversation transcript. An empty
// transcript short-circuits to (0, explanation) without a model call; a
// failed model call yields the sentinel pair. Either way a usable score and
// feedback are always returned, never an error.
//
// The evaluation row is persisted as a side effect; a persistence failure is
// logged and swallowed.
func (e *Evaluator) Evaluate(ctx context.Context, conversation string) (int, string) {
	if strings.TrimSpace(conversation) == "" {
		e.metrics.EvaluationOutcomes.WithLabelValues("empty").Inc()
		return 0, EmptyConversationFeedback
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := evaluationPromptPrefix + conversation + evaluationPromptSuffix
	start := time.Now()
	result, err := e.llm.Complete(cctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	e.metrics.ObserveModelLatency(time.Since(start))

	var (
		score    int
		feedback string
		outcome  Outcome
	)
	if err != nil {
		e.metrics.ModelCalls.WithLabelValues("evaluation", "error").Inc()
		log.Printf("evaluation model call failed: %v", err)
		score, feedback, outcome = SentinelScore, DefaultFeedback, OutcomeDefault
	} else {
		e.metrics.ModelCalls.WithLabelValues("evaluation", "ok").Inc()
		score, feedback, outcome = ParseEvaluation(strings.TrimSpace(result))
	}
	e.metrics.EvaluationOutcomes.WithLabelValues(string(outcome)).Inc()

	if err := e.store.SaveEvaluation(ctx, store.Evaluation{
		Conversation: conversation,
		Score:        score,
		Feedback:     feedback,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		e.metrics.PersistenceErrors.WithLabelValues("evaluations").Inc()
		log.Printf("failed to save evaluation: %v", err)
	}

	return score, feedback
}
