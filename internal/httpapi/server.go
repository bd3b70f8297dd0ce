package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"meditrain/internal/config"
	"meditrain/internal/memory"
	"meditrain/internal/observability"
	"meditrain/internal/protocol"
	"meditrain/internal/store"
	"meditrain/internal/testusers"
	"meditrain/internal/trainer"
)

// historyLimit caps the rows returned by the history endpoints.
const historyLimit = 10

// defaultSessionKey is used when a request does not name a session,
// mirroring the single shared conversation of the original frontend.
const defaultSessionKey = "default"

// ScoreMailer delivers an evaluation result out-of-band. May be nil when
// mail is not configured.
type ScoreMailer interface {
	SendScore(to string, score int, feedback string) error
}

type Server struct {
	cfg       config.Config
	sessions  *memory.Registry
	simulator *trainer.Simulator
	evaluator *trainer.Evaluator
	store     store.Store
	mailer    ScoreMailer
	users     *testusers.Client
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
}

func New(cfg config.Config, sessions *memory.Registry, simulator *trainer.Simulator, evaluator *trainer.Evaluator, st store.Store, mailer ScoreMailer, users *testusers.Client, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		simulator: simulator,
		evaluator: evaluator,
		store:     st,
		mailer:    mailer,
		users:     users,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/response", s.handleResponse)
	r.Get("/chat-history", s.handleChatHistory)
	r.Get("/evaluation-history", s.handleEvaluationHistory)
	r.Get("/test-users", s.handleTestUsers)
	r.Get("/ws/chat", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"mail_enabled": s.mailer != nil,
	})
}

type responseRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

// handleResponse is the primary practice endpoint. A normal utterance yields
// a simulated patient reply; the literal "end chat" ends the session and
// yields the evaluation instead.
func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Query parameter is missing.")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter is missing.")
		return
	}

	sessionKey := strings.TrimSpace(req.SessionID)
	if sessionKey == "" {
		sessionKey = defaultSessionKey
	}

	sess := s.sessions.Acquire(sessionKey)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Count()))
	sess.Lock()
	defer sess.Unlock()

	if trainer.IsEndChat(query) {
		transcript := sess.Transcript()
		if strings.TrimSpace(transcript) == "" {
			respondJSON(w, http.StatusOK, map[string]any{"response": trainer.NoConversationReply})
			return
		}

		score, feedback := s.evaluator.Evaluate(r.Context(), transcript)
		sess.Reset()
		s.metrics.SessionEvents.WithLabelValues("ended").Inc()

		if email := strings.TrimSpace(req.Email); email != "" && s.mailer != nil {
			go func() {
				if err := s.mailer.SendScore(email, score, feedback); err != nil {
					log.Printf("failed to email score to %q: %v", email, err)
				}
			}()
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"response": trainer.ChatEndedReply,
			"score":    score,
			"feedback": feedback,
		})
		return
	}

	reply := s.simulator.Respond(r.Context(), sess, query)
	s.metrics.SessionEvents.WithLabelValues("turn").Inc()
	respondJSON(w, http.StatusOK, map[string]any{"response": reply})
}

type chatHistoryEntry struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.RecentChats(r.Context(), historyLimit)
	if err != nil {
		log.Printf("failed to fetch chat history: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch chat history.")
		return
	}

	out := make([]chatHistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, chatHistoryEntry{
			User:      row.UserQuery,
			Bot:       row.BotResponse,
			Timestamp: row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"chat_history": out})
}

type evaluationEntry struct {
	Conversation string    `json:"conversation"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	Timestamp    time.Time `json:"timestamp"`
}

func (s *Server) handleEvaluationHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.RecentEvaluations(r.Context(), historyLimit)
	if err != nil {
		log.Printf("failed to fetch evaluation history: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch evaluation history.")
		return
	}

	out := make([]evaluationEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, evaluationEntry{
			Conversation: row.Conversation,
			Score:        row.Score,
			Feedback:     row.Feedback,
			Timestamp:    row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"evaluations": out})
}

func (s *Server) handleTestUsers(w http.ResponseWriter, r *http.Request) {
	if s.users == nil {
		respondError(w, http.StatusNotFound, "Test user source not configured.")
		return
	}
	users, err := s.users.Fetch(r.Context())
	if err != nil {
		log.Printf("failed to fetch test users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch test users.")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// handleChatWS runs a live practice conversation over a websocket. The
// client sends utterance messages; each gets a reply event, and "end chat"
// produces a final evaluation event before the server closes the channel.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionKey := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionKey == "" {
		sessionKey = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(64 << 10)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		utterance, err := protocol.ParseClientMessage(data)
		if err != nil {
			event := protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			}
			if writeErr := s.writeWS(conn, event); writeErr != nil {
				return
			}
			continue
		}

		sess := s.sessions.Acquire(sessionKey)
		s.metrics.ActiveSessions.Set(float64(s.sessions.Count()))

		if trainer.IsEndChat(utterance.Text) {
			sess.Lock()
			transcript := sess.Transcript()
			if strings.TrimSpace(transcript) == "" {
				sess.Unlock()
				_ = s.writeWS(conn, protocol.Reply{Type: protocol.TypeReply, Text: trainer.NoConversationReply})
				return
			}
			score, feedback := s.evaluator.Evaluate(r.Context(), transcript)
			sess.Reset()
			sess.Unlock()
			s.metrics.SessionEvents.WithLabelValues("ended").Inc()

			_ = s.writeWS(conn, protocol.Evaluation{
				Type:     protocol.TypeEvaluation,
				Response: trainer.ChatEndedReply,
				Score:    score,
				Feedback: feedback,
			})
			return
		}

		sess.Lock()
		reply := s.simulator.Respond(r.Context(), sess, utterance.Text)
		sess.Unlock()
		s.metrics.SessionEvents.WithLabelValues("turn").Inc()

		if err := s.writeWS(conn, protocol.Reply{Type: protocol.TypeReply, Text: reply}); err != nil {
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
