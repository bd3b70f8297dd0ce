package memory

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Exchange is one human/assistant message pair. Pairs are immutable once
// appended.
type Exchange struct {
	Human     string
	Assistant string
}

// Session holds the bounded conversation history for one session key. The
// embedded mutex serializes turn handling for the key: callers lock the
// session for the duration of a turn (including the model call) so that
// concurrent requests for the same key cannot interleave history writes.
type Session struct {
	mu sync.Mutex

	key          string
	window       int
	exchanges    []Exchange
	lastActivity atomic.Int64
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Key returns the session key.
func (s *Session) Key() string { return s.key }

// Append records one exchange, evicting the oldest pair beyond the window.
// The caller must hold the session lock.
func (s *Session) Append(human, assistant string) {
	s.exchanges = append(s.exchanges, Exchange{Human: human, Assistant: assistant})
	if len(s.exchanges) > s.window {
		s.exchanges = append([]Exchange(nil), s.exchanges[len(s.exchanges)-s.window:]...)
	}
	s.touch()
}

// History returns a snapshot of the retained exchanges, oldest first.
// The caller must hold the session lock.
func (s *Session) History() []Exchange {
	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

// Transcript flattens the retained history into newline-joined message
// content, alternating human and assistant text in order.
// The caller must hold the session lock.
func (s *Session) Transcript() string {
	parts := make([]string, 0, len(s.exchanges)*2)
	for _, ex := range s.exchanges {
		parts = append(parts, ex.Human, ex.Assistant)
	}
	return strings.Join(parts, "\n")
}

// Reset clears the retained history so the next utterance starts a fresh
// conversation. The caller must hold the session lock.
func (s *Session) Reset() {
	s.exchanges = nil
	s.touch()
}

// Len reports the number of retained exchange pairs.
// The caller must hold the session lock.
func (s *Session) Len() int { return len(s.exchanges) }

func (s *Session) touch() {
	s.lastActivity.Store(time.Now().UTC().UnixNano())
}

// Registry maps session keys to bounded histories. Sessions are created
// lazily on first use and evicted by the janitor once idle longer than the
// configured timeout.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	window      int
	idleTimeout time.Duration
}

func NewRegistry(window int, idleTimeout time.Duration) *Registry {
	if window <= 0 {
		window = 5
	}
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		window:      window,
		idleTimeout: idleTimeout,
	}
}

// Acquire returns the session for key, creating it on first use.
func (r *Registry) Acquire(key string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if ok {
		s.touch()
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		s.touch()
		return s
	}
	s = &Session{key: key, window: r.window}
	s.touch()
	r.sessions[key] = s
	return s
}

// Count reports the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartJanitor evicts idle sessions in the background until ctx is done.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.evictIdle()
			}
		}
	}()
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().UTC().Add(-r.idleTimeout).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.sessions {
		if s.lastActivity.Load() < cutoff {
			delete(r.sessions, key)
		}
	}
}
