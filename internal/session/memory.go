package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bobarin/echoverse/internal/models"
)

type memorySession struct {
	history  models.History
	lastSeen time.Time
}

// MemoryStore keeps histories in process memory. A session ends after ttl
// without activity; its history is dropped with it.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (models.History, error) {
	if !ValidID(id) {
		return models.History{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return models.History{}, nil
	}
	sess.lastSeen = s.now()
	return sess.history, nil
}

func (s *MemoryStore) Append(ctx context.Context, id string, n *models.Narration) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &memorySession{}
		s.sessions[id] = sess
	}
	sess.history = sess.history.Append(n)
	sess.lastSeen = s.now()
	return nil
}

// live returns the session if it has not expired, dropping it otherwise. Callers hold mu.
func (s *MemoryStore) live(id string) (*memorySession, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

// Sweep drops expired sessions and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweep()
}

func (s *MemoryStore) sweep() int {
	removed := 0
	for id, sess := range s.sessions {
		if s.now().Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("expired sessions dropped", "count", removed)
	}
	return removed
}
