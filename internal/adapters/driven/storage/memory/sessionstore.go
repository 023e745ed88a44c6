package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore for testing.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionSummary
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionSummary),
	}
}

// SaveSession stores a copy of the session.
func (s *SessionStore) SaveSession(_ context.Context, summary *domain.SessionSummary) error {
	if summary == nil || summary.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *summary
	saved.Results = append([]domain.FileResult(nil), summary.Results...)
	s.sessions[summary.ID] = saved
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (*domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &summary, nil
}

// ListSessions returns up to limit sessions, most recent first.
func (s *SessionStore) ListSessions(_ context.Context, limit int) ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(limit), nil
}

// PruneSessions removes all but the keep most recent sessions.
func (s *SessionStore) PruneSessions(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make(map[string]domain.SessionSummary, keep)
	for _, summary := range s.sorted(keep) {
		kept[summary.ID] = summary
	}
	s.sessions = kept
	return nil
}

// sorted must be called with the lock held.
func (s *SessionStore) sorted(limit int) []domain.SessionSummary {
	list := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, summary := range s.sessions {
		list = append(list, summary)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StartedAt.After(list[j].StartedAt)
	})
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
