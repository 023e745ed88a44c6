package driven

import (
	"context"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

// SessionStore keeps a history of finished sessions and their per-file results.
type SessionStore interface {
	// SaveSession stores a session with its results, replacing any session with the same ID.
	SaveSession(ctx context.Context, summary *domain.SessionSummary) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetSession(ctx context.Context, id string) (*domain.SessionSummary, error)

	// ListSessions returns up to limit sessions, most recent first.
	ListSessions(ctx context.Context, limit int) ([]domain.SessionSummary, error)

	// PruneSessions removes all but the keep most recent sessions.
	PruneSessions(ctx context.Context, keep int) error
}
