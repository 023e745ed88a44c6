package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

// timeLayout is fixed-width in UTC so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSession stores a session and replaces its results.
func (s *sessionStore) SaveSession(ctx context.Context, summary *domain.SessionSummary) error {
	if summary == nil || summary.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, folder, profile, model, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			folder = excluded.folder,
			profile = excluded.profile,
			model = excluded.model,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, summary.ID, summary.Folder, summary.Profile, summary.Model,
		formatTime(summary.StartedAt), formatNullableTime(summary.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM file_results WHERE session_id = ?", summary.ID); err != nil {
		return fmt.Errorf("clearing file results: %w", err)
	}

	for i, r := range summary.Results {
		var errMsg string
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO file_results (session_id, position, path, state, output_path, archive_path, edited, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, summary.ID, i, r.Path, r.State.String(),
			nullString(r.OutputPath), nullString(r.ArchivePath), boolToInt(r.Edited), nullString(errMsg))
		if err != nil {
			return fmt.Errorf("saving file result %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// GetSession retrieves a session with its results.
func (s *sessionStore) GetSession(ctx context.Context, id string) (*domain.SessionSummary, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, folder, profile, model, started_at, finished_at
		FROM sessions WHERE id = ?
	`, id)

	summary, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	results, err := s.results(ctx, id)
	if err != nil {
		return nil, err
	}
	summary.Results = results
	return summary, nil
}

// ListSessions returns up to limit sessions, most recent first.
func (s *sessionStore) ListSessions(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, folder, profile, model, started_at, finished_at
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}

	var sessions []domain.SessionSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		summary, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, *summary)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	rows.Close()

	// Results are loaded after the cursor is closed so a single pooled connection suffices.
	for i := range sessions {
		results, err := s.results(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Results = results
	}

	return sessions, nil
}

// PruneSessions removes all but the keep most recent sessions.
// File results are removed by the foreign key cascade.
func (s *sessionStore) PruneSessions(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning sessions: %w", err)
	}
	return nil
}

func (s *sessionStore) results(ctx context.Context, sessionID string) ([]domain.FileResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT path, state, output_path, archive_path, edited, error
		FROM file_results
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying file results: %w", err)
	}
	defer rows.Close()

	var results []domain.FileResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.FileResult
		var state string
		var outputPath, archivePath, errMsg sql.NullString
		var edited int

		if err := rows.Scan(&r.Path, &state, &outputPath, &archivePath, &edited, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning file result: %w", err)
		}
		r.State = domain.FileState(state)
		r.OutputPath = outputPath.String
		r.ArchivePath = archivePath.String
		r.Edited = edited == 1
		if errMsg.Valid {
			r.Err = errors.New(errMsg.String)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file results: %w", err)
	}
	return results, nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*domain.SessionSummary, error) {
	var summary domain.SessionSummary
	var startedAt string
	var finishedAt sql.NullString

	if err := row.Scan(&summary.ID, &summary.Folder, &summary.Profile, &summary.Model,
		&startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	summary.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		summary.FinishedAt = parseTime(finishedAt.String)
	}
	return &summary, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
