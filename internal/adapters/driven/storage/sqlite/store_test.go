package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testSummary(id string, started time.Time) *domain.SessionSummary {
	return &domain.SessionSummary{
		ID:         id,
		Folder:     "sql/to_do",
		Profile:    domain.ProfileInline,
		Model:      "llama3:instruct",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Results: []domain.FileResult{
			{
				Path:        "sql/to_do/a.sql",
				State:       domain.FileStateSaved,
				OutputPath:  "sql/done/a-v2.sql",
				ArchivePath: "sql/archiwum/a.sql",
				Edited:      true,
			},
			{Path: "sql/to_do/b.sql", State: domain.FileStateSkipped},
			{Path: "sql/to_do/c.sql", State: domain.FileStateFailed, Err: errors.New("model not found")},
		},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "history.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SessionStore().SaveSession(context.Background(), testSummary("s1", time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.SessionStore().GetSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t).SessionStore()
	ctx := context.Background()
	started := time.Date(2026, 3, 4, 10, 30, 0, 123, time.UTC)

	require.NoError(t, store.SaveSession(ctx, testSummary("s1", started)))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "sql/to_do", got.Folder)
	assert.Equal(t, domain.ProfileInline, got.Profile)
	assert.Equal(t, "llama3:instruct", got.Model)
	assert.True(t, started.Equal(got.StartedAt))
	assert.True(t, started.Add(2*time.Minute).Equal(got.FinishedAt))

	require.Len(t, got.Results, 3)
	assert.Equal(t, "sql/done/a-v2.sql", got.Results[0].OutputPath)
	assert.Equal(t, "sql/archiwum/a.sql", got.Results[0].ArchivePath)
	assert.True(t, got.Results[0].Edited)
	assert.NoError(t, got.Results[0].Err)
	assert.Equal(t, domain.FileStateSkipped, got.Results[1].State)
	assert.Empty(t, got.Results[1].OutputPath)
	assert.EqualError(t, got.Results[2].Err, "model not found")
	assert.Equal(t, 1, got.Count(domain.FileStateFailed))
}

func TestSessionStore_SaveReplacesResults(t *testing.T) {
	store := setupTestStore(t).SessionStore()
	ctx := context.Background()
	summary := testSummary("s1", time.Now())
	require.NoError(t, store.SaveSession(ctx, summary))

	summary.Results = summary.Results[:1]
	require.NoError(t, store.SaveSession(ctx, summary))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Results, 1)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := setupTestStore(t).SessionStore()

	_, err := store.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_SaveInvalid(t *testing.T) {
	store := setupTestStore(t).SessionStore()

	assert.ErrorIs(t, store.SaveSession(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveSession(context.Background(), &domain.SessionSummary{}), domain.ErrInvalidInput)
}

func TestSessionStore_ListAndPrune(t *testing.T) {
	store := setupTestStore(t).SessionStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveSession(ctx, testSummary(id, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := store.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Len(t, list[0].Results, 3)

	require.NoError(t, store.PruneSessions(ctx, 1))

	list, err = store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)

	_, err = store.GetSession(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
