package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
}

func newTestSession(processor driving.FileProcessor, console *mockConsole) *SessionService {
	svc := NewSessionService(processor, console, domain.ProfileInline, "")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() string { return "session-1" }
	return svc
}

func TestSessionService_Files_ExactSuffixOnly(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.sql", "a.sql", "c.SQL", "d.sql.bak", "notes.txt", ".sql")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.sql"), 0o755))

	svc := newTestSession(&mockProcessor{}, newMockConsole())
	files, err := svc.Files(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, ".sql"), filepath.Join(dir, "a.sql"), filepath.Join(dir, "b.sql"),
	}, files)
}

func TestSessionService_Files_BareExtensionName(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, ".sql")

	files, err := newTestSession(&mockProcessor{}, newMockConsole()).Files(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".sql")}, files)
}

func TestSessionService_Run_ProcessesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.sql", "two.sql", "three.SQL", "four.sql.bak")
	processor := &mockProcessor{state: domain.FileStateSaved}
	console := newMockConsole()

	summary, err := newTestSession(processor, console).Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "one.sql"), filepath.Join(dir, "two.sql")}, processor.paths)
	assert.Equal(t, "session-1", summary.ID)
	assert.Equal(t, dir, summary.Folder)
	assert.Equal(t, domain.ProfileInline, summary.Profile)
	assert.Len(t, summary.Results, 2)
	assert.Equal(t, 2, summary.Count(domain.FileStateSaved))
	assert.Contains(t, console.output(), "Saved: 2, skipped: 0, failed: 0")
}

func TestSessionService_Run_PromptsForFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "q.sql")
	processor := &mockProcessor{}
	console := newMockConsole(dir)

	summary, err := newTestSession(processor, console).Run(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, dir, summary.Folder)
	assert.Contains(t, console.output(), "ask: "+folderQuestion)
}

func TestSessionService_Run_EmptyAnswerUsesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "q.sql")
	processor := &mockProcessor{}
	svc := NewSessionService(processor, newMockConsole(""), domain.ProfileHeader, dir)

	summary, err := svc.Run(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, dir, summary.Folder)
	assert.Len(t, processor.paths, 1)
}

func TestSessionService_Run_NoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.txt")
	processor := &mockProcessor{}
	console := newMockConsole()

	summary, err := newTestSession(processor, console).Run(context.Background(), dir)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrNoFiles)
	assert.Empty(t, processor.paths)
	assert.Contains(t, console.output(), "warn: No .sql files")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSessionService_Run_MissingFolder(t *testing.T) {
	processor := &mockProcessor{}
	console := newMockConsole()
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := newTestSession(processor, console).Run(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrFolderNotFound)
	assert.Empty(t, processor.paths)
	assert.Contains(t, console.output(), "does not exist")
	assert.NoDirExists(t, missing)
}

func TestSessionService_Run_FolderIsAFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "q.sql")

	_, err := newTestSession(&mockProcessor{}, newMockConsole()).Run(context.Background(), filepath.Join(dir, "q.sql"))

	assert.ErrorIs(t, err, domain.ErrFolderNotFound)
}

func TestSessionService_Run_AfterArchivingEverything(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "to_do")
	require.NoError(t, os.Mkdir(input, 0o755))
	writeFiles(t, input, "q.sql")

	profile, err := domain.LookupProfile(domain.ProfileInline)
	require.NoError(t, err)
	console := newMockConsole("n", "y")
	commenter := NewCommentingService(&mockLLMService{reply: "-- x\nSELECT 1;"}, nil, profile.Style)
	processor := NewProcessorService(commenter, &mockEditor{}, decoderForTests(), console, profile)
	svc := NewSessionService(processor, console, profile.Name, "")

	summary, err := svc.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count(domain.FileStateSaved))

	_, err = svc.Run(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrNoFiles)
	assert.ElementsMatch(t, []string{"done/q-v2.sql", "archiwum/q.sql"}, listTree(t, root))
}

func TestSessionService_Run_StopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.sql", "b.sql", "c.sql")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	processor := &mockProcessor{cancel: cancel}

	summary, err := newTestSession(processor, newMockConsole()).Run(ctx, dir)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Len(t, summary.Results, 1)
	assert.Equal(t, []string{filepath.Join(dir, "a.sql")}, processor.paths)
}

func TestSessionService_Run_InterruptDuringLastFileIsReported(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "only.sql")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console := newMockConsole()

	summary, err := newTestSession(&mockProcessor{cancel: cancel}, console).Run(ctx, dir)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Len(t, summary.Results, 1)
	assert.NotContains(t, console.output(), "finished")
}

func TestSessionService_Run_FolderPromptClosed(t *testing.T) {
	_, err := newTestSession(&mockProcessor{}, newMockConsole()).Run(context.Background(), "")

	assert.ErrorIs(t, err, errConsoleEOF)
}

func TestSessionService_Run_InterruptedAtFolderPrompt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console := newMockConsole("ignored")
	console.interruptOn = folderQuestion
	console.interrupt = cancel
	processor := &mockProcessor{}

	summary, err := newTestSession(processor, console).Run(ctx, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, summary)
	assert.Empty(t, processor.paths)
}

func TestSessionService_Run_InterruptedDuringPromptStopsSession(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.sql", "b.sql")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console := newMockConsole("n", "y", "n", "y")
	console.interruptOn = "Save as"
	console.interrupt = cancel
	profile, err := domain.LookupProfile(domain.ProfileHeader)
	require.NoError(t, err)
	commenter := NewCommentingService(&mockLLMService{reply: "-- c\nSELECT 1;"}, nil, profile.Style)
	processor := NewProcessorService(commenter, &mockEditor{}, decoderForTests(), console, profile)

	summary, err := newTestSession(processor, console).Run(ctx, dir)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, domain.FileStateFailed, summary.Results[0].State)
	assert.NoFileExists(t, filepath.Join(dir, "a-v2.sql"))
	assert.NoFileExists(t, filepath.Join(dir, "b-v2.sql"))
}

func TestSessionService_Run_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.sql", "b.sql")
	history := memory.NewSessionStore()
	svc := newTestSession(&mockProcessor{state: domain.FileStateSaved}, newMockConsole()).
		WithHistory(history).
		WithModel("mistral")

	_, err := svc.Run(context.Background(), dir)
	require.NoError(t, err)

	got, err := history.GetSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "mistral", got.Model)
	assert.Len(t, got.Results, 2)
	assert.Equal(t, 2, got.Count(domain.FileStateSaved))
}

func TestSessionService_Run_RecordsInterruptedSession(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.sql", "b.sql")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	history := memory.NewSessionStore()
	svc := newTestSession(&mockProcessor{cancel: cancel}, newMockConsole()).WithHistory(history)

	_, err := svc.Run(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)

	got, err := history.GetSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Len(t, got.Results, 1)
}

func TestSessionService_Run_NoHistoryWithoutFiles(t *testing.T) {
	history := memory.NewSessionStore()
	svc := newTestSession(&mockProcessor{}, newMockConsole()).WithHistory(history)

	_, err := svc.Run(context.Background(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrNoFiles)

	list, err := history.ListSessions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
