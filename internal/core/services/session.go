package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
	"github.com/custodia-labs/sqlcommenter/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionDriver = (*SessionService)(nil)

// folderQuestion is asked when no folder was given on the command line.
const folderQuestion = "Path to the folder with SQL files"

// HistoryKeep is the number of sessions retained in the history store.
const HistoryKeep = 100

// SessionService feeds every .sql file of a folder to the file processor.
type SessionService struct {
	processor     driving.FileProcessor
	console       driven.Console
	profile       string
	model         string
	defaultFolder string
	history       driven.SessionStore
	now           func() time.Time
	newID         func() string
}

// NewSessionService creates a session driver.
// defaultFolder is offered when Run is called without a folder.
func NewSessionService(
	processor driving.FileProcessor,
	console driven.Console,
	profile string,
	defaultFolder string,
) *SessionService {
	if defaultFolder == "" {
		defaultFolder = domain.DefaultSessionFolder
	}
	return &SessionService{
		processor:     processor,
		console:       console,
		profile:       profile,
		defaultFolder: defaultFolder,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// WithHistory records every session that processed at least one file in store.
func (s *SessionService) WithHistory(store driven.SessionStore) *SessionService {
	s.history = store
	return s
}

// WithModel sets the model identifier recorded with each session.
func (s *SessionService) WithModel(model string) *SessionService {
	s.model = model
	return s
}

// Files returns the .sql files directly inside folder in directory listing order.
// Directories and names with any other suffix are ignored.
func (s *SessionService) Files(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !domain.IsSQLFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}
	return files, nil
}

// Run processes each file of folder in turn, asking for the folder first when it is empty.
// Cancelling ctx stops the session before the next file.
func (s *SessionService) Run(ctx context.Context, folder string) (*domain.SessionSummary, error) {
	if folder == "" {
		answer, err := s.console.Ask(ctx, folderQuestion, s.defaultFolder)
		if err != nil {
			return nil, fmt.Errorf("read folder: %w", err)
		}
		folder = answer
	}

	summary := &domain.SessionSummary{
		ID:        s.newID(),
		Folder:    folder,
		Profile:   s.profile,
		Model:     s.model,
		StartedAt: s.now(),
	}
	logger.Info("Session %s: folder %s, profile %s", summary.ID, folder, s.profile)

	files, err := s.Files(folder)
	if err != nil {
		if errors.Is(err, domain.ErrFolderNotFound) {
			s.console.Error("Folder %s does not exist.", folder)
		}
		return nil, err
	}
	if len(files) == 0 {
		s.console.Warn("No .sql files in folder %s.", folder)
		return nil, fmt.Errorf("%w: %s", domain.ErrNoFiles, folder)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return s.interrupted(ctx, summary, err)
		}
		result := s.processor.Process(ctx, path)
		logger.Debug("Session %s: %s -> %s", summary.ID, path, result.State)
		summary.Results = append(summary.Results, result)
	}
	if err := ctx.Err(); err != nil {
		return s.interrupted(ctx, summary, err)
	}

	summary.FinishedAt = s.now()
	s.record(ctx, summary)
	s.report(summary)
	return summary, nil
}

func (s *SessionService) interrupted(
	ctx context.Context,
	summary *domain.SessionSummary,
	err error,
) (*domain.SessionSummary, error) {
	logger.Warn("Session %s interrupted: %v", summary.ID, err)
	summary.FinishedAt = s.now()
	s.record(ctx, summary)
	return summary, err
}

// record stores the session in the history. Failures are logged, never returned.
func (s *SessionService) record(ctx context.Context, summary *domain.SessionSummary) {
	if s.history == nil || len(summary.Results) == 0 {
		return
	}
	// The session may have been interrupted; the record is still written.
	ctx = context.WithoutCancel(ctx)
	if err := s.history.SaveSession(ctx, summary); err != nil {
		logger.Warn("Failed to record session %s: %v", summary.ID, err)
		return
	}
	if err := s.history.PruneSessions(ctx, HistoryKeep); err != nil {
		logger.Warn("Failed to prune session history: %v", err)
	}
}

func (s *SessionService) report(summary *domain.SessionSummary) {
	s.console.Header("Session %s finished", summary.ID)
	s.console.Info("Saved: %d, skipped: %d, failed: %d",
		summary.Count(domain.FileStateSaved),
		summary.Count(domain.FileStateSkipped),
		summary.Count(domain.FileStateFailed),
	)
}
