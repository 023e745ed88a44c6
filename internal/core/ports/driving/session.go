package driving

import (
	"context"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

// SessionDriver processes every .sql file of a folder in sequence.
type SessionDriver interface {
	// Files lists the .sql files of folder in processing order.
	Files(folder string) ([]string, error)

	// Run processes every file of folder. It returns domain.ErrFolderNotFound
	// or domain.ErrNoFiles when there is nothing to do; per-file failures
	// are recorded in the summary instead.
	Run(ctx context.Context, folder string) (*domain.SessionSummary, error)
}
