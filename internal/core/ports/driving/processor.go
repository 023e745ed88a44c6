package driving

import (
	"context"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

// FileProcessor runs the per-file workflow: load, comment, review, save.
type FileProcessor interface {
	// Process handles one file. Every failure is reported in the result.
	Process(ctx context.Context, path string) domain.FileResult
}
