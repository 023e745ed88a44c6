package driving

import (
	"context"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

// CommentingService asks a language model to annotate SQL with comments.
type CommentingService interface {
	// Comment returns the document's SQL with comments inserted by the model.
	// Errors from the model call are returned unchanged in the chain.
	Comment(ctx context.Context, doc *domain.SourceDocument) (*domain.AnnotatedDocument, error)
}
