package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
	"github.com/custodia-labs/sqlcommenter/internal/logger"
)

// Ensure CommentingService implements the interface.
var _ driving.CommentingService = (*CommentingService)(nil)

// promptPlaceholder marks where the SQL text goes in a template.
const promptPlaceholder = "%s"

const defaultInlinePrompt = `You are an expert SQL developer.

Your task is to **add English inline comments** using ` + "`--`" + ` style directly into the SQL code.

Guidelines:
- DO NOT summarize the query or give feedback.
- DO NOT write in natural language outside the SQL.
- DO NOT change the SQL structure or logic.
- DO ONLY return the full SQL code with inline comments added in appropriate places.

Here is the SQL code:

SQL:
%s
`

const defaultHeaderPrompt = `Jesteś asystentem SQL. Otrzymasz zapytanie SQL bez komentarzy.
Twoim zadaniem jest dodać na początku pliku komentarze w języku polskim, które krótko i jasno opisują, co robi zapytanie.
Używaj tylko komentarzy w formacie ` + "`-- komentarz`" + `, nie używaj formatu /* ... */.
Zwróć pełen kod SQL z dodanymi komentarzami.

SQL:
%s
`

// DefaultPrompts returns the built-in prompt templates keyed by prompt name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptCommentInline: defaultInlinePrompt,
		driven.PromptCommentHeader: defaultHeaderPrompt,
	}
}

// PromptName returns the prompt template used for a comment style.
func PromptName(style domain.CommentStyle) string {
	if style == domain.CommentStyleHeader {
		return driven.PromptCommentHeader
	}
	return driven.PromptCommentInline
}

// CommentingService annotates SQL through a language model.
type CommentingService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	style   domain.CommentStyle
}

// NewCommentingService creates a commenting service.
// prompts may be nil, in which case the built-in templates are used.
func NewCommentingService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	style domain.CommentStyle,
) *CommentingService {
	return &CommentingService{
		llm:     llm,
		prompts: prompts,
		style:   style,
	}
}

// Comment sends the document in a single user message and returns the reply verbatim.
func (s *CommentingService) Comment(
	ctx context.Context,
	doc *domain.SourceDocument,
) (*domain.AnnotatedDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Commenting " + doc.Name())
	logger.Debug("Input SQL:\n%s", logger.Preview(doc.Content))

	prompt, err := s.buildPrompt(doc.Content)
	if err != nil {
		return nil, err
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleUser, Content: prompt},
	}

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("comment %s: %w", doc.Name(), err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("comment %s: %w", doc.Name(), domain.ErrEmptyCompletion)
	}

	logger.Debug("Model %s returned %d characters", s.llm.ModelName(), len(reply))

	return &domain.AnnotatedDocument{
		Source:  doc,
		Content: reply,
		Model:   s.llm.ModelName(),
	}, nil
}

// buildPrompt inserts sql verbatim at the template's placeholder.
// Templates without a placeholder get the SQL appended after an "SQL:" label.
func (s *CommentingService) buildPrompt(sql string) (string, error) {
	name := PromptName(s.style)

	tmpl := DefaultPrompts()[name]
	if s.prompts != nil {
		loaded, err := s.prompts.Load(name)
		if err != nil {
			return "", fmt.Errorf("load prompt %s: %w", name, err)
		}
		tmpl = loaded
	}

	if !strings.Contains(tmpl, promptPlaceholder) {
		logger.Warn("Prompt %s has no %s placeholder, appending SQL", name, promptPlaceholder)
		return strings.TrimRight(tmpl, "\n") + "\n\nSQL:\n" + sql + "\n", nil
	}

	// strings.Replace keeps any % characters in the SQL intact.
	return strings.Replace(tmpl, promptPlaceholder, sql, 1), nil
}
