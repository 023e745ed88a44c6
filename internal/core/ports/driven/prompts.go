package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
// Both templates expect a single %s placeholder for the SQL text.
const (
	// PromptCommentInline asks for English inline "--" comments.
	PromptCommentInline = "comment_inline"

	// PromptCommentHeader asks for Polish header comments describing the query.
	PromptCommentHeader = "comment_header"
)

// PromptNames returns every well-known prompt name.
func PromptNames() []string {
	return []string{PromptCommentInline, PromptCommentHeader}
}
