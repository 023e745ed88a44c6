package driven

import "context"

// Console is the session's output sink and input source.
// It is passed explicitly so tests can script answers and capture output.
type Console interface {
	// Header prints a section heading, such as the file being processed.
	Header(format string, args ...any)

	// Print writes plain text followed by a newline.
	Print(text string)

	// Success prints a positive outcome.
	Success(format string, args ...any)

	// Info prints a neutral notice.
	Info(format string, args ...any)

	// Warn prints a non-fatal problem.
	Warn(format string, args ...any)

	// Error prints a failure.
	Error(format string, args ...any)

	// Ask prompts for a line of text, returning def when the answer is empty.
	// It returns ctx.Err() if ctx is cancelled while waiting.
	Ask(ctx context.Context, question, def string) (string, error)

	// Confirm asks a yes/no question, repeating it until the answer is recognised.
	// It returns ctx.Err() if ctx is cancelled while waiting.
	Confirm(ctx context.Context, question string) (bool, error)

	// WaitForEnter prints message and blocks until the user presses Enter
	// or ctx is cancelled.
	WaitForEnter(ctx context.Context, message string) error
}
