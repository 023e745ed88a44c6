package driving

import "context"

// EditorLauncher lets the user hand-edit text in their default editor.
type EditorLauncher interface {
	// Edit stages text in a temporary file, opens it, waits for the user,
	// and returns the file's content. It always returns usable text:
	// launch, readback and cancellation fall back to the input, and
	// edited reports whether the returned text was read back from the file.
	Edit(ctx context.Context, text string) (result string, edited bool)
}
