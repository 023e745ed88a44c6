package domain

import "errors"

// Domain errors represent workflow failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFolderNotFound indicates the session folder is missing or not a directory.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrNoFiles indicates the session folder holds no .sql files.
	ErrNoFiles = errors.New("no .sql files found")

	// ErrDecode indicates file content could not be decoded with any allowed encoding.
	ErrDecode = errors.New("cannot decode file content")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmptyCompletion indicates the model returned no text.
	ErrEmptyCompletion = errors.New("model returned empty completion")

	// ErrEditorLaunch indicates the default application could not be started.
	ErrEditorLaunch = errors.New("cannot launch editor")

	// ErrUnsupportedPlatform indicates no launch mechanism exists for the current OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
