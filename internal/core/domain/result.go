package domain

import "time"

// FileState is the terminal state a file reached during processing.
type FileState string

// Terminal file states.
const (
	// FileStateSaved means the annotated text was written (and the original archived if enabled).
	FileStateSaved FileState = "saved"

	// FileStateSkipped means the user declined to save; nothing on disk changed.
	FileStateSkipped FileState = "skipped"

	// FileStateFailed means an error stopped processing of the file.
	FileStateFailed FileState = "failed"
)

// String returns the string representation.
func (s FileState) String() string {
	return string(s)
}

// FileResult is the outcome of processing one file.
// Failures travel here as data; the processor never returns them as errors.
type FileResult struct {
	// Path is the input file.
	Path string

	// State is the terminal state.
	State FileState

	// OutputPath is where the annotated text was written, if saved.
	OutputPath string

	// ArchivePath is where the original was moved, if archived.
	ArchivePath string

	// Edited is true if the text went through the external editor.
	Edited bool

	// Err is the failure cause when State is FileStateFailed.
	Err error
}

// SessionSummary aggregates the results of one session.
type SessionSummary struct {
	// ID uniquely identifies the session in logs.
	ID string

	// Folder is the input folder.
	Folder string

	// Profile is the name of the profile used.
	Profile string

	// Model is the model identifier the profile ran with.
	Model string

	// Results holds one entry per processed file, in processing order.
	Results []FileResult

	// StartedAt is when the session began.
	StartedAt time.Time

	// FinishedAt is when the session ended.
	FinishedAt time.Time
}

// Count returns the number of results in the given state.
func (s *SessionSummary) Count(state FileState) int {
	n := 0
	for _, r := range s.Results {
		if r.State == state {
			n++
		}
	}
	return n
}
