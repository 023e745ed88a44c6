package services

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
	"github.com/custodia-labs/sqlcommenter/internal/logger"
)

// Ensure EditorService implements the interface.
var _ driving.EditorLauncher = (*EditorService)(nil)

// editorTempPattern names staged files; the trailing .sql picks the editor.
const editorTempPattern = "sqlcommenter-*.sql"

// editorDonePrompt is shown while the user edits the staged file.
const editorDonePrompt = "Edit the file, save it and press Enter here when you are done..."

// EditorService stages text in a temporary file for hand editing.
type EditorService struct {
	opener  driven.Opener
	console driven.Console
	tempDir string
}

// NewEditorService creates an editor launcher. An empty tempDir uses os.TempDir.
func NewEditorService(opener driven.Opener, console driven.Console, tempDir string) *EditorService {
	return &EditorService{
		opener:  opener,
		console: console,
		tempDir: tempDir,
	}
}

// Edit opens text in the default application and returns the file content once
// the user presses Enter. Any failure along the way degrades to returning text
// with edited false.
func (s *EditorService) Edit(ctx context.Context, text string) (string, bool) {
	tmp, err := os.CreateTemp(s.tempDir, editorTempPattern)
	if err != nil {
		s.console.Error("Cannot create temporary file: %v", err)
		return text, false
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove %s: %v", path, err)
		}
	}()

	_, writeErr := tmp.WriteString(text)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		s.console.Error("Cannot write temporary file %s", path)
		return text, false
	}
	logger.Debug("Staged %d bytes in %s", len(text), path)

	if err := s.opener.Open(path); err != nil {
		s.console.Error("Failed to open the editor: %v", err)
		return text, false
	}
	if err := s.console.WaitForEnter(ctx, editorDonePrompt); err != nil {
		if ctx.Err() != nil {
			return text, false
		}
		s.console.Warn("No confirmation received: %v", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		s.console.Warn("Cannot read back %s, keeping the previous text: %v", path, err)
		return text, false
	}
	if strings.TrimSpace(string(edited)) == "" {
		s.console.Warn("Edited file is empty, keeping the previous text")
		return text, false
	}
	return string(edited), true
}
