package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
	"github.com/custodia-labs/sqlcommenter/internal/logger"
)

// Ensure ProcessorService implements the interface.
var _ driving.FileProcessor = (*ProcessorService)(nil)

// File permissions for written output.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ProcessorService runs the per-file review workflow for one profile.
type ProcessorService struct {
	commenter driving.CommentingService
	editor    driving.EditorLauncher
	decoder   driven.TextDecoder
	console   driven.Console
	profile   domain.Profile
}

// NewProcessorService creates a file processor.
func NewProcessorService(
	commenter driving.CommentingService,
	editor driving.EditorLauncher,
	decoder driven.TextDecoder,
	console driven.Console,
	profile domain.Profile,
) *ProcessorService {
	return &ProcessorService{
		commenter: commenter,
		editor:    editor,
		decoder:   decoder,
		console:   console,
		profile:   profile,
	}
}

// Process loads, comments, and optionally edits and saves one file.
// Every error ends up in the returned result; the original stays in place
// unless the output was written and archiving is enabled.
func (s *ProcessorService) Process(ctx context.Context, path string) domain.FileResult {
	result := domain.FileResult{Path: path}

	s.console.Header("File: %s", path)

	doc, err := s.load(path)
	if err != nil {
		return s.fail(result, err)
	}
	if err := ctx.Err(); err != nil {
		return s.fail(result, err)
	}

	annotated, err := s.commenter.Comment(ctx, doc)
	if err != nil {
		return s.fail(result, err)
	}

	s.console.Success("Commented version:")
	s.console.Print(annotated.Content)

	edit, err := s.console.Confirm(ctx, "Do you want to edit the comments before saving?")
	if err != nil {
		return s.fail(result, err)
	}
	if edit {
		annotated.Content, annotated.Edited = s.editor.Edit(ctx, annotated.Content)
		result.Edited = annotated.Edited
	}

	save, err := s.console.Confirm(ctx, fmt.Sprintf("Save as %s?", s.profile.OutputSuffix))
	if err != nil {
		return s.fail(result, err)
	}
	if !save {
		s.console.Warn("Skipped saving and archiving.")
		result.State = domain.FileStateSkipped
		return result
	}

	// An interrupt may land while an answer is already on its way.
	if err := ctx.Err(); err != nil {
		return s.fail(result, err)
	}
	outputPath, err := s.save(annotated)
	if err != nil {
		return s.fail(result, err)
	}
	result.OutputPath = outputPath
	s.console.Success("Saved to: %s", outputPath)

	if s.profile.ArchiveOriginal {
		if err := ctx.Err(); err != nil {
			return s.fail(result, err)
		}
		archivePath, err := s.archive(path)
		if err != nil {
			return s.fail(result, err)
		}
		result.ArchivePath = archivePath
		s.console.Info("Moved original to: %s", archivePath)
	}

	result.State = domain.FileStateSaved
	return result
}

func (s *ProcessorService) load(path string) (*domain.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text, encoding, err := s.decoder.Decode(data, s.profile.FallbackEncoding)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Debug("Loaded %s (%d bytes, %s)", path, len(data), encoding)

	return &domain.SourceDocument{
		Path:     path,
		Content:  text,
		Encoding: encoding,
	}, nil
}

// save writes the annotated text as UTF-8 and returns the output path.
func (s *ProcessorService) save(doc *domain.AnnotatedDocument) (string, error) {
	dir := filepath.Dir(doc.Source.Path)
	if s.profile.RelocateOutput {
		dir = siblingDir(dir, domain.DoneFolder)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	outputPath := filepath.Join(dir, domain.OutputName(doc.Source.Name(), s.profile.OutputSuffix))
	if err := os.WriteFile(outputPath, []byte(doc.Content), filePerm); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// archive moves the original into the archive folder, replacing any file of the same name.
func (s *ProcessorService) archive(path string) (string, error) {
	dir := siblingDir(filepath.Dir(path), domain.ArchiveFolder)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create archive folder: %w", err)
	}

	archivePath := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	return archivePath, nil
}

// siblingDir returns the folder name next to dir. A symlinked dir is resolved
// first so the sibling lands beside the link target, as the OS resolves "..".
func siblingDir(dir, name string) string {
	if info, err := os.Lstat(dir); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			dir = resolved
		}
	}
	return filepath.Join(dir, "..", name)
}

func (s *ProcessorService) fail(result domain.FileResult, err error) domain.FileResult {
	s.console.Error("Error processing file %s: %v", result.Path, err)
	result.State = domain.FileStateFailed
	result.Err = err
	return result
}
