package domain

import (
	"path/filepath"
	"strings"
)

// SQLExtension is the exact, case-sensitive suffix of files picked up by a session.
const SQLExtension = ".sql"

// SourceDocument is the raw content of one input file.
type SourceDocument struct {
	// Path is the location of the file on disk.
	Path string

	// Content is the decoded text of the file.
	Content string

	// Encoding names the character encoding the content was decoded from.
	Encoding string
}

// Name returns the base file name of the document.
func (d SourceDocument) Name() string {
	return filepath.Base(d.Path)
}

// AnnotatedDocument is the text returned by the commenting model for a SourceDocument.
// Its content is not guaranteed to preserve the original SQL.
type AnnotatedDocument struct {
	// Source is the document the annotation was produced from.
	Source *SourceDocument

	// Content is the commented text, possibly hand-edited.
	Content string

	// Model is the model identifier that produced the annotation.
	Model string

	// Edited is true once the content has been through the external editor.
	Edited bool
}

// IsSQLFile reports whether name ends in .sql, including a file named just ".sql".
// Names such as "query.SQL" or "query.sql.bak" are rejected.
func IsSQLFile(name string) bool {
	return strings.HasSuffix(name, SQLExtension)
}

// OutputName derives the output file name by replacing the trailing .sql with suffix.
func OutputName(name, suffix string) string {
	return strings.TrimSuffix(name, SQLExtension) + suffix
}
