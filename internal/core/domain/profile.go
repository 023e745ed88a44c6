package domain

import (
	"fmt"
	"sort"
)

// Built-in profile names.
const (
	ProfileInline  = "inline"
	ProfileHeader  = "header"
	ProfileArchive = "archive"
)

// Folder names created next to the input folder.
const (
	DoneFolder    = "done"
	ArchiveFolder = "archiwum"
)

// DefaultOutputSuffix replaces the .sql suffix of saved files.
const DefaultOutputSuffix = "-v2.sql"

// EncodingWindows1250 is the legacy Central European code page used as a decode fallback.
const EncodingWindows1250 = "windows-1250"

// CommentStyle selects how the model is asked to annotate SQL.
type CommentStyle string

// Available comment styles.
const (
	// CommentStyleInline asks for English "--" comments inside the SQL body.
	CommentStyleInline CommentStyle = "inline"

	// CommentStyleHeader asks for Polish "--" comments at the top of the file.
	CommentStyleHeader CommentStyle = "header"
)

// IsValid returns true if the comment style is recognised.
func (s CommentStyle) IsValid() bool {
	switch s {
	case CommentStyleInline, CommentStyleHeader:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s CommentStyle) String() string {
	return string(s)
}

// Profile captures every behavioural difference between processing variants.
type Profile struct {
	// Name identifies the profile.
	Name string

	// Model is the model identifier sent with every chat request.
	Model string

	// Style selects the prompt template.
	Style CommentStyle

	// RelocateOutput writes saved files to <folder>/../done instead of next to the original.
	RelocateOutput bool

	// ArchiveOriginal moves the original file to <folder>/../archiwum after saving.
	ArchiveOriginal bool

	// FallbackEncoding is tried when the file is not valid UTF-8. Empty disables the fallback.
	FallbackEncoding string

	// OutputSuffix replaces the trailing .sql of saved files.
	OutputSuffix string
}

// Validate checks the profile for missing fields.
func (p Profile) Validate() error {
	if p.Model == "" {
		return fmt.Errorf("%w: profile %q has no model", ErrInvalidInput, p.Name)
	}
	if !p.Style.IsValid() {
		return fmt.Errorf("%w: profile %q has unknown comment style %q", ErrInvalidInput, p.Name, p.Style)
	}
	if p.OutputSuffix == "" || p.OutputSuffix == SQLExtension {
		return fmt.Errorf("%w: profile %q output suffix must differ from %s", ErrInvalidInput, p.Name, SQLExtension)
	}
	return nil
}

// Description returns a one-line summary of the profile.
func (p Profile) Description() string {
	layout := "next to original"
	if p.RelocateOutput {
		layout = "../" + DoneFolder
	}
	archive := "keep original"
	if p.ArchiveOriginal {
		archive = "archive to ../" + ArchiveFolder
	}
	return fmt.Sprintf("%s comments, %s, output %s, %s", p.Style, p.Model, layout, archive)
}

// builtinProfiles holds the shipped variants.
var builtinProfiles = map[string]Profile{
	ProfileInline: {
		Name:             ProfileInline,
		Model:            "llama3:instruct",
		Style:            CommentStyleInline,
		RelocateOutput:   true,
		ArchiveOriginal:  true,
		FallbackEncoding: EncodingWindows1250,
		OutputSuffix:     DefaultOutputSuffix,
	},
	ProfileHeader: {
		Name:         ProfileHeader,
		Model:        "mistral",
		Style:        CommentStyleHeader,
		OutputSuffix: DefaultOutputSuffix,
	},
	ProfileArchive: {
		Name:            ProfileArchive,
		Model:           "mistral",
		Style:           CommentStyleHeader,
		RelocateOutput:  true,
		ArchiveOriginal: true,
		OutputSuffix:    DefaultOutputSuffix,
	},
}

// LookupProfile returns the built-in profile with the given name.
func LookupProfile(name string) (Profile, error) {
	p, ok := builtinProfiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidInput, name)
	}
	return p, nil
}

// ProfileNames returns the built-in profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
