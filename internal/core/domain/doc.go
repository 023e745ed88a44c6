// Package domain defines the core entities for sqlcommenter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A SQL file read from the input folder
//   - AnnotatedDocument: The commented text produced by the model
//   - Profile: The per-run behaviour switches (model, output layout, archive)
//   - FileResult: The outcome of processing one file
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
