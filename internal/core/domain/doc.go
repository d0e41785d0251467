// Package domain defines the core business entities for cadbook.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A CAD assembly file found by discovery
//   - ExtractionRecord: The structured part data extracted from one SourceDocument
//   - InstructionDocument: The generated Markdown instructions for one module
//   - BatchResult: The outcome of one batch run
//   - Handbook: The merged, ordered construction handbook
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
