package domain

import (
	"path/filepath"
	"strings"
)

// SourceDocument is a CAD assembly file to be processed.
// It is discovered, never mutated.
type SourceDocument struct {
	// Path is the absolute location of the file.
	Path string

	// BaseName is the file name without directory or extension.
	// Sibling artifact names are derived from it.
	BaseName string
}

// NewSourceDocument builds a SourceDocument from a file path.
// Relative paths are made absolute against the working directory.
func NewSourceDocument(path string) SourceDocument {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := filepath.Base(abs)
	return SourceDocument{
		Path:     abs,
		BaseName: strings.TrimSuffix(name, filepath.Ext(name)),
	}
}

// Dir returns the directory holding the source file.
func (s SourceDocument) Dir() string {
	return filepath.Dir(s.Path)
}

// Filename returns the base file name including its extension.
func (s SourceDocument) Filename() string {
	return filepath.Base(s.Path)
}

// ArtifactPaths are the per-file outputs derived from a SourceDocument.
type ArtifactPaths struct {
	// JSON is the ExtractionRecord location (<base>.json).
	JSON string

	// Markdown is the InstructionDocument location (<base><suffix>).
	Markdown string
}

// Artifacts derives the JSON and Markdown paths for the source.
// When outputDir is empty the artifacts sit alongside the source file.
func (s SourceDocument) Artifacts(outputDir, instructionSuffix string) ArtifactPaths {
	dir := outputDir
	if dir == "" {
		dir = s.Dir()
	}
	if instructionSuffix == "" {
		instructionSuffix = DefaultInstructionSuffix
	}
	return ArtifactPaths{
		JSON:     filepath.Join(dir, s.BaseName+".json"),
		Markdown: filepath.Join(dir, s.BaseName+instructionSuffix),
	}
}
