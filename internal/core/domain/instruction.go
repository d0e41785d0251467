package domain

import "strings"

// DefaultInstructionSuffix is appended to a source base name to form the
// InstructionDocument file name.
const DefaultInstructionSuffix = "_Instructions.md"

// anchorSeparator replaces spaces when an anchor is derived from a title.
const anchorSeparator = "-"

// InstructionDocument is the generated Markdown for one module.
// It is read-only input to the consolidator.
type InstructionDocument struct {
	// Path is the file location.
	Path string

	// Name is the file name, used for ordering.
	Name string

	// Title is the human title shown in the handbook.
	Title string

	// Anchor is the in-document link target for the section.
	Anchor string
}

// TitleFromFilename derives a human title from an instruction file name
// by stripping the suffix and turning underscores into spaces.
func TitleFromFilename(name, suffix string) string {
	if suffix == "" {
		suffix = DefaultInstructionSuffix
	}
	return strings.ReplaceAll(strings.TrimSuffix(name, suffix), "_", " ")
}

// AnchorFromTitle lower-cases a title and replaces spaces with hyphens.
func AnchorFromTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", anchorSeparator)
}
