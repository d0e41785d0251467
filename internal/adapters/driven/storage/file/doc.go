// Package file provides filesystem storage for instruction documents and
// the consolidated handbook.
//
// InstructionStore lists and reads per-assembly Markdown files, removing
// an optional leading YAML front matter block. HandbookWriter replaces the
// handbook through a temp file and rename so readers never see a partial
// write.
package file
