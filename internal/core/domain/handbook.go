package domain

import "time"

// Handbook is the merged construction manual.
// It is regenerated wholesale on every consolidation run.
type Handbook struct {
	// Title is the top-level heading.
	Title string

	// Subtitle is shown under the title. Optional.
	Subtitle string

	// Date is printed in the title block.
	Date time.Time

	// Sections are the instruction documents in merge order.
	Sections []HandbookSection
}

// HandbookSection is one InstructionDocument inside the handbook.
type HandbookSection struct {
	// Title is the second-level heading text.
	Title string

	// Anchor is the link target used by the table of contents.
	Anchor string

	// Source is the InstructionDocument file the section came from.
	Source string

	// Body is the document text with its own title line removed.
	Body string

	// TitleOnly is set when the document was a lone title line with no
	// trailing newline. Such a section renders no body line at all.
	TitleOnly bool
}
