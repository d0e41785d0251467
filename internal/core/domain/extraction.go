package domain

// ExtractedProperties is the allow-list of CAD object properties captured
// by the extractor. Properties absent on an object are skipped.
var ExtractedProperties = []string{
	"Material",
	"Description",
	"PartNumber",
	"Standard",
	"Label",
	"Placement",
}

// ExtractionRecord is the structured description of one SourceDocument.
// It is written once by the extractor and read once by the generator.
type ExtractionRecord struct {
	// Filename is the source file name the record was extracted from.
	Filename string `json:"filename"`

	// Parts lists one entry per CAD object instance, in document order.
	Parts []PartRecord `json:"parts"`
}

// PartRecord describes one CAD object.
type PartRecord struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	TypeID     string            `json:"type_id"`
	Properties map[string]string `json:"properties"`
}
