package driven

// ScriptStore provides the scripts handed to external engines.
// Implementations may load user-edited copies from disk and fall back to
// the versions built into the binary.
type ScriptStore interface {
	// Load returns the script content for the given name.
	Load(name string) ([]byte, error)

	// Reload clears any cached scripts, forcing fresh loads on next access.
	Reload()
}

// Well-known script names.
const (
	// ScriptExtract is run by the CAD engine to write an ExtractionRecord.
	// It reads CAD_FILE and CAD_JSON_OUT from its environment.
	ScriptExtract = "extract_cad_data.py"
)

// ScriptStoreAware is an optional interface for adapters whose scripts can
// be customised by injecting a ScriptStore after construction.
type ScriptStoreAware interface {
	// SetScriptStore sets the store scripts are loaded from.
	// If not set, the adapter uses its built-in script.
	SetScriptStore(store ScriptStore)
}
