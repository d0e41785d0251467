// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Discoverer: Finds CAD assemblies under a project tree
//   - ProcessRunner: Runs external tools with a hard timeout
//   - Extractor: Turns a CAD assembly into a JSON extraction record
//   - Generator: Turns an extraction record into Markdown instructions
//   - InstructionStore: Reads instruction files for consolidation
//   - HandbookWriter: Writes the consolidated handbook atomically
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Batch run history (SQLite). Without it, history is disabled.
//   - DirectoryWatcher: File change notifications. Without it, watch mode is unavailable.
//   - ScriptStore: User-editable engine scripts. Without it, built-in scripts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
