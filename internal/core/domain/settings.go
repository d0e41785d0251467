package domain

import (
	"fmt"
	"runtime"
	"time"
)

// EngineSettings configures the headless CAD engine used for extraction.
type EngineSettings struct {
	// Path is the engine executable.
	Path string

	// Args are passed before the generated script path.
	Args []string
}

// ExtractSettings configures the Extractor Adapter.
type ExtractSettings struct {
	// Timeout bounds one extraction process.
	Timeout time.Duration

	// SuccessMarker is the advisory stdout token printed on success.
	SuccessMarker string
}

// GeneratorSettings configures the Generator Adapter.
type GeneratorSettings struct {
	// Command is the interpreter or executable to launch.
	Command string

	// Script is passed as the first argument, before the JSON and Markdown paths.
	// Empty means Command is invoked with the two paths only.
	Script string

	// Timeout bounds one generator process.
	Timeout time.Duration
}

// DiscoverySettings configures source-document discovery.
type DiscoverySettings struct {
	// Extension is the case-sensitive source file suffix.
	Extension string

	// ArchiveMarker prunes any directory whose path contains it.
	ArchiveMarker string

	// HiddenPrefix excludes resource-fork files.
	HiddenPrefix string
}

// BatchSettings configures the batch orchestrator.
type BatchSettings struct {
	// Workers is the number of files processed concurrently.
	Workers int

	// LaunchRate caps extractor launches per second. Zero is unlimited.
	LaunchRate float64
}

// HandbookSettings configures consolidation.
type HandbookSettings struct {
	Title    string
	Subtitle string

	// Output is the default handbook file name.
	Output string

	// Suffix identifies InstructionDocuments in the input directory.
	Suffix string

	// SequenceKeywords is the ordered keyword table for merge order.
	SequenceKeywords []string
}

// HistorySettings configures run history persistence.
type HistorySettings struct {
	Enabled bool
}

// Settings is the complete cadbook configuration.
// It is passed explicitly to services and adapters.
type Settings struct {
	Engine    EngineSettings
	Extract   ExtractSettings
	Generator GeneratorSettings
	Discovery DiscoverySettings
	Batch     BatchSettings
	Handbook  HandbookSettings
	History   HistorySettings
}

// DefaultEnginePath returns the platform's usual headless engine location.
func DefaultEnginePath() string {
	if runtime.GOOS == "darwin" {
		return "/Applications/FreeCAD.app/Contents/MacOS/FreeCAD"
	}
	return "freecadcmd"
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Engine: EngineSettings{
			Path: DefaultEnginePath(),
			Args: []string{"--console"},
		},
		Extract: ExtractSettings{
			Timeout:       120 * time.Second,
			SuccessMarker: "SUCCESS",
		},
		Generator: GeneratorSettings{
			Command: "python3",
			Script:  "weave_instructions.py",
			Timeout: 30 * time.Second,
		},
		Discovery: DiscoverySettings{
			Extension:     ".fcstd",
			ArchiveMarker: "ARCHIVE",
			HiddenPrefix:  "._",
		},
		Batch: BatchSettings{
			Workers: 1,
		},
		Handbook: HandbookSettings{
			Title:            "OSE Seed Home 7 - Complete Construction Handbook",
			Subtitle:         "Platinum Edition | Automated Documentation Suite",
			Output:           "OSE_Complete_Handbook.md",
			Suffix:           DefaultInstructionSuffix,
			SequenceKeywords: append([]string(nil), DefaultSequenceKeywords...),
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}

// Validate checks the settings for values the pipeline cannot run with.
func (s Settings) Validate() error {
	if s.Engine.Path == "" {
		return fmt.Errorf("%w: engine.path is empty", ErrInvalidInput)
	}
	if s.Generator.Command == "" {
		return fmt.Errorf("%w: generator.command is empty", ErrInvalidInput)
	}
	if s.Extract.Timeout <= 0 {
		return fmt.Errorf("%w: extract.timeout_seconds must be positive", ErrInvalidInput)
	}
	if s.Generator.Timeout <= 0 {
		return fmt.Errorf("%w: generator.timeout_seconds must be positive", ErrInvalidInput)
	}
	if s.Discovery.Extension == "" {
		return fmt.Errorf("%w: discovery.extension is empty", ErrInvalidInput)
	}
	if s.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalidInput)
	}
	if s.Batch.LaunchRate < 0 {
		return fmt.Errorf("%w: batch.launch_rate must not be negative", ErrInvalidInput)
	}
	if s.Handbook.Suffix == "" {
		return fmt.Errorf("%w: handbook.suffix is empty", ErrInvalidInput)
	}
	return nil
}
