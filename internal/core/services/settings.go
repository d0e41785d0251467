package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyEnginePath         = "engine.path"
	keyEngineArgs         = "engine.args"
	keyExtractTimeout     = "extract.timeout_seconds"
	keyExtractMarker      = "extract.success_marker"
	keyGeneratorCommand   = "generator.command"
	keyGeneratorScript    = "generator.script"
	keyGeneratorTimeout   = "generator.timeout_seconds"
	keyDiscoveryExtension = "discovery.extension"
	keyDiscoveryArchive   = "discovery.archive_marker"
	keyDiscoveryHidden    = "discovery.hidden_prefix"
	keyBatchWorkers       = "batch.workers"
	keyBatchLaunchRate    = "batch.launch_rate"
	keyHandbookTitle      = "handbook.title"
	keyHandbookSubtitle   = "handbook.subtitle"
	keyHandbookOutput     = "handbook.output"
	keyHandbookSuffix     = "handbook.suffix"
	keySequenceKeywords   = "sequence.keywords"
	keyHistoryEnabled     = "history.enabled"
)

type settingKind int

const (
	kindString settingKind = iota
	kindStrings
	kindSeconds
	kindInt
	kindFloat
	kindBool
)

// settingKeys lists every supported key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyEnginePath, kindString},
	{keyEngineArgs, kindStrings},
	{keyExtractTimeout, kindSeconds},
	{keyExtractMarker, kindString},
	{keyGeneratorCommand, kindString},
	{keyGeneratorScript, kindString},
	{keyGeneratorTimeout, kindSeconds},
	{keyDiscoveryExtension, kindString},
	{keyDiscoveryArchive, kindString},
	{keyDiscoveryHidden, kindString},
	{keyBatchWorkers, kindInt},
	{keyBatchLaunchRate, kindFloat},
	{keyHandbookTitle, kindString},
	{keyHandbookSubtitle, kindString},
	{keyHandbookOutput, kindString},
	{keyHandbookSuffix, kindString},
	{keySequenceKeywords, kindStrings},
	{keyHistoryEnabled, kindBool},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Keys that are not configured take their
// default value.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Engine: domain.EngineSettings{
			Path: s.getString(keyEnginePath, d.Engine.Path),
			Args: s.getStrings(keyEngineArgs, d.Engine.Args),
		},
		Extract: domain.ExtractSettings{
			Timeout:       s.getSeconds(keyExtractTimeout, d.Extract.Timeout),
			SuccessMarker: s.getString(keyExtractMarker, d.Extract.SuccessMarker),
		},
		Generator: domain.GeneratorSettings{
			Command: s.getString(keyGeneratorCommand, d.Generator.Command),
			Script:  s.getString(keyGeneratorScript, d.Generator.Script),
			Timeout: s.getSeconds(keyGeneratorTimeout, d.Generator.Timeout),
		},
		Discovery: domain.DiscoverySettings{
			Extension:     s.getString(keyDiscoveryExtension, d.Discovery.Extension),
			ArchiveMarker: s.getString(keyDiscoveryArchive, d.Discovery.ArchiveMarker),
			HiddenPrefix:  s.getString(keyDiscoveryHidden, d.Discovery.HiddenPrefix),
		},
		Batch: domain.BatchSettings{
			Workers:    s.getInt(keyBatchWorkers, d.Batch.Workers),
			LaunchRate: s.getFloat(keyBatchLaunchRate, d.Batch.LaunchRate),
		},
		Handbook: domain.HandbookSettings{
			Title:            s.getString(keyHandbookTitle, d.Handbook.Title),
			Subtitle:         s.getString(keyHandbookSubtitle, d.Handbook.Subtitle),
			Output:           s.getString(keyHandbookOutput, d.Handbook.Output),
			Suffix:           s.getString(keyHandbookSuffix, d.Handbook.Suffix),
			SequenceKeywords: s.getStrings(keySequenceKeywords, d.Handbook.SequenceKeywords),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, d.History.Enabled),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses value according to the key's type and persists it.
// Lists are comma separated. The previous value is restored when the
// result would not validate.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	if _, err := s.Get(); err != nil {
		if existed {
			_ = s.configStore.Set(key, previous)
		} else {
			_ = s.configStore.Delete(key)
		}
		return err
	}
	return nil
}

// Reset removes a configured key so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := kindOf(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported setting key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Value returns the effective value of one key formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	return FormatSetting(settings, key)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns the backing configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// FormatSetting renders one key of settings for display.
func FormatSetting(settings *domain.Settings, key string) (string, error) {
	switch key {
	case keyEnginePath:
		return settings.Engine.Path, nil
	case keyEngineArgs:
		return strings.Join(settings.Engine.Args, ","), nil
	case keyExtractTimeout:
		return formatSeconds(settings.Extract.Timeout), nil
	case keyExtractMarker:
		return settings.Extract.SuccessMarker, nil
	case keyGeneratorCommand:
		return settings.Generator.Command, nil
	case keyGeneratorScript:
		return settings.Generator.Script, nil
	case keyGeneratorTimeout:
		return formatSeconds(settings.Generator.Timeout), nil
	case keyDiscoveryExtension:
		return settings.Discovery.Extension, nil
	case keyDiscoveryArchive:
		return settings.Discovery.ArchiveMarker, nil
	case keyDiscoveryHidden:
		return settings.Discovery.HiddenPrefix, nil
	case keyBatchWorkers:
		return strconv.Itoa(settings.Batch.Workers), nil
	case keyBatchLaunchRate:
		return strconv.FormatFloat(settings.Batch.LaunchRate, 'g', -1, 64), nil
	case keyHandbookTitle:
		return settings.Handbook.Title, nil
	case keyHandbookSubtitle:
		return settings.Handbook.Subtitle, nil
	case keyHandbookOutput:
		return settings.Handbook.Output, nil
	case keyHandbookSuffix:
		return settings.Handbook.Suffix, nil
	case keySequenceKeywords:
		return strings.Join(settings.Handbook.SequenceKeywords, ","), nil
	case keyHistoryEnabled:
		return strconv.FormatBool(settings.History.Enabled), nil
	}
	return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func kindOf(key string) (settingKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindStrings:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items, nil
	case kindSeconds, kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("want an integer, got %q", value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("want a number, got %q", value)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("want true or false, got %q", value)
		}
		return b, nil
	}
	return value, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d / time.Second))
}

// Helper methods for reading config with defaults. A key that is present
// wins even when its value is empty, so markers can be switched off.

func (s *SettingsService) getString(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return append([]string(nil), defaultVal...)
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
