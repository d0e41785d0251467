package driving

import "github.com/vibecraft/cadbook/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults for any
	// key that is not configured.
	Get() (*domain.Settings, error)

	// Set validates and persists a single setting by its dotted key.
	Set(key, value string) error

	// Reset removes a configured key so its default applies again.
	Reset(key string) error

	// Keys returns every supported setting key in display order.
	Keys() []string

	// Value returns the effective value of one key formatted for display.
	Value(key string) (string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Path returns the backing configuration file path.
	Path() string
}
