package driving

import "github.com/Sandiven/DataVerser/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the configured settings overlaid on the defaults.
	Get() (*domain.Settings, error)

	// Set parses and persists one setting.
	// Returns domain.ErrInvalidInput for unknown keys or unparsable values.
	Set(key, value string) error

	// Keys lists the supported setting keys in display order.
	Keys() []string

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.Settings
}
