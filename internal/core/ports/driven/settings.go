package driven

import "github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"

// SettingsStore persists the application configuration.
type SettingsStore interface {
	// Load reads the stored settings, merged over defaults. A missing
	// settings file yields the defaults, not an error.
	Load() (domain.AppSettings, error)

	// Save writes the settings.
	Save(settings domain.AppSettings) error

	// Path returns the location of the settings file.
	Path() string
}
