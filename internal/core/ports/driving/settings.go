package driving

import "github.com/custodia-labs/sqlcommenter/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Effective returns the stored settings with environment overrides applied.
	Effective() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error

	// SetSessionDefaults configures the default profile and folder.
	SetSessionDefaults(profile, folder string) error

	// ResolveProfile returns the active profile with the model override applied.
	ResolveProfile(name string) (domain.Profile, error)

	// Validate checks that the current settings can drive a session.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
