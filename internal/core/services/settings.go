package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keySessionProfile = "session.profile"
	keySessionFolder  = "session.folder"
)

// Environment variables overriding stored LLM settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvLLMProvider = "SQLCOMMENTER_LLM_PROVIDER"
	EnvLLMModel    = "SQLCOMMENTER_LLM_MODEL"
	EnvLLMBaseURL  = "SQLCOMMENTER_LLM_BASE_URL"
	EnvLLMAPIKey   = "SQLCOMMENTER_LLM_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves the stored application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.configStore.GetString(keyLLMModel), // No default - the profile supplies one
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Session: domain.SessionSettings{
			Profile: s.getString(keySessionProfile, defaults.Session.Profile),
			Folder:  s.getString(keySessionFolder, defaults.Session.Folder),
		},
	}

	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = defaults.LLM.BaseURL
	}

	return settings, nil
}

// Effective returns the stored settings with environment overrides applied.
func (s *SettingsService) Effective() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if v, ok := s.env(EnvLLMProvider); ok {
		provider := domain.AIProvider(v)
		if !provider.IsValid() {
			return nil, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvLLMProvider, v)
		}
		if provider != settings.LLM.Provider && !provider.IsLocal() {
			settings.LLM.BaseURL = ""
		}
		settings.LLM.Provider = provider
	}
	if v, ok := s.env(EnvLLMModel); ok {
		settings.LLM.Model = v
	}
	if v, ok := s.env(EnvLLMBaseURL); ok {
		settings.LLM.BaseURL = v
	}
	if v, ok := s.env(EnvLLMAPIKey); ok {
		settings.LLM.APIKey = v
	}

	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaBaseURL
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save session settings
	if err := s.configStore.Set(keySessionProfile, settings.Session.Profile); err != nil {
		return fmt.Errorf("save session profile: %w", err)
	}
	if err := s.configStore.Set(keySessionFolder, settings.Session.Folder); err != nil {
		return fmt.Errorf("save session folder: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
// An empty model keeps the profile's model for Ollama and picks the provider default otherwise.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Local providers need a base URL, cloud providers use their own unless overridden
	switch {
	case baseURL != "":
		settings.LLM.BaseURL = baseURL
	case provider.IsLocal():
		settings.LLM.BaseURL = domain.DefaultOllamaBaseURL
	default:
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSessionDefaults configures the default profile and folder.
// Empty arguments leave the stored value unchanged.
func (s *SettingsService) SetSessionDefaults(profile, folder string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if profile != "" {
		if _, err := domain.LookupProfile(profile); err != nil {
			return err
		}
		settings.Session.Profile = profile
	}
	if folder != "" {
		settings.Session.Folder = folder
	}

	return s.Save(settings)
}

// ResolveProfile returns the named profile, or the configured one when name is empty,
// with the effective model override applied.
func (s *SettingsService) ResolveProfile(name string) (domain.Profile, error) {
	settings, err := s.Effective()
	if err != nil {
		return domain.Profile{}, err
	}

	if name == "" {
		name = settings.Session.Profile
	}

	profile, err := domain.LookupProfile(name)
	if err != nil {
		return domain.Profile{}, err
	}

	switch {
	case settings.LLM.Model != "":
		profile.Model = settings.LLM.Model
	case !settings.LLM.Provider.IsLocal():
		if model, ok := domain.DefaultLLMModels()[settings.LLM.Provider]; ok {
			profile.Model = model
		}
	}

	if err := profile.Validate(); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// Validate checks that the current settings can drive a session.
func (s *SettingsService) Validate() error {
	settings, err := s.Effective()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}

	if _, err := s.ResolveProfile(""); err != nil {
		return err
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Effective()
	if err != nil {
		return err
	}
	if profile, err := s.ResolveProfile(""); err == nil {
		settings.LLM.Model = profile.Model
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) env(key string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
