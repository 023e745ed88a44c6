package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

func newTestSettings(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)
	svc.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultOllamaBaseURL, settings.LLM.BaseURL)
	assert.Empty(t, settings.LLM.Model)
	assert.Equal(t, domain.ProfileInline, settings.Session.Profile)
	assert.Equal(t, domain.DefaultSessionFolder, settings.Session.Folder)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, store := newTestSettings(nil)
	_ = store.Set("llm.provider", "openai")
	_ = store.Set("llm.model", "gpt-4o")
	_ = store.Set("llm.api_key", "sk-test")
	_ = store.Set("session.profile", "header")
	_ = store.Set("session.folder", "queries")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Empty(t, settings.LLM.BaseURL)
	assert.Equal(t, "header", settings.Session.Profile)
	assert.Equal(t, "queries", settings.Session.Folder)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	svc, store := newTestSettings(nil)
	_ = store.Set("llm.provider", "bogus")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
}

func TestSettingsService_Effective_EnvOverrides(t *testing.T) {
	svc, store := newTestSettings(map[string]string{
		EnvLLMProvider: "anthropic",
		EnvLLMModel:    "claude-test",
		EnvLLMAPIKey:   "env-key",
	})
	_ = store.Set("llm.model", "stored-model")

	settings, err := svc.Effective()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-test", settings.LLM.Model)
	assert.Equal(t, "env-key", settings.LLM.APIKey)
	assert.Empty(t, settings.LLM.BaseURL)

	stored, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "stored-model", stored.LLM.Model)
}

func TestSettingsService_Effective_BaseURLOverride(t *testing.T) {
	svc, _ := newTestSettings(map[string]string{EnvLLMBaseURL: "http://gpu:11434"})

	settings, err := svc.Effective()

	require.NoError(t, err)
	assert.Equal(t, "http://gpu:11434", settings.LLM.BaseURL)
}

func TestSettingsService_Effective_InvalidProvider(t *testing.T) {
	svc, _ := newTestSettings(map[string]string{EnvLLMProvider: "bogus"})

	_, err := svc.Effective()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		baseURL     string
		apiKey      string
		wantModel   string
		wantBaseURL string
		wantErr     error
	}{
		{name: "ollama default", provider: domain.AIProviderOllama, wantBaseURL: domain.DefaultOllamaBaseURL},
		{name: "ollama custom", provider: domain.AIProviderOllama, model: "codellama", baseURL: "http://gpu:11434",
			wantModel: "codellama", wantBaseURL: "http://gpu:11434"},
		{name: "openai default model", provider: domain.AIProviderOpenAI, apiKey: "sk", wantModel: "gpt-4o-mini"},
		{name: "anthropic", provider: domain.AIProviderAnthropic, model: "claude-x", apiKey: "k", wantModel: "claude-x"},
		{name: "missing key", provider: domain.AIProviderOpenAI, wantErr: domain.ErrInvalidInput},
		{name: "invalid provider", provider: "bogus", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSettings(nil)

			err := svc.SetLLMProvider(tt.provider, tt.model, tt.baseURL, tt.apiKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			settings, err := svc.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantModel, settings.LLM.Model)
			assert.Equal(t, tt.wantBaseURL, settings.LLM.BaseURL)
			assert.Equal(t, tt.apiKey, settings.LLM.APIKey)
		})
	}
}

func TestSettingsService_SetSessionDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	require.NoError(t, svc.SetSessionDefaults(domain.ProfileHeader, "in"))
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileHeader, settings.Session.Profile)
	assert.Equal(t, "in", settings.Session.Folder)

	require.NoError(t, svc.SetSessionDefaults("", "other"))
	settings, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileHeader, settings.Session.Profile)
	assert.Equal(t, "other", settings.Session.Folder)

	assert.ErrorIs(t, svc.SetSessionDefaults("unknown", ""), domain.ErrInvalidInput)
}

func TestSettingsService_Save_PropagatesStoreError(t *testing.T) {
	svc, store := newTestSettings(nil)
	store.SetErr = errors.New("disk full")

	err := svc.SetSessionDefaults(domain.ProfileHeader, "")

	assert.ErrorContains(t, err, "disk full")
}

func TestSettingsService_ResolveProfile(t *testing.T) {
	t.Run("configured profile", func(t *testing.T) {
		svc, store := newTestSettings(nil)
		_ = store.Set("session.profile", "header")

		p, err := svc.ResolveProfile("")

		require.NoError(t, err)
		assert.Equal(t, domain.ProfileHeader, p.Name)
		assert.Equal(t, "mistral", p.Model)
	})

	t.Run("explicit name wins", func(t *testing.T) {
		svc, _ := newTestSettings(nil)

		p, err := svc.ResolveProfile(domain.ProfileArchive)

		require.NoError(t, err)
		assert.Equal(t, domain.ProfileArchive, p.Name)
	})

	t.Run("model override", func(t *testing.T) {
		svc, store := newTestSettings(nil)
		_ = store.Set("llm.model", "codellama")

		p, err := svc.ResolveProfile(domain.ProfileInline)

		require.NoError(t, err)
		assert.Equal(t, "codellama", p.Model)
	})

	t.Run("cloud provider default model", func(t *testing.T) {
		svc, _ := newTestSettings(map[string]string{EnvLLMProvider: "openai", EnvLLMAPIKey: "sk"})

		p, err := svc.ResolveProfile(domain.ProfileInline)

		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", p.Model)
	})

	t.Run("unknown profile", func(t *testing.T) {
		svc, _ := newTestSettings(nil)

		_, err := svc.ResolveProfile("nope")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_Validate(t *testing.T) {
	svc, _ := newTestSettings(nil)
	assert.NoError(t, svc.Validate())

	cloud, _ := newTestSettings(map[string]string{EnvLLMProvider: "anthropic"})
	assert.ErrorIs(t, cloud.Validate(), domain.ErrLLMUnavailable)
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	svc, _ := newTestSettings(nil)
	assert.NoError(t, svc.ValidateLLMConfig(), "nil validator is a no-op")

	validator := &mockAIValidator{err: domain.ErrLLMUnavailable}
	svc.aiValidator = validator

	err := svc.ValidateLLMConfig()

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	require.NotNil(t, validator.settings)
	assert.Equal(t, "llama3:instruct", validator.settings.Model)
	assert.Equal(t, domain.DefaultOllamaBaseURL, validator.settings.BaseURL)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)
	assert.Equal(t, domain.DefaultAppSettings(), svc.GetDefaults())
}
