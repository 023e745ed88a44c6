package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider and session defaults.

Settings are stored in ~/.sqlcommenter/config.toml. The environment variables
SQLCOMMENTER_LLM_PROVIDER, SQLCOMMENTER_LLM_MODEL, SQLCOMMENTER_LLM_BASE_URL
and SQLCOMMENTER_LLM_API_KEY override the stored LLM settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to comment SQL files.`,
	RunE:  runSettingsLLM,
}

var settingsSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Configure session defaults",
	Long:  `Choose the default profile and the folder offered at the folder prompt.`,
	RunE:  runSettingsSession,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the LLM provider is reachable",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsSessionCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Settings == nil {
		return errNoSettings
	}

	settings, err := deps.Settings.Effective()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	model := settings.LLM.Model
	if model == "" {
		model = "(from profile)"
	}
	cmd.Printf("  Model: %s\n", model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Session settings
	cmd.Println("[Session]")
	cmd.Printf("  Profile: %s\n", settings.Session.Profile)
	if profile, err := deps.Settings.ResolveProfile(""); err == nil {
		cmd.Printf("           %s\n", profile.Description())
	}
	cmd.Printf("  Folder: %s\n", settings.Session.Folder)
	cmd.Println()

	// Validation
	if err := deps.Settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sqlcommenter settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Settings == nil {
		return errNoSettings
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	if defaultModel == "" {
		cmd.Print("Enter model name [profile default]: ")
	} else {
		cmd.Printf("Enter model name [%s]: ", defaultModel)
	}
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get base URL for local providers
	var baseURL string
	if selectedProvider.IsLocal() {
		cmd.Printf("Enter base URL [%s]: ", domain.DefaultOllamaBaseURL)
		baseURL = readLine(reader)
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := deps.Settings.SetLLMProvider(selectedProvider, model, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := deps.Settings.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	if model == "" {
		model = "profile default"
	}
	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsSession(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Settings == nil {
		return errNoSettings
	}

	settings, err := deps.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Profile")
	names := domain.ProfileNames()
	current := 1
	for i, name := range names {
		profile, _ := domain.LookupProfile(name)
		cmd.Printf("  %d. %-8s %s\n", i+1, name, profile.Description())
		if name == settings.Session.Profile {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	idx := parseChoice(readLine(reader), len(names), current)
	profile := names[idx-1]

	cmd.Printf("Default folder [%s]: ", settings.Session.Folder)
	folder := readLine(reader)

	if err := deps.Settings.SetSessionDefaults(profile, folder); err != nil {
		return fmt.Errorf("failed to save session defaults: %w", err)
	}

	cmd.Printf("Session defaults saved: profile %s\n", profile)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Settings == nil {
		return errNoSettings
	}

	cmd.Print("Checking LLM provider... ")
	if err := deps.Settings.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is an interactive terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
