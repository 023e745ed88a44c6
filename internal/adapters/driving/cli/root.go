// Package cli provides the cobra commands of sqlcommenter.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/ai"
	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/codec"
	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/opener"
	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/terminal"
	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driving"
	"github.com/custodia-labs/sqlcommenter/internal/core/services"
	"github.com/custodia-labs/sqlcommenter/internal/logger"
)

// version is set at build time by main.
var version = "dev"

// Flag values shared by every command.
var (
	flagFolder    string
	flagProfile   string
	flagModel     string
	flagProvider  string
	flagConfigDir string
	flagVerbose   bool
)

// Dependencies holds the collaborators commands run against.
// It is built from the flags before the first command runs unless set already.
type Dependencies struct {
	Settings driving.SettingsService
	Prompts  *file.PromptStore
	History  driven.SessionStore
	Console  driven.Console
	Opener   driven.Opener
	Decoder  driven.TextDecoder
	NewLLM   func(settings *domain.LLMSettings) (driven.LLMService, error)
	TempDir  string

	// closer releases resources opened by newDependencies.
	closer func() error
}

var deps *Dependencies

var rootCmd = &cobra.Command{
	Use:   "sqlcommenter",
	Short: "Add LLM-written comments to SQL files",
	Long: `sqlcommenter walks a folder of .sql files, asks a language model to add
comments to each one, shows the result and lets you edit it in your default
editor before saving it as <name>-v2.sql.

Profiles select the model, the comment style and the output layout:
  inline  - English inline comments, output to ../done, original to ../archiwum
  header  - Polish header comments, output next to the original
  archive - Polish header comments, output to ../done, original to ../archiwum`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runSession,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagFolder, "folder", "", "folder with .sql files (skips the folder prompt)")
	flags.StringVar(&flagProfile, "profile", "", "processing profile: inline, header or archive")
	flags.StringVar(&flagModel, "model", "", "model identifier, overrides the profile's model")
	flags.StringVar(&flagProvider, "provider", "", "LLM provider: ollama, openai or anthropic")
	flags.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.sqlcommenter)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "print debug information to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetDependencies replaces the collaborators built from flags.
func SetDependencies(d *Dependencies) {
	deps = d
}

// Execute runs the root command. The first interrupt cancels the running
// session; a second one gets the default handling and ends the process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if deps != nil {
		return nil
	}

	d, err := newDependencies(cmd)
	if err != nil {
		return err
	}
	deps = d
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if deps == nil || deps.closer == nil {
		return nil
	}
	err := deps.closer()
	deps.closer = nil
	return err
}

func newDependencies(cmd *cobra.Command) (*Dependencies, error) {
	configDir := flagConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("Config file: %s", configStore.Path())

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"), services.DefaultPrompts())
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Debug("stdin is not a terminal, answers are read line by line")
	}

	d := &Dependencies{
		Settings: services.NewSettingsService(configStore, ai.NewConfigValidator()),
		Prompts:  prompts,
		Console:  terminal.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
		Opener:   opener.New(),
		Decoder:  codec.NewDecoder(),
		NewLLM:   ai.CreateLLMService,
	}

	// History is optional; a locked or unreadable database never blocks a session.
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		logger.Warn("Session history disabled: %v", err)
	} else {
		logger.Debug("History database: %s", store.Path())
		d.History = store.SessionStore()
		d.closer = store.Close
	}

	return d, nil
}

// runSession comments every file of the chosen folder.
// A missing folder or an empty one ends the program without an error.
func runSession(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Settings == nil {
		return errors.New("settings service not configured")
	}

	settings, err := deps.Settings.Effective()
	if err != nil {
		return err
	}

	profile, err := deps.Settings.ResolveProfile(flagProfile)
	if err != nil {
		return err
	}
	if flagModel != "" {
		profile.Model = flagModel
	}

	llmSettings := settings.LLM
	if flagProvider != "" {
		provider := domain.AIProvider(flagProvider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, flagProvider)
		}
		if provider != llmSettings.Provider {
			llmSettings.BaseURL = ""
			if provider.IsLocal() {
				llmSettings.BaseURL = domain.DefaultOllamaBaseURL
			}
		}
		llmSettings.Provider = provider
	}
	llmSettings.Model = profile.Model

	llm, err := deps.NewLLM(&llmSettings)
	if err != nil {
		return fmt.Errorf("%w. Run 'sqlcommenter settings llm' to fix", err)
	}
	defer llm.Close()

	logger.Info("Profile %s: %s via %s", profile.Name, profile.Model, llmSettings.Provider)

	var prompts driven.PromptStore
	if deps.Prompts != nil {
		prompts = deps.Prompts
	}

	commenter := services.NewCommentingService(llm, prompts, profile.Style)
	editor := services.NewEditorService(deps.Opener, deps.Console, deps.TempDir)
	processor := services.NewProcessorService(commenter, editor, deps.Decoder, deps.Console, profile)
	session := services.NewSessionService(processor, deps.Console, profile.Name, settings.Session.Folder).
		WithModel(profile.Model)
	if deps.History != nil {
		session.WithHistory(deps.History)
	}

	_, err = session.Run(cmd.Context(), flagFolder)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrFolderNotFound), errors.Is(err, domain.ErrNoFiles):
		return nil
	case errors.Is(err, context.Canceled):
		deps.Console.Warn("Interrupted.")
		return nil
	default:
		return err
	}
}
