package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Show where prompt templates are stored",
	Long: `Print the prompt template directory and the file of each prompt.

Edit these files to change what the model is asked to do. Each template
contains one %s placeholder where the SQL text is inserted.`,
	RunE: runPrompts,
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Prompts == nil {
		return errors.New("prompt store not configured")
	}

	// Loading once creates the directory and the default files.
	for _, name := range driven.PromptNames() {
		if _, err := deps.Prompts.Load(name); err != nil {
			return err
		}
	}

	cmd.Printf("Prompt directory: %s\n\n", deps.Prompts.Dir())
	for _, name := range driven.PromptNames() {
		cmd.Printf("  %-16s %s\n", name, deps.Prompts.Path(name))
	}
	return nil
}
