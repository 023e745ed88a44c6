package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sessions",
	Long: `List recent sessions with the number of files saved, skipped and failed.

Use 'sqlcommenter history show <session-id>' for the per-file results.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the files of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of sessions to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.History == nil {
		return errors.New("session history not available")
	}

	sessions, err := deps.History.ListSessions(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions recorded yet.")
		return nil
	}

	for i := range sessions {
		s := &sessions[i]
		cmd.Printf("%s  %s  %-8s %s\n", s.ID, s.StartedAt.Local().Format(time.DateTime), s.Profile, s.Folder)
		cmd.Printf("    saved %d, skipped %d, failed %d\n",
			s.Count(domain.FileStateSaved), s.Count(domain.FileStateSkipped), s.Count(domain.FileStateFailed))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if deps == nil || deps.History == nil {
		return errors.New("session history not available")
	}

	s, err := deps.History.GetSession(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("session %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	cmd.Printf("Session: %s\n", s.ID)
	cmd.Printf("Folder:  %s\n", s.Folder)
	cmd.Printf("Profile: %s (%s)\n", s.Profile, s.Model)
	cmd.Printf("Started: %s\n", s.StartedAt.Local().Format(time.DateTime))
	if !s.FinishedAt.IsZero() {
		cmd.Printf("Took:    %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
	}
	cmd.Println()

	for _, r := range s.Results {
		cmd.Printf("  [%s] %s\n", r.State, r.Path)
		if r.OutputPath != "" {
			cmd.Printf("      output:  %s\n", r.OutputPath)
		}
		if r.ArchivePath != "" {
			cmd.Printf("      archive: %s\n", r.ArchivePath)
		}
		if r.Err != nil {
			cmd.Printf("      error:   %v\n", r.Err)
		}
	}
	return nil
}
