package cli

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [folder]",
	Short: "Comment the .sql files of a folder",
	Long: `Comment the .sql files of a folder, one at a time.

For each file the commented version is printed, then you are asked whether
to edit it and whether to save it. With no folder argument and no --folder
flag you are asked for one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			flagFolder = args[0]
		}
		return runSession(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
