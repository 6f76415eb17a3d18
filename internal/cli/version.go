package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/botshell/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version, commit, build date and build mode of botshell.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "botshell %s (commit: %s, built: %s, mode: %s)\n",
			version.Version, version.Commit, version.Date, version.BuildMode)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
