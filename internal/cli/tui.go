package cli

import (
	"github.com/spf13/cobra"

	"github.com/tessro/botshell/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal status panel",
	Long:  "Launch the interactive panel for starting, stopping and checking the backend server. Quitting the panel leaves the host and backend running.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ConnectClient()
		if err != nil {
			return err
		}
		defer client.Close()
		return tui.RunWithClient(client)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
