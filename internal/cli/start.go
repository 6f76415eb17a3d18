package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the backend server",
	Long:  "Ask the host to start the backend server. Does nothing if it is already running.",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	client := MustConnect()
	defer client.Close()

	res, err := client.Start()
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func init() {
	rootCmd.AddCommand(startCmd)
}
