package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the backend server",
	Long:  "Ask the host to stop the backend server. The host itself keeps running.",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	client := MustConnect()
	defer client.Close()

	res, err := client.Stop()
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
