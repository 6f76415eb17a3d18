package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkQuiet bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the backend server is running",
	Long: "Probe the backend without blocking. A backend that has exited on its own " +
		"is reaped and reported as not running. With --quiet, nothing is printed and " +
		"the exit status is 0 when running, 1 otherwise.",
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	client := MustConnect()
	defer client.Close()

	running, err := client.Check()
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if checkQuiet {
		if !running {
			client.Close()
			os.Exit(1)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), checkMessage(running))
	return nil
}

func checkMessage(running bool) string {
	if running {
		return "Backend server running"
	}
	return "Backend server not running"
}

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "report via exit status only")
	rootCmd.AddCommand(checkCmd)
}
