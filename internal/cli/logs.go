package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tessro/botshell/internal/daemon"
)

var logsLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent backend output",
	Long:  "Print the most recent lines the backend server wrote to stdout and stderr.",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsLines < 0 {
		return fmt.Errorf("--lines must not be negative")
	}

	client := MustConnect()
	defer client.Close()

	resp, err := client.Output(logsLines)
	if err != nil {
		return fmt.Errorf("get output: %w", err)
	}

	writeLines(cmd.OutOrStdout(), resp.Lines)
	return nil
}

// writeLines prints output lines as "15:04:05 [stream] text".
func writeLines(w io.Writer, lines []daemon.OutputLine) {
	for _, l := range lines {
		fmt.Fprintf(w, "%s [%s] %s\n", l.Time.Local().Format("15:04:05"), l.Stream, l.Text)
	}
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show (0 for all retained)")
	rootCmd.AddCommand(logsCmd)
}
