package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tessro/botshell/internal/daemon"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show host and backend status",
	Long:  "Display the botshell host and the supervised backend server. Does not poll the backend; use check for that.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	switch statusOutput {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", statusOutput)
	}

	client, err := ConnectClient()
	if err != nil {
		if errors.Is(err, ErrHostNotRunning) {
			fmt.Fprintln(cmd.OutOrStdout(), "botshell host is not running")
			return nil
		}
		return err
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}

	return writeStatus(cmd.OutOrStdout(), status, statusOutput, time.Now())
}

// writeStatus renders status in format ("text", "json" or "yaml").
func writeStatus(w io.Writer, status *daemon.StatusResponse, format string, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(status); err != nil {
			return err
		}
		return enc.Close()
	}

	uptime := now.Sub(status.Host.StartedAt).Truncate(time.Second)
	fmt.Fprintf(w, "botshell host running (pid %d, uptime %s, %s build)\n",
		status.Host.PID, uptime, status.Host.Mode)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	b := status.Backend
	_, _ = fmt.Fprintf(tw, "BACKEND\t%s\n", b.State)
	if b.PID != 0 {
		_, _ = fmt.Fprintf(tw, "PID\t%d\n", b.PID)
	}
	if !b.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(tw, "UPTIME\t%s\n", now.Sub(b.StartedAt).Truncate(time.Second))
	}
	_, _ = fmt.Fprintf(tw, "COMMAND\t%s\n", b.Command)
	if b.LastExit != nil {
		_, _ = fmt.Fprintf(tw, "LAST EXIT\tpid %d, code %d (%s ago)\n",
			b.LastExit.PID, b.LastExit.Code, now.Sub(b.LastExit.ReapedAt).Truncate(time.Second))
	}
	return tw.Flush()
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}
