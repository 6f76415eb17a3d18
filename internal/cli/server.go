package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/tessro/botshell/internal/daemon"
)

const (
	// hostPollInterval is how often server start/stop probe the host.
	hostPollInterval = 100 * time.Millisecond

	// hostStartTimeout bounds how long server start waits for a ping.
	hostStartTimeout = 10 * time.Second

	// hostStopTimeout bounds how long server stop waits for the host to exit.
	hostStopTimeout = 10 * time.Second
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the botshell host",
	Long:  "Commands for managing the botshell host process lifecycle.",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the botshell host in the background",
	Long:  "Spawn a detached botshell host and wait until it answers ping.",
	Args:  cobra.NoArgs,
	RunE:  runServerStart,
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the botshell host",
	Long:  "Ask the running host to shut down. The backend is stopped too unless shell.stop_on_exit is false.",
	Args:  cobra.NoArgs,
	RunE:  runServerStop,
}

func runServerStart(cmd *cobra.Command, args []string) error {
	if IsHostRunning() {
		fmt.Println("botshell host is already running")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	hostArgs := []string{"run"}
	if configPath != "" {
		hostArgs = append(hostArgs, "--config", configPath)
	}

	host := exec.Command(exe, hostArgs...)
	host.Env = os.Environ()
	host.Stdin = nil
	host.Stdout = nil
	host.Stderr = nil
	detach(host)

	if err := host.Start(); err != nil {
		return fmt.Errorf("spawn host: %w", err)
	}
	pid := host.Process.Pid
	// The host outlives us; drop our handle without waiting.
	_ = host.Process.Release()

	if err := waitForHost(cmd.Context(), hostStartTimeout); err != nil {
		return fmt.Errorf("host (pid %d) did not become ready: %w", pid, err)
	}

	fmt.Printf("botshell host started (pid %d)\n", pid)
	return nil
}

// waitForHost polls until the host answers ping or timeout elapses.
func waitForHost(ctx context.Context, timeout time.Duration) error {
	return wait.PollUntilContextTimeout(ctx, hostPollInterval, timeout, true,
		func(context.Context) (bool, error) {
			client, err := ConnectClient()
			if err != nil {
				return false, nil
			}
			defer client.Close()
			_, err = client.Ping()
			return err == nil, nil
		})
}

func runServerStop(cmd *cobra.Command, args []string) error {
	client := MustConnect()
	defer client.Close()

	if err := client.Shutdown(); err != nil {
		return fmt.Errorf("shutdown host: %w", err)
	}

	pidPath := daemon.DefaultPIDPath()
	err := wait.PollUntilContextTimeout(cmd.Context(), hostPollInterval, hostStopTimeout, true,
		func(context.Context) (bool, error) {
			running, _ := daemon.IsHostRunning(pidPath)
			return !running, nil
		})
	if err != nil {
		return fmt.Errorf("host did not exit: %w", err)
	}

	fmt.Println("botshell host stopped")
	return nil
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	rootCmd.AddCommand(serverCmd)
}
