package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tessro/botshell/internal/config"
	"github.com/tessro/botshell/internal/daemon"
	"github.com/tessro/botshell/internal/logging"
	"github.com/tessro/botshell/internal/paths"
	"github.com/tessro/botshell/internal/shell"
	"github.com/tessro/botshell/internal/supervisor"
	"github.com/tessro/botshell/internal/version"
)

// reapInterval is how often the host checks the backend so an exited
// child is reaped without waiting for a client to ask.
const reapInterval = 5 * time.Second

var runForeground bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the botshell host in this process",
	Long: "Run the host: supervise the backend server and serve start, stop and check " +
		"requests until interrupted or asked to shut down. Development builds start " +
		"the backend as soon as the host is ready.",
	Args: cobra.NoArgs,
	RunE: runHost,
}

// loadConfig reads the --config file or the default config, validating it.
func loadConfig() (*config.GlobalConfig, error) {
	var (
		cfg *config.GlobalConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadGlobalConfigFromPath(configPath)
	} else {
		cfg, err = config.LoadGlobalConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg == nil {
		cfg = &config.GlobalConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newHost wires the supervisor and shell from cfg and the build mode.
func newHost(cfg *config.GlobalConfig, exePath string) (*supervisor.Supervisor, *shell.Shell, error) {
	mode, err := supervisor.ParseMode(version.BuildMode)
	if err != nil {
		return nil, nil, err
	}

	command, err := cfg.Invocation().Command(mode, exePath)
	if err != nil {
		return nil, nil, err
	}

	stopSignal, err := config.ParseSignal(cfg.GetStopSignal())
	if err != nil {
		return nil, nil, err
	}

	sup := supervisor.New(supervisor.Config{
		Command:    command,
		StopSignal: stopSignal,
		Logger:     slog.Default(),
	})
	sh := shell.New(shell.Config{
		Backend:    sup,
		Mode:       mode,
		StopOnExit: cfg.GetStopOnExit(),
		Logger:     slog.Default(),
	})
	return sup, sh, nil
}

func runHost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var extra io.Writer
	if runForeground {
		extra = os.Stderr
	}
	cleanup, err := logging.Setup(logging.DefaultLogPath(), extra, logging.ParseLevel(cfg.GetLogLevel()))
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()

	lock, err := shell.AcquireLock(paths.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release(slog.Default())

	pidPath := daemon.DefaultPIDPath()
	if err := daemon.WritePID(pidPath); err != nil {
		return err
	}
	defer func() { _ = daemon.RemovePID(pidPath) }()

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	sup, sh, err := newHost(cfg, exePath)
	if err != nil {
		return err
	}

	srv := daemon.NewServer(getSocketPath(), sh)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() { _ = srv.Stop() }()

	slog.Info("host started",
		"pid", os.Getpid(),
		"version", version.Version,
		"mode", sh.Mode(),
		"backend", sup.Command().String(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer logging.LogPanic("host-ready", nil)
		sh.HandleReady(gctx)
		return nil
	})

	g.Go(func() error {
		defer logging.LogPanic("host-reaper", nil)
		return reapLoop(gctx, sup)
	})

	g.Go(func() error {
		select {
		case <-sh.Done():
			slog.Info("shutdown requested")
		case <-gctx.Done():
			slog.Info("host interrupted")
		}
		stop()
		return nil
	})

	err = g.Wait()
	sh.HandleExit()
	slog.Info("host exiting")
	return err
}

// reapLoop periodically checks the backend until ctx is done.
func reapLoop(ctx context.Context, sup *supervisor.Supervisor) error {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := sup.Check(); err != nil {
				slog.Warn("backend check failed", "error", err)
			}
		}
	}
}

func init() {
	runCmd.Flags().BoolVarP(&runForeground, "foreground", "f", false, "also write logs to stderr")
	rootCmd.AddCommand(runCmd)
}
