package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/botshell/internal/paths"
)

// baseDir is the global --dir flag value.
var baseDir string

// configPath is the global --config flag value.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "botshell",
	Short: "Desktop shell backend supervisor",
	Long:  "botshell hosts a single backend server process and lets you start, stop and check it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Export --dir so every path helper, and any host we spawn, sees it.
		if baseDir != "" {
			if err := os.Setenv(paths.EnvDir, baseDir); err != nil {
				return err
			}
		}
		return nil
	},
	SilenceUsage: true,
}

// BaseDir returns the value of the --dir flag.
func BaseDir() string {
	return baseDir
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "base directory for botshell data (overrides ~/.botshell)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.toml, .yaml or .yml; default ~/.config/botshell/config.toml)")
}

func Execute() error {
	return rootCmd.Execute()
}
