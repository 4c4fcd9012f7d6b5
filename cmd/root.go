// Package cmd implements the commitmirror CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/commitmirror/commitmirror/config"
	"github.com/commitmirror/commitmirror/guard"
	"github.com/commitmirror/commitmirror/logging"
	"github.com/commitmirror/commitmirror/runner"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	verbose       bool
	themeOverride string
)

// Swapped out by tests.
var (
	newRunner = func() runner.Runner { return runner.NewShRunner() }
	env       = guard.EnvGetter(guard.OSEnv{})
)

var rootCmd = &cobra.Command{
	Use:   "commitmirror",
	Short: "Mirror commit history and lint the repository",
	Long: "commitmirror replays commits from source repositories as empty commits in a mirror repository, " +
		"and runs the repository's linters and formatters.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := ""
		if verbose {
			level = "debug"
		}
		logging.Configure(logging.Config{Level: level, Output: cmd.ErrOrStderr()})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "color theme: dark, light, or auto")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(syncCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("commitmirror %s (commit: %s)\n", version, commit))
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	return reportError(rootCmd.ErrOrStderr(), err)
}

// loadConfig reads --config, or the default path when it exists. A
// subcommand that cannot work without a file passes required.
func loadConfig(required bool) (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile, true)
	}
	return config.Load(config.DefaultPath, required)
}
