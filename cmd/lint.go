package cmd

import (
	"github.com/commitmirror/commitmirror/internal/tui"
	"github.com/commitmirror/commitmirror/lint"
	"github.com/commitmirror/commitmirror/logging"
	"github.com/spf13/cobra"
)

var (
	lintRoot string
	lintList bool
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check shell scripts and Python sources without modifying them",
	Long: "Runs shellcheck, shfmt --diff, pylint and black --check. Every tool runs; " +
		"the exit status is that of the first tool that failed.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, lint.ModeCheck)
	},
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Rewrite shell scripts and Python sources in place",
	Long:  "Runs shfmt --write and black, stopping at the first tool that fails.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, lint.ModeFix)
	},
}

func init() {
	for _, c := range []*cobra.Command{lintCmd, formatCmd} {
		c.Flags().StringVar(&lintRoot, "root", "", "repository root (default: lint.root from config, else the working directory)")
		c.Flags().BoolVar(&lintList, "list", false, "print the steps without running them")
	}
}

func runLint(cmd *cobra.Command, mode lint.Mode) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	if !lintList {
		if err := cfg.Guard().Check(env); err != nil {
			return err
		}
	}

	root := lintRoot
	if root == "" {
		root = cfg.ResolvePath(cfg.Lint.Root)
	}
	targets, err := lint.ResolveTargets(root, cfg.Lint.Scripts, cfg.Lint.Sources)
	if err != nil {
		return err
	}
	steps := lint.Plan(mode, targets)

	printer := tui.NewStepPrinter(cmd.OutOrStdout(), tui.DetectTheme(themeOverride))
	if lintList {
		printer.PrintPlan(mode, steps)
		return nil
	}

	logger := logging.WithComponent("lint")
	logger.Debug().Str("mode", mode.String()).Str("root", targets.Root).Int("steps", len(steps)).Msg("starting")

	d := lint.NewDispatcher(newRunner(), logger, printer)
	report, err := d.Run(cmd.Context(), mode, steps)
	printer.PrintSummary(report)
	return err
}
