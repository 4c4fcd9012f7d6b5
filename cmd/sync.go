package cmd

import (
	"errors"
	"fmt"

	"github.com/commitmirror/commitmirror/internal/tui"
	"github.com/commitmirror/commitmirror/logging"
	"github.com/commitmirror/commitmirror/mirror"
	"github.com/spf13/cobra"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror new commits from the configured projects",
	Long: "Reads the commits authored by include-emails in every project and adds the ones the " +
		"sync-repo lacks as empty commits dated like the originals.",
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "list the commits that would be added without writing them")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if err := cfg.ValidateForSync(); err != nil {
		return err
	}

	plan := mirror.Plan{
		IncludeEmails: cfg.IncludeEmails,
		MirrorRoot:    cfg.ResolvePath(cfg.SyncRepo),
	}
	for _, p := range cfg.Projects {
		plan.Sources = append(plan.Sources, mirror.Source{ProjectID: p.ID, Root: cfg.ResolvePath(p.GitRoot)})
	}

	theme := tui.DetectTheme(themeOverride)
	syncer := mirror.NewSyncer(newRunner(), logging.WithComponent("mirror"))
	res, err := syncer.Sync(cmd.Context(), plan, mirror.Options{DryRun: syncDryRun})
	if errors.Is(err, mirror.ErrCommitsRemoved) {
		tui.PrintCommits(cmd.ErrOrStderr(), theme, "Mirrored commits missing from the sources:", res.Removed)
		return err
	}
	if res != nil && len(res.Added) > 0 {
		verb := "Added"
		if syncDryRun {
			verb = "Would add"
		}
		tui.PrintCommits(cmd.OutOrStdout(), theme, fmt.Sprintf("%s %d commit(s):", verb, len(res.Added)), res.Added)
	}
	if err != nil {
		return err
	}
	if len(res.Added) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Mirror is up to date (%d commits).\n", res.AlreadySynced)
	}
	return nil
}
