// Package mirror replays commits from source repositories as empty commits
// in a mirror repository.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/commitmirror/commitmirror/gitlog"
	"github.com/commitmirror/commitmirror/runner"
	"github.com/rs/zerolog"
)

// ErrCommitsRemoved is returned when the mirror holds commits that no longer
// exist in any source repository.
var ErrCommitsRemoved = errors.New("some commits have been removed from the sources")

// Source is one repository to read commits from.
type Source struct {
	ProjectID string
	Root      string
}

// Plan is the input of a sync.
type Plan struct {
	Sources       []Source
	IncludeEmails []string
	MirrorRoot    string
}

// Options tunes a sync run.
type Options struct {
	// DryRun computes the commits to add without writing them.
	DryRun bool
}

// Result describes what a sync did.
type Result struct {
	// Added lists the mirrored commits in the order they were (or would be) written.
	Added []gitlog.Commit
	// AlreadySynced counts source commits already present in the mirror.
	AlreadySynced int
	// Removed lists mirror commits absent from the sources when ErrCommitsRemoved is returned.
	Removed []gitlog.Commit
}

// Syncer runs syncs through a Runner.
type Syncer struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(r runner.Runner, logger zerolog.Logger) *Syncer {
	return &Syncer{runner: r, logger: logger}
}

// Sync adds to the mirror every included source commit it does not yet
// hold. Commits are written oldest first. If the mirror holds commits that
// are absent from the sources nothing is written and the error wraps
// ErrCommitsRemoved.
func (s *Syncer) Sync(ctx context.Context, plan Plan, opts Options) (*Result, error) {
	source := make(map[gitlog.Key]gitlog.Commit)
	for _, src := range plan.Sources {
		commits, err := gitlog.Open(s.runner, src.Root).SourceCommits(ctx, src.ProjectID, plan.IncludeEmails)
		if err != nil {
			return nil, fmt.Errorf("reading project %s: %w", src.ProjectID, err)
		}
		s.logger.Debug().Str("project", src.ProjectID).Int("commits", len(commits)).Msg("read source commits")
		for _, c := range commits {
			source[c.Key()] = c
		}
	}

	mirrorRepo := gitlog.Open(s.runner, plan.MirrorRoot)
	synced, err := mirrorRepo.SyncedCommits(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading mirror: %w", err)
	}
	s.logger.Debug().Int("commits", len(synced)).Msg("read mirror commits")

	result := &Result{}
	present := make(map[gitlog.Key]bool, len(synced))
	for _, c := range synced {
		present[c.Key()] = true
		if _, ok := source[c.Key()]; !ok {
			result.Removed = append(result.Removed, c)
		}
	}
	if len(result.Removed) > 0 {
		sortCommits(result.Removed)
		return result, fmt.Errorf("%w: %s", ErrCommitsRemoved, describe(result.Removed))
	}

	for k, c := range source {
		if present[k] {
			result.AlreadySynced++
			continue
		}
		result.Added = append(result.Added, c)
	}
	sortCommits(result.Added)

	if opts.DryRun {
		return result, nil
	}

	for i, c := range result.Added {
		if err := mirrorRepo.AddEmptyCommit(ctx, c); err != nil {
			result.Added = result.Added[:i]
			return result, err
		}
		s.logger.Debug().Str("project", c.ProjectID).Str("sha", c.SHA).Msg("mirrored commit")
	}
	return result, nil
}

// sortCommits orders by timestamp, then project, then hash.
func sortCommits(commits []gitlog.Commit) {
	sort.Slice(commits, func(i, j int) bool {
		a, b := commits[i], commits[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.SHA < b.SHA
	})
}

func describe(commits []gitlog.Commit) string {
	const limit = 5
	parts := make([]string, 0, limit)
	for i, c := range commits {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(commits)-limit))
			break
		}
		parts = append(parts, c.ProjectID+":"+c.SHA)
	}
	return strings.Join(parts, ", ")
}
