// Package gitlog reads commit history from git repositories and appends
// mirror commits.
package gitlog

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/commitmirror/commitmirror/runner"
)

// Commit identifies one source commit by project, hash and author date.
type Commit struct {
	ProjectID string
	SHA       string
	Timestamp time.Time
}

// Key is the comparable identity of a commit. Timestamps compare by instant.
type Key struct {
	ProjectID string
	SHA       string
	Unix      int64
}

// Key returns the identity used for set comparisons.
func (c Commit) Key() Key {
	return Key{ProjectID: c.ProjectID, SHA: c.SHA, Unix: c.Timestamp.Unix()}
}

// Message renders the subject of the mirror commit for c.
func Message(c Commit) string {
	return fmt.Sprintf("Synced from %s:%s", c.ProjectID, c.SHA)
}

var (
	sourceLineRE = regexp.MustCompile(`^([a-f0-9]+),([^,]+),([^ ]+)$`)
	syncedLineRE = regexp.MustCompile(`^([^,]+),Synced from (\w+):([a-f0-9]+)$`)
)

// ParseError is returned for a source log line that does not have the
// expected hash,email,date shape.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse log line %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("could not parse log line %q", e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseSourceLog parses `git log --format=%H,%ae,%aI` output, keeping the
// commits authored by one of includeEmails.
func ParseSourceLog(projectID, out string, includeEmails []string) ([]Commit, error) {
	include := make(map[string]bool, len(includeEmails))
	for _, e := range includeEmails {
		include[e] = true
	}

	var commits []Commit
	for _, line := range splitLines(out) {
		m := sourceLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Line: line}
		}
		if !include[m[2]] {
			continue
		}
		ts, err := time.Parse(time.RFC3339, m[3])
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		commits = append(commits, Commit{ProjectID: projectID, SHA: m[1], Timestamp: ts})
	}
	return commits, nil
}

// ParseSyncedLog parses `git log --format=%aI,%s` output from the mirror
// repository. Lines that are not mirror commits are ignored.
func ParseSyncedLog(out string) ([]Commit, error) {
	var commits []Commit
	for _, line := range splitLines(out) {
		m := syncedLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, m[1])
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		commits = append(commits, Commit{ProjectID: m[2], SHA: m[3], Timestamp: ts})
	}
	return commits, nil
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Repo runs git commands against a single working tree.
type Repo struct {
	Root   string
	runner runner.Runner
}

// Open returns a Repo rooted at root. The path is not checked.
func Open(r runner.Runner, root string) *Repo {
	return &Repo{Root: root, runner: r}
}

// SourceCommits returns the commits in the repository authored by one of
// includeEmails, tagged with projectID.
func (g *Repo) SourceCommits(ctx context.Context, projectID string, includeEmails []string) ([]Commit, error) {
	out, err := g.log(ctx, "--format=%H,%ae,%aI")
	if err != nil {
		return nil, err
	}
	commits, err := ParseSourceLog(projectID, out, includeEmails)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Root, err)
	}
	return commits, nil
}

// SyncedCommits returns the mirror commits already present in the repository.
func (g *Repo) SyncedCommits(ctx context.Context) ([]Commit, error) {
	out, err := g.log(ctx, "--format=%aI,%s")
	if err != nil {
		return nil, err
	}
	commits, err := ParseSyncedLog(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Root, err)
	}
	return commits, nil
}

// AddEmptyCommit records c as an empty commit whose author and committer
// dates are the source commit's author date.
func (g *Repo) AddEmptyCommit(ctx context.Context, c Commit) error {
	date := c.Timestamp.Format(time.RFC3339)
	var stderr bytes.Buffer
	err := g.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"-C", g.Root, "commit", "--allow-empty", "--quiet", "--message=" + Message(c)},
		Env: map[string]string{
			"GIT_AUTHOR_DATE":    date,
			"GIT_COMMITTER_DATE": date,
		},
		Stdout: &bytes.Buffer{},
		Stderr: &stderr,
	})
	if err != nil {
		return fmt.Errorf("committing %s in %s: %w%s", Message(c), g.Root, err, stderrSuffix(stderr.String()))
	}
	return nil
}

func (g *Repo) log(ctx context.Context, format string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := g.runner.Run(ctx, runner.Command{
		Name:   "git",
		Args:   []string{"-C", g.Root, "log", format},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		if isEmptyHistory(stderr.String()) {
			return "", nil
		}
		return "", fmt.Errorf("git log in %s: %w%s", g.Root, err, stderrSuffix(stderr.String()))
	}
	return stdout.String(), nil
}

func isEmptyHistory(stderr string) bool {
	return strings.Contains(stderr, "does not have any commits yet") ||
		strings.Contains(stderr, "bad default revision 'HEAD'")
}

func stderrSuffix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return ": " + s
}
