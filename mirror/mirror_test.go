package mirror

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/commitmirror/commitmirror/gitlog"
	"github.com/commitmirror/commitmirror/gitlog/gitlogtest"
	"github.com/commitmirror/commitmirror/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit serves canned `git log` output per repository root and records
// mirror commits.
type fakeGit struct {
	logs      map[string]string
	commitErr int
	commits   []string
}

func (f *fakeGit) fakeRunner() *runner.FakeRunner {
	return &runner.FakeRunner{Handler: func(cmd runner.Command) (string, string, int) {
		root, verb := cmd.Args[1], cmd.Args[2]
		switch verb {
		case "log":
			return f.logs[root], "", 0
		case "commit":
			if f.commitErr != 0 {
				return "", "fatal: boom", f.commitErr
			}
			f.commits = append(f.commits, strings.TrimPrefix(cmd.Args[len(cmd.Args)-1], "--message="))
			return "", "", 0
		}
		return "", "unexpected", 1
	}}
}

var testPlan = Plan{
	Sources: []Source{
		{ProjectID: "blog", Root: "/src/blog"},
		{ProjectID: "tools", Root: "/src/tools"},
	},
	IncludeEmails: []string{"me@example.com"},
	MirrorRoot:    "/mirror",
}

func newFake() *fakeGit {
	return &fakeGit{logs: map[string]string{
		"/src/blog": "b2,me@example.com,2024-01-03T00:00:00Z\n" +
			"bx,other@example.com,2024-01-02T12:00:00Z\n" +
			"b1,me@example.com,2024-01-01T00:00:00Z\n",
		"/src/tools": "t1,me@example.com,2024-01-02T00:00:00+02:00\n",
		"/mirror":    "",
	}}
}

func TestSync_AddsMissingOldestFirst(t *testing.T) {
	fg := newFake()
	fg.logs["/mirror"] = "2024-01-01T00:00:00Z,Synced from blog:b1\n2023-12-31T00:00:00Z,Initial commit\n"

	res, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Synced from tools:t1", "Synced from blog:b2"}, fg.commits)
	assert.Equal(t, 1, res.AlreadySynced)
	require.Len(t, res.Added, 2)
	assert.Equal(t, "t1", res.Added[0].SHA)
}

func TestSync_DryRunWritesNothing(t *testing.T) {
	fg := newFake()

	res, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, fg.commits)
	require.Len(t, res.Added, 3)
	assert.Equal(t, []string{"b1", "t1", "b2"}, []string{res.Added[0].SHA, res.Added[1].SHA, res.Added[2].SHA})
}

func TestSync_UpToDate(t *testing.T) {
	fg := newFake()
	fg.logs["/mirror"] = "2024-01-01T00:00:00Z,Synced from blog:b1\n" +
		"2024-01-03T01:00:00+01:00,Synced from blog:b2\n" +
		"2024-01-01T22:00:00Z,Synced from tools:t1\n"

	res, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Added)
	assert.Equal(t, 3, res.AlreadySynced)
	assert.Empty(t, fg.commits)
}

func TestSync_RemovedCommitsAbort(t *testing.T) {
	fg := newFake()
	fg.logs["/mirror"] = "2024-01-01T00:00:00Z,Synced from blog:gone\n"

	res, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	require.ErrorIs(t, err, ErrCommitsRemoved)
	assert.Contains(t, err.Error(), "blog:gone")
	require.Len(t, res.Removed, 1)
	assert.Empty(t, fg.commits)
}

func TestSync_TimestampChangeCountsAsRemoved(t *testing.T) {
	fg := newFake()
	fg.logs["/mirror"] = "2020-01-01T00:00:00Z,Synced from blog:b1\n"

	_, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	require.ErrorIs(t, err, ErrCommitsRemoved)
}

func TestSync_SourceParseErrorStops(t *testing.T) {
	fg := newFake()
	fg.logs["/src/tools"] = "garbage\n"

	_, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	var pe *gitlog.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "project tools")
}

func TestSync_CommitFailureReportsProgress(t *testing.T) {
	fg := newFake()
	fg.commitErr = 128

	res, err := NewSyncer(fg.fakeRunner(), zerolog.Nop()).Sync(context.Background(), testPlan, Options{})
	require.Error(t, err)
	assert.Equal(t, 128, runner.ExitCode(err))
	assert.Empty(t, res.Added)
}

func TestSync_RealRepositories(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	src := gitlogtest.InitRepo(t)
	first := gitlogtest.Commit(t, src, "me@example.com", "2024-02-01T10:00:00+01:00")
	gitlogtest.Commit(t, src, "someone@else.org", "2024-02-02T10:00:00Z")
	mirrorRoot := gitlogtest.InitRepo(t)

	plan := Plan{
		Sources:       []Source{{ProjectID: "src", Root: src}},
		IncludeEmails: []string{"me@example.com"},
		MirrorRoot:    mirrorRoot,
	}
	s := NewSyncer(runner.NewShRunner(), zerolog.Nop())

	res, err := s.Sync(ctx, plan, Options{})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, first, res.Added[0].SHA)

	second := gitlogtest.Commit(t, src, "me@example.com", "2024-02-03T10:00:00Z")
	res, err = s.Sync(ctx, plan, Options{})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, second, res.Added[0].SHA)
	assert.Equal(t, 1, res.AlreadySynced)

	synced, err := gitlog.Open(runner.NewShRunner(), mirrorRoot).SyncedCommits(ctx)
	require.NoError(t, err)
	assert.Len(t, synced, 2)
}
