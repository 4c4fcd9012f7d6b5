// Package gitlogtest provides git repository fixtures for tests.
package gitlogtest

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// Email is the author address configured by InitRepo.
const Email = "tester@example.com"

// InitRepo creates an empty git repository in a temporary directory with
// a local identity configured, and returns its path.
func InitRepo(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "--quiet"},
		{"config", "user.email", Email},
		{"config", "user.name", "Tester"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

// Commit adds an empty commit authored by email at date (RFC 3339) and
// returns its hash.
func Commit(t testing.TB, dir, email, date string) string {
	t.Helper()
	run := func(args ...string) string {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_EMAIL="+email,
			"GIT_AUTHOR_DATE="+date,
			"GIT_COMMITTER_DATE="+date,
		)
		out, err := cmd.Output()
		if err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
		return strings.TrimSpace(string(out))
	}
	run("commit", "--allow-empty", "--quiet", "--message=work at "+date)
	return run("rev-parse", "HEAD")
}
