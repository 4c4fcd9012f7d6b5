package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	root, err := ResolveRoot(dir)
	require.NoError(t, err)

	tg, err := ResolveTargets(dir, DefaultScripts, DefaultSources)
	require.NoError(t, err)

	assert.Equal(t, root, tg.Root)
	assert.Equal(t, []string{
		filepath.Join(root, "scripts", "lint.sh"),
		filepath.Join(root, "scripts", "format.sh"),
	}, tg.Scripts)
	assert.Equal(t, []string{filepath.Join(root, "main.py")}, tg.Sources)
}

func TestResolveTargets_RelativeToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "repo"), 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	tg, err := ResolveTargets("repo", nil, []string{"main.py"})
	require.NoError(t, err)

	want, err := ResolveRoot(filepath.Join(dir, "repo"))
	require.NoError(t, err)
	assert.Equal(t, want, tg.Root)
	assert.Empty(t, tg.Scripts)
}

func TestResolveTargets_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tg, err := ResolveTargets(link, nil, nil)
	require.NoError(t, err)

	want, err := ResolveRoot(realDir)
	require.NoError(t, err)
	assert.Equal(t, want, tg.Root)
}

func TestResolveTargets_RejectsEscape(t *testing.T) {
	_, err := ResolveTargets(t.TempDir(), []string{"../outside.sh"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside root")
}

func TestResolveTargets_MissingRoot(t *testing.T) {
	_, err := ResolveTargets(filepath.Join(t.TempDir(), "nope"), nil, nil)
	require.Error(t, err)
}

func TestResolveTargets_SkipsBlankEntries(t *testing.T) {
	tg, err := ResolveTargets(t.TempDir(), []string{"", "  "}, []string{"a.py"})
	require.NoError(t, err)
	assert.Empty(t, tg.Scripts)
	assert.Len(t, tg.Sources, 1)
}
