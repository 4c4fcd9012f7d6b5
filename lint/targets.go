package lint

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultScripts and DefaultSources are the paths linted when no
// configuration overrides them, relative to the root.
var (
	DefaultScripts = []string{"scripts/lint.sh", "scripts/format.sh"}
	DefaultSources = []string{"main.py"}
)

// Targets holds the absolute paths handed to the tools.
type Targets struct {
	Root    string
	Scripts []string
	Sources []string
}

// ResolveRoot turns root into an absolute path with symlinks evaluated.
// A relative root is taken relative to the working directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	return resolved, nil
}

// ResolveTargets joins scripts and sources onto the resolved root. Paths
// must stay inside the root; whether they exist is left to the tools.
func ResolveTargets(root string, scripts, sources []string) (Targets, error) {
	realRoot, err := ResolveRoot(root)
	if err != nil {
		return Targets{}, err
	}

	t := Targets{Root: realRoot}
	if t.Scripts, err = joinAll(realRoot, scripts); err != nil {
		return Targets{}, err
	}
	if t.Sources, err = joinAll(realRoot, sources); err != nil {
		return Targets{}, err
	}
	return t, nil
}

func joinAll(root string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, p)
		}
		full = filepath.Clean(full)

		rel, err := filepath.Rel(root, full)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("path %s is outside root %s", p, root)
		}
		out = append(out, full)
	}
	return out, nil
}
