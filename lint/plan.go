// Package lint runs the external linters and formatters over the
// repository's shell scripts and Python sources.
package lint

import (
	"fmt"
	"strings"
)

// Mode selects between reporting and rewriting.
type Mode int

const (
	// ModeCheck reports violations without touching files and runs every step.
	ModeCheck Mode = iota
	// ModeFix rewrites files in place and stops at the first failure.
	ModeFix
)

func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeFix:
		return "fix"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Step is one tool invocation.
type Step struct {
	Name string
	Tool string
	Args []string
}

func (s Step) String() string {
	return strings.TrimSpace(s.Tool + " " + strings.Join(s.Args, " "))
}

type stepSpec struct {
	name    string
	tool    string
	flags   []string
	scripts bool
}

var (
	checkSteps = []stepSpec{
		{name: "shellcheck", tool: "shellcheck", scripts: true},
		{name: "shfmt", tool: "shfmt", flags: []string{"--diff"}, scripts: true},
		{name: "pylint", tool: "pylint"},
		{name: "black", tool: "black", flags: []string{"--check", "--diff"}},
	}
	fixSteps = []stepSpec{
		{name: "shfmt", tool: "shfmt", flags: []string{"--write"}, scripts: true},
		{name: "black", tool: "black"},
	}
)

// Plan returns the fixed tool sequence for mode. Steps without any
// target files are left out.
func Plan(mode Mode, t Targets) []Step {
	specs := checkSteps
	if mode == ModeFix {
		specs = fixSteps
	}

	steps := make([]Step, 0, len(specs))
	for _, s := range specs {
		files := t.Sources
		if s.scripts {
			files = t.Scripts
		}
		if len(files) == 0 {
			continue
		}
		args := make([]string, 0, len(s.flags)+len(files))
		args = append(args, s.flags...)
		args = append(args, files...)
		steps = append(steps, Step{Name: s.name, Tool: s.tool, Args: args})
	}
	return steps
}

// Tools lists the distinct programs a plan needs, in order.
func Tools(steps []Step) []string {
	seen := make(map[string]bool, len(steps))
	var tools []string
	for _, s := range steps {
		if seen[s.Tool] {
			continue
		}
		seen[s.Tool] = true
		tools = append(tools, s.Tool)
	}
	return tools
}
