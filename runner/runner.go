// Package runner executes external commands and reports their exit status.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/magefile/mage/sh"
)

// Statuses reported for commands that never ran, matching what a POSIX
// shell returns.
const (
	ExitNotExecutable = 126
	ExitNotFound      = 127
)

// Command describes a single external process invocation.
type Command struct {
	Name string
	Args []string
	// Env is added on top of the current process environment.
	Env    map[string]string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner runs commands to completion. A non-zero exit is returned as *ExitError.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError carries the exit status of a failed command.
type ExitError struct {
	Cmd  string
	Code int
	// Started is false when the process never ran (for example, not on PATH).
	Started bool
	Err     error
}

func (e *ExitError) Error() string {
	if !e.Started {
		return fmt.Sprintf("%s: could not start: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Cmd, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode extracts the process exit status from err: 0 for nil, the carried
// code for *ExitError and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// ShRunner runs commands with os/exec and classifies the result with mage's
// sh helpers. Arguments are passed through verbatim.
type ShRunner struct{}

// NewShRunner returns a Runner that starts processes directly.
func NewShRunner() *ShRunner {
	return &ShRunner{}
}

// Run starts cmd and waits for it. Cancelling ctx kills the process; the
// returned *ExitError then unwraps to the context error.
func (r *ShRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdout, c.Stderr = cmd.Stdout, cmd.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if len(cmd.Env) > 0 {
		env := os.Environ()
		for k, v := range cmd.Env {
			env = append(env, k+"="+v)
		}
		c.Env = env
	}
	c.WaitDelay = waitDelay

	err := c.Run()
	if err == nil {
		return nil
	}

	ee := &ExitError{Cmd: cmd.String(), Code: exitCodeOf(c.ProcessState, err), Started: c.ProcessState != nil, Err: err}
	if ctxErr := ctx.Err(); ctxErr != nil {
		ee.Err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return ee
}

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed.
const waitDelay = 5 * time.Second

// exitCodeOf maps a finished (or never started) process to the status a
// POSIX shell would report: the exit code, 128+N for signal N, 126 for a
// file that cannot be executed and 127 when nothing ran.
func exitCodeOf(state *os.ProcessState, err error) int {
	if state == nil {
		if errors.Is(err, fs.ErrPermission) {
			return ExitNotExecutable
		}
		return ExitNotFound
	}
	if sh.CmdRan(err) {
		return sh.ExitStatus(err)
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
