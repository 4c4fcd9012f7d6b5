package runner

import (
	"context"
	"io"
	"sync"
)

// FakeRunner records commands and replays canned results. It is used by
// tests in packages that shell out.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []Command

	// Handler, when set, decides the outcome of each call. It may write to
	// the command's Stdout and Stderr.
	Handler func(cmd Command) (stdout string, stderr string, code int)
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	handler := f.Handler
	f.mu.Unlock()

	if handler == nil {
		return nil
	}
	out, errOut, code := handler(cmd)
	if out != "" && cmd.Stdout != nil {
		io.WriteString(cmd.Stdout, out) //nolint:errcheck
	}
	if errOut != "" && cmd.Stderr != nil {
		io.WriteString(cmd.Stderr, errOut) //nolint:errcheck
	}
	if code == 0 {
		return nil
	}
	return &ExitError{Cmd: cmd.String(), Code: code, Started: code != ExitNotFound}
}

// Names returns the program name of every recorded call, in order.
func (f *FakeRunner) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		names = append(names, c.Name)
	}
	return names
}
