package lint

import (
	"context"
	"testing"

	"github.com/commitmirror/commitmirror/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	started  []string
	finished []StepResult
}

func (o *recordingObserver) StepStarted(s Step)        { o.started = append(o.started, s.Name) }
func (o *recordingObserver) StepFinished(r StepResult) { o.finished = append(o.finished, r) }

func failing(codes map[string]int) *runner.FakeRunner {
	return &runner.FakeRunner{Handler: func(cmd runner.Command) (string, string, int) {
		return "", "", codes[cmd.Name]
	}}
}

func TestDispatcher_AllPass(t *testing.T) {
	fake := failing(nil)
	obs := &recordingObserver{}
	d := NewDispatcher(fake, zerolog.Nop(), obs)

	report, err := d.Run(context.Background(), ModeCheck, Plan(ModeCheck, testTargets))
	require.NoError(t, err)

	assert.Equal(t, []string{"shellcheck", "shfmt", "pylint", "black"}, fake.Names())
	assert.Equal(t, []string{"shellcheck", "shfmt", "pylint", "black"}, obs.started)
	assert.Len(t, obs.finished, 4)
	assert.Equal(t, 0, report.ExitCode())
	assert.Empty(t, report.Failed())
}

func TestDispatcher_CheckContinuesPastFailures(t *testing.T) {
	fake := failing(map[string]int{"shfmt": 1, "pylint": 16})
	d := NewDispatcher(fake, zerolog.Nop(), nil)

	report, err := d.Run(context.Background(), ModeCheck, Plan(ModeCheck, testTargets))
	require.Error(t, err)

	// Every step runs, and the first failing step decides the status.
	assert.Equal(t, []string{"shellcheck", "shfmt", "pylint", "black"}, fake.Names())
	assert.Equal(t, 1, runner.ExitCode(err))
	assert.Equal(t, 1, report.ExitCode())
	assert.Contains(t, err.Error(), "step shfmt")
	require.Len(t, report.Failed(), 2)
	assert.Equal(t, 16, report.Failed()[1].ExitCode)
}

func TestDispatcher_FixStopsOnFirstFailure(t *testing.T) {
	fake := failing(map[string]int{"shfmt": 2})
	d := NewDispatcher(fake, zerolog.Nop(), nil)

	report, err := d.Run(context.Background(), ModeFix, Plan(ModeFix, testTargets))
	require.Error(t, err)

	assert.Equal(t, []string{"shfmt"}, fake.Names())
	assert.Equal(t, 2, runner.ExitCode(err))
	assert.Len(t, report.Results, 1)
}

func TestDispatcher_MissingToolIs127(t *testing.T) {
	fake := failing(map[string]int{"shellcheck": runner.ExitNotFound})
	d := NewDispatcher(fake, zerolog.Nop(), nil)

	_, err := d.Run(context.Background(), ModeCheck, Plan(ModeCheck, testTargets))
	assert.Equal(t, runner.ExitNotFound, runner.ExitCode(err))
}

func TestDispatcher_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := failing(nil)
	d := NewDispatcher(fake, zerolog.Nop(), nil)

	report, err := d.Run(ctx, ModeCheck, Plan(ModeCheck, testTargets))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.Calls)
	assert.Empty(t, report.Results)
}

func TestDispatcher_PassesArgsThrough(t *testing.T) {
	fake := failing(nil)
	d := NewDispatcher(fake, zerolog.Nop(), nil)

	_, err := d.Run(context.Background(), ModeFix, Plan(ModeFix, testTargets))
	require.NoError(t, err)

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []string{"/repo/main.py"}, fake.Calls[1].Args)
}
