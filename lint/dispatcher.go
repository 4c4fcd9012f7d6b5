package lint

import (
	"context"
	"fmt"
	"time"

	"github.com/commitmirror/commitmirror/runner"
	"github.com/rs/zerolog"
)

// StepResult is the outcome of one executed step.
type StepResult struct {
	Step     Step
	ExitCode int
	Duration time.Duration
	Err      error
}

// OK reports whether the step exited cleanly.
func (r StepResult) OK() bool { return r.Err == nil }

// Report collects the results of a dispatcher run.
type Report struct {
	Mode    Mode
	Results []StepResult
}

// Failed returns the results of the steps that did not succeed.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// ExitCode is the status of the first failed step, or 0.
func (r *Report) ExitCode() int {
	for _, res := range r.Results {
		if !res.OK() {
			return res.ExitCode
		}
	}
	return 0
}

// Observer is notified as steps start and finish.
type Observer interface {
	StepStarted(step Step)
	StepFinished(res StepResult)
}

// Dispatcher runs plan steps one after another.
type Dispatcher struct {
	runner   runner.Runner
	logger   zerolog.Logger
	observer Observer
}

// NewDispatcher creates a Dispatcher. observer may be nil.
func NewDispatcher(r runner.Runner, logger zerolog.Logger, observer Observer) *Dispatcher {
	return &Dispatcher{runner: r, logger: logger, observer: observer}
}

// Run executes steps sequentially. In ModeCheck every step runs and the
// returned error belongs to the first failure; in ModeFix Run returns as
// soon as a step fails. The error wraps *runner.ExitError so the exit
// status survives.
func (d *Dispatcher) Run(ctx context.Context, mode Mode, steps []Step) (*Report, error) {
	report := &Report{Mode: mode, Results: make([]StepResult, 0, len(steps))}

	var firstErr error
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("lint cancelled before step %s: %w", s.Name, err)
		}

		res := d.runStep(ctx, s)
		report.Results = append(report.Results, res)

		if res.OK() {
			continue
		}
		err := fmt.Errorf("step %s: %w", s.Name, res.Err)
		if mode == ModeFix {
			return report, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return report, firstErr
}

func (d *Dispatcher) runStep(ctx context.Context, s Step) StepResult {
	if d.observer != nil {
		d.observer.StepStarted(s)
	}
	d.logger.Debug().Str("step", s.Name).Str("cmd", s.String()).Msg("running step")

	start := time.Now()
	err := d.runner.Run(ctx, runner.Command{Name: s.Tool, Args: s.Args})
	res := StepResult{
		Step:     s,
		ExitCode: runner.ExitCode(err),
		Duration: time.Since(start),
		Err:      err,
	}

	if err != nil {
		d.logger.Debug().Str("step", s.Name).Int("exit_code", res.ExitCode).Err(err).Msg("step failed")
	} else {
		d.logger.Debug().Str("step", s.Name).Dur("duration", res.Duration).Msg("step passed")
	}
	if d.observer != nil {
		d.observer.StepFinished(res)
	}
	return res
}
