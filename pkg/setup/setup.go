// Package setup executes the ordered steps that turn an empty directory
// into a working Python project.
//
// The engine is deliberately small: a [Step] knows how to decide whether it
// applies (Enabled) and how to do its work (Run); the [Runner] executes a
// slice of steps in order with timing, structured logging, and an optional
// [Observer] for UI progress.
//
// # Failure semantics
//
// The first failing step aborts the run and is named in the returned error.
// Steps marked Optional degrade to a warning instead when the runner is
// configured with KeepGoing, so a missing network connection during pip
// install does not throw away an otherwise finished project.
//
// # Usage
//
//	runner := setup.NewRunner(logger)
//	runner.Observer = progressUI
//	results, err := runner.Run(ctx, setup.NewProjectSteps(project))
package setup

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// Step is one unit of project setup work.
type Step struct {
	// Name is a short identifier used in logs and result records.
	Name string

	// Description is the human-readable progress line.
	Description string

	// Optional marks steps whose failure degrades to a warning when the
	// runner is configured with KeepGoing.
	Optional bool

	// Enabled decides whether the step runs; a false return skips it and
	// the reason is recorded. Nil means always enabled. Predicates must be
	// read-only: they may probe for tools but never change anything.
	Enabled func(ctx context.Context) (bool, string)

	// Run does the work. Required.
	Run func(ctx context.Context) error
}

// Status classifies the outcome of one executed step.
type Status string

// Step outcomes.
const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusWarned  Status = "warned"
	StatusFailed  Status = "failed"
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Step     string        // Step.Name
	Status   Status        // outcome
	Reason   string        // skip reason or error text, empty on ok
	Duration time.Duration // zero for skipped steps
}

// Observer receives step lifecycle callbacks, used by the CLI to drive
// progress output. Callbacks run inline between steps and must be fast.
type Observer interface {
	StepStarted(name, description string)
	StepFinished(result StepResult)
}

// Runner executes steps in order.
//
// The Runner is stateless apart from its configuration; one Runner can
// execute any number of step slices.
type Runner struct {
	Logger   *log.Logger
	Observer Observer // optional

	// DryRun records every enabled step as skipped without running it.
	DryRun bool

	// KeepGoing turns failures of Optional steps into warnings.
	KeepGoing bool
}

// NewRunner creates a runner that logs through logger.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes steps in order and returns a result per step reached. The
// first failure aborts the run with an error naming the step, except that
// Optional steps only warn when KeepGoing is set.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if step.Enabled != nil {
			if ok, reason := step.Enabled(ctx); !ok {
				r.Logger.Info("skipping step", "step", step.Name, "reason", reason)
				results = r.record(results, StepResult{Step: step.Name, Status: StatusSkipped, Reason: reason})
				continue
			}
		}

		if r.Observer != nil {
			r.Observer.StepStarted(step.Name, step.Description)
		}

		if r.DryRun {
			r.Logger.Info("dry-run", "step", step.Name, "description", step.Description)
			results = r.record(results, StepResult{Step: step.Name, Status: StatusSkipped, Reason: "dry-run"})
			continue
		}

		start := time.Now()
		err := step.Run(ctx)
		elapsed := time.Since(start)

		if err != nil {
			if step.Optional && r.KeepGoing {
				r.Logger.Warn("step failed, continuing", "step", step.Name, "err", err)
				results = r.record(results, StepResult{Step: step.Name, Status: StatusWarned, Reason: errors.UserMessage(err), Duration: elapsed})
				continue
			}
			results = r.record(results, StepResult{Step: step.Name, Status: StatusFailed, Reason: errors.UserMessage(err), Duration: elapsed})
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return results, errors.Wrap(code, err, "setup step %q failed", step.Name)
		}

		r.Logger.Debug("step complete", "step", step.Name, "duration", elapsed)
		results = r.record(results, StepResult{Step: step.Name, Status: StatusOK, Duration: elapsed})
	}
	return results, nil
}

func (r *Runner) record(results []StepResult, res StepResult) []StepResult {
	if r.Observer != nil {
		r.Observer.StepFinished(res)
	}
	return append(results, res)
}

// Summary aggregates step results by status.
type Summary struct {
	OK, Skipped, Warned, Failed int
}

// Summarize counts results by status.
func Summarize(results []StepResult) Summary {
	var s Summary
	for _, res := range results {
		switch res.Status {
		case StatusOK:
			s.OK++
		case StatusSkipped:
			s.Skipped++
		case StatusWarned:
			s.Warned++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
