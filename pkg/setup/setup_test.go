package setup

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/errors"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type recordingObserver struct {
	started  []string
	finished []StepResult
}

func (o *recordingObserver) StepStarted(name, description string) {
	o.started = append(o.started, name)
}

func (o *recordingObserver) StepFinished(result StepResult) {
	o.finished = append(o.finished, result)
}

func okStep(name string, ran *[]string) Step {
	return Step{
		Name:        name,
		Description: name,
		Run: func(ctx context.Context) error {
			*ran = append(*ran, name)
			return nil
		},
	}
}

func TestRunner_RunsInOrder(t *testing.T) {
	var ran []string
	runner := NewRunner(testLogger())
	obs := &recordingObserver{}
	runner.Observer = obs

	results, err := runner.Run(context.Background(), []Step{
		okStep("one", &ran),
		okStep("two", &ran),
		okStep("three", &ran),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := strings.Join(ran, ","); got != "one,two,three" {
		t.Errorf("execution order = %s", got)
	}
	for _, res := range results {
		if res.Status != StatusOK {
			t.Errorf("step %s status = %s, want ok", res.Step, res.Status)
		}
	}
	if got := strings.Join(obs.started, ","); got != "one,two,three" {
		t.Errorf("observer started = %s", got)
	}
	if len(obs.finished) != 3 {
		t.Errorf("observer finished %d steps, want 3", len(obs.finished))
	}
}

func TestRunner_FailFast(t *testing.T) {
	var ran []string
	boom := Step{
		Name: "boom",
		Run: func(ctx context.Context) error {
			return errors.New(errors.ErrCodeToolFailed, "exploded")
		},
	}

	results, err := NewRunner(testLogger()).Run(context.Background(), []Step{
		okStep("one", &ran),
		boom,
		okStep("after", &ran),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"boom"`) {
		t.Errorf("error should name the failed step: %v", err)
	}
	if !errors.Is(err, errors.ErrCodeToolFailed) {
		t.Errorf("error code = %v, want TOOL_FAILED", errors.GetCode(err))
	}
	if len(results) != 2 || results[1].Status != StatusFailed {
		t.Errorf("results = %+v, want [ok failed]", results)
	}
	if strings.Join(ran, ",") != "one" {
		t.Errorf("steps after the failure must not run, ran %v", ran)
	}
}

func TestRunner_KeepGoing(t *testing.T) {
	failing := func(optional bool) Step {
		return Step{
			Name:     "flaky",
			Optional: optional,
			Run: func(ctx context.Context) error {
				return errors.New(errors.ErrCodeNetwork, "network is down")
			},
		}
	}

	t.Run("optional step warns", func(t *testing.T) {
		var ran []string
		runner := NewRunner(testLogger())
		runner.KeepGoing = true

		results, err := runner.Run(context.Background(), []Step{failing(true), okStep("after", &ran)})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if results[0].Status != StatusWarned {
			t.Errorf("status = %s, want warned", results[0].Status)
		}
		if len(ran) != 1 {
			t.Error("the run should continue past a warned step")
		}
	})

	t.Run("optional step fails without keep-going", func(t *testing.T) {
		var ran []string
		_, err := NewRunner(testLogger()).Run(context.Background(), []Step{failing(true), okStep("after", &ran)})
		if err == nil {
			t.Fatal("expected error")
		}
		if len(ran) != 0 {
			t.Error("the run should stop at the failure")
		}
	})

	t.Run("required step fails despite keep-going", func(t *testing.T) {
		runner := NewRunner(testLogger())
		runner.KeepGoing = true
		if _, err := runner.Run(context.Background(), []Step{failing(false)}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRunner_SkipsDisabled(t *testing.T) {
	ranRun := false
	step := Step{
		Name: "gated",
		Enabled: func(ctx context.Context) (bool, string) {
			return false, "tool missing"
		},
		Run: func(ctx context.Context) error {
			ranRun = true
			return nil
		},
	}

	results, err := NewRunner(testLogger()).Run(context.Background(), []Step{step})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if ranRun {
		t.Error("Run fired for a disabled step")
	}
	if results[0].Status != StatusSkipped || results[0].Reason != "tool missing" {
		t.Errorf("result = %+v, want skipped with reason", results[0])
	}
}

func TestRunner_DryRun(t *testing.T) {
	ranRun := false
	runner := NewRunner(testLogger())
	runner.DryRun = true

	results, err := runner.Run(context.Background(), []Step{
		{
			Name: "real",
			Run: func(ctx context.Context) error {
				ranRun = true
				return nil
			},
		},
		{
			Name:    "gated",
			Enabled: func(ctx context.Context) (bool, string) { return false, "tool missing" },
			Run:     func(ctx context.Context) error { return nil },
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if ranRun {
		t.Error("dry-run executed a step")
	}
	if results[0].Reason != "dry-run" {
		t.Errorf("enabled step reason = %q, want dry-run", results[0].Reason)
	}
	if results[1].Reason != "tool missing" {
		t.Errorf("disabled step keeps its own reason, got %q", results[1].Reason)
	}
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran []string
	results, err := NewRunner(testLogger()).Run(ctx, []Step{okStep("one", &ran)})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(results) != 0 || len(ran) != 0 {
		t.Error("no step should run after cancellation")
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]StepResult{
		{Status: StatusOK},
		{Status: StatusOK},
		{Status: StatusSkipped},
		{Status: StatusWarned},
		{Status: StatusFailed},
	})
	want := Summary{OK: 2, Skipped: 1, Warned: 1, Failed: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
