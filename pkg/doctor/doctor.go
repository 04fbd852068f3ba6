// Package doctor runs environment and project health checks.
//
// A [Check] pairs a name with a probe function; [Run] executes a list of
// checks and aggregates the outcomes into a [Report]. Checks come in two
// groups: [ToolchainChecks] inspect the machine (interpreter, pip, venv
// module, git) and [ProjectChecks] inspect one project directory.
//
// Every non-passing result carries a remediation hint, and where the
// built-in tutorial covers the topic, a pointer to the guide step that
// teaches the fix.
//
// The report's exit-code rule is strict: warnings never fail a run, only
// FAIL results do. Scripts can rely on `pysetup doctor` exiting zero when
// [Report.Ok] is true.
package doctor

import (
	"context"
	"sync"
	"time"

	"github.com/larrypadri/pysetup/pkg/guide"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// Severity classifies a check outcome.
type Severity string

// Outcome severities, from best to worst.
const (
	Pass Severity = "pass"
	Warn Severity = "warn"
	Fail Severity = "fail"
)

// Check probes one aspect of the environment or project.
type Check struct {
	// Name is a short identifier, stable for scripting against JSON output.
	Name string

	// Summary states what the check verifies.
	Summary string

	// GuideSlug names the tutorial step that teaches the fix. Attached to
	// non-passing results only.
	GuideSlug string

	// Probe performs the check.
	Probe func(ctx context.Context) Outcome
}

// Outcome is what a probe reports.
type Outcome struct {
	Severity Severity
	Detail   string // the finding, e.g. "Python 3.11.4 (/usr/bin/python3)"
	Hint     string // remediation, empty on pass
}

func passed(detail string) Outcome {
	return Outcome{Severity: Pass, Detail: detail}
}

func warned(detail, hint string) Outcome {
	return Outcome{Severity: Warn, Detail: detail, Hint: hint}
}

func failed(detail, hint string) Outcome {
	return Outcome{Severity: Fail, Detail: detail, Hint: hint}
}

// Result is one executed check, shaped for JSON output.
type Result struct {
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Guide    string   `json:"guide,omitempty"`
}

// Report aggregates the results of a doctor run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Results     []Result  `json:"results"`
	Passed      int       `json:"passed"`
	Warned      int       `json:"warned"`
	Failed      int       `json:"failed"`
}

// Ok reports whether the run had no failures. Warnings do not count.
func (r *Report) Ok() bool {
	return r.Failed == 0
}

// Run executes checks in order and aggregates their outcomes.
func Run(ctx context.Context, checks []Check) *Report {
	report := &Report{GeneratedAt: time.Now().UTC()}
	for _, c := range checks {
		outcome := c.Probe(ctx)
		res := Result{
			Name:     c.Name,
			Summary:  c.Summary,
			Severity: outcome.Severity,
			Detail:   outcome.Detail,
			Hint:     outcome.Hint,
		}
		if outcome.Severity != Pass && c.GuideSlug != "" {
			res.Guide = guide.Ref(c.GuideSlug)
		}
		report.Results = append(report.Results, res)
		switch outcome.Severity {
		case Pass:
			report.Passed++
		case Warn:
			report.Warned++
		case Fail:
			report.Failed++
		}
	}
	return report
}

// Env shares resolved toolchain state between checks, so a doctor run
// probes for the interpreter once rather than per check.
type Env struct {
	// Exec runs external commands.
	Exec toolchain.Runner

	// Explicit is the configured interpreter override, empty for automatic
	// discovery.
	Explicit string

	once  sync.Once
	py    *toolchain.Python
	pyErr error
}

// interpreter resolves the Python interpreter once and caches the answer.
func (e *Env) interpreter(ctx context.Context) (*toolchain.Python, error) {
	e.once.Do(func() {
		e.py, e.pyErr = toolchain.FindPython(ctx, e.Exec, e.Explicit)
	})
	return e.py, e.pyErr
}
