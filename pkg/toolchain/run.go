package toolchain

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/observability"
)

// tailLines is how many trailing output lines are included in error messages.
const tailLines = 8

// Runner executes external commands. The CLI uses [ExecRunner]; tests
// substitute a fake implementation.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current
	// working directory) and returns the combined stdout/stderr output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec. Every execution is bound to the
// caller's context and logged with its full argv at debug level.
type ExecRunner struct {
	Logger *log.Logger
}

// NewRunner creates an ExecRunner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRunner{Logger: logger}
}

// Run executes the command and captures combined output. Failures are
// wrapped with the command line and the trailing lines of output, which is
// usually where python and pip put the actual reason.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	r.Logger.Debug("exec", "cmd", name, "args", args, "dir", dir)
	observability.Tool().OnToolStart(ctx, name, args)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	observability.Tool().OnToolComplete(ctx, name, time.Since(start), err)
	output := string(out)
	if err == nil {
		return output, nil
	}

	if ctx.Err() != nil {
		return output, ctx.Err()
	}
	code := errors.ErrCodeToolFailed
	if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
		code = errors.ErrCodeToolNotFound
	}
	if summary := tail(output, tailLines); summary != "" {
		return output, errors.Wrap(code, err, "%s: %s", commandLine(name, args), summary)
	}
	return output, errors.Wrap(code, err, "%s", commandLine(name, args))
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)

// commandLine formats a command and its arguments for display.
func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// tail returns the last n non-empty lines of output, joined by "; ".
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	var kept []string
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "; ")
}
