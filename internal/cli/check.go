package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Run the project's quality tools inside its venv",
		Long: `Check runs the quality tools the tutorial sets up, using the project's
own virtual environment: black in --check mode, flake8, and the unittest
suite. Tools that are not installed in the venv are skipped, never
installed behind your back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), argOrDot(args), fix)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "let black rewrite files instead of only checking")

	return cmd
}

// toolCheck is one quality command: a binary inside the venv (empty means
// the venv interpreter itself) and its arguments.
type toolCheck struct {
	name string
	tool string
	args []string
}

func (c *CLI) runCheck(ctx context.Context, dir string, fix bool) error {
	venv := toolchain.ProjectVenv(dir)
	if !venv.Exists() {
		printDetail("create one with `pysetup venv`")
		return errors.New(errors.ErrCodeNotFound, "no virtual environment in %s", dir)
	}

	blackName, blackArgs := "black --check", []string{"--check", "."}
	if fix {
		blackName, blackArgs = "black", []string{"."}
	}
	checks := []toolCheck{
		{name: blackName, tool: "black", args: blackArgs},
		{name: "flake8", tool: "flake8"},
		{name: "unittest", args: []string{"-m", "unittest"}},
	}

	exec := c.newExec()
	passed, failed, skipped := 0, 0, 0
	for _, tc := range checks {
		bin := venv.Python()
		if tc.tool != "" {
			bin = venv.Tool(tc.tool)
			if _, err := os.Stat(bin); err != nil {
				printSkipped("%s skipped (not installed in the venv)", tc.name)
				skipped++
				continue
			}
		}

		if _, err := exec.Run(ctx, dir, bin, tc.args...); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			printError("%s", tc.name)
			printDetail("%s", errors.UserMessage(err))
			continue
		}
		passed++
		printSuccess("%s", tc.name)
	}

	c.touchProject(dir)

	printNewline()
	printDetail("%d passed, %d failed, %d skipped", passed, failed, skipped)
	if failed > 0 {
		return errors.New(errors.ErrCodeToolFailed, "%d quality checks failed", failed)
	}
	return nil
}
