package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// venvCommand creates the "venv" command: create or recreate the project's
// virtual environment.
func (c *CLI) venvCommand() *cobra.Command {
	var (
		recreate bool
		python   string
	)

	cmd := &cobra.Command{
		Use:   "venv [dir]",
		Short: "Create the project's virtual environment",
		Long: `Create the venv/ virtual environment inside the project directory using
` + "`python -m venv`" + `, then print how to activate it. The environment is never
activated for you: activation only affects an interactive shell.

An existing environment is left alone unless --recreate is given, which
deletes and rebuilds it (the cure for a venv created by a since-removed
interpreter).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, err := c.Config()
			if err != nil {
				return err
			}
			return c.runVenv(cmd, dir, flagOrConfig(cmd, "python", python, cfg.Python), recreate)
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "delete and rebuild an existing environment")
	cmd.Flags().StringVar(&python, "python", "", "python interpreter to use (default: auto-detect)")
	return cmd
}

func (c *CLI) runVenv(cmd *cobra.Command, dir, python string, recreate bool) error {
	ctx := cmd.Context()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", dir)
	}
	venv := toolchain.ProjectVenv(abs)

	if venv.Exists() {
		if !recreate {
			detail := ""
			if v, err := venv.CfgVersion(); err == nil {
				detail = fmt.Sprintf(" (Python %s)", v)
			}
			printInfo("Virtual environment already exists%s", detail)
			c.printActivation(venv)
			return nil
		}
		c.Logger.Debug("removing existing environment", "dir", venv.Dir)
		if err := os.RemoveAll(venv.Dir); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "removing %s", venv.Dir)
		}
	}

	exec := c.newExec()
	py, err := toolchain.FindPython(ctx, exec, python)
	if err != nil {
		return err
	}
	if err := py.CheckVenvModule(ctx, exec); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Creating virtual environment...")
	spinner.Start()
	venv, err = toolchain.CreateVenv(ctx, exec, py, abs)
	if err != nil {
		spinner.StopWithError("Creating the virtual environment failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Virtual environment created (Python %s)", py.Version))

	c.touchProject(abs)
	c.printActivation(venv)
	return nil
}

// printActivation shows the activation command for the current platform and
// what usually comes next.
func (c *CLI) printActivation(venv toolchain.Venv) {
	printNextStep("Activate it", venv.ActivateCommand(runtime.GOOS, shellName()))
	printNextStep("Then install dependencies", "python -m pip install -r requirements.txt")
	printDetail("leave the environment with `deactivate`")
}
