package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/doctor"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/project"
)

// doctorCommand creates the "doctor" command: environment and project checks.
func (c *CLI) doctorCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check the machine and a project against setup conventions",
		Long: `Check that the machine can do Python development (interpreter, pip, the
venv module, git) and that the project in dir follows the conventions the
tutorial teaches: a virtual environment, recorded requirements, a .gitignore
that keeps venv/ and .env out of the repository, a README, and tests.

Warnings never change the exit code; the command exits 1 only when a check
fails outright.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runDoctor(cmd.Context(), dir, len(args) == 1, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the report as JSON")
	return cmd
}

func (c *CLI) runDoctor(ctx context.Context, dir string, explicitDir, jsonOut bool) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}

	env := &doctor.Env{Exec: c.newExec(), Explicit: cfg.Python}
	checks := doctor.ToolchainChecks(env)

	snap, err := project.Detect(dir)
	if err != nil {
		return err
	}
	// Without an explicit dir, only inspect the working directory as a
	// project when it carries project markers; a doctor run from $HOME
	// should not complain about a missing .gitignore.
	inspectProject := explicitDir || looksLikeProject(snap)
	if inspectProject {
		checks = append(checks, doctor.ProjectChecks(env, snap)...)
	}

	report := doctor.Run(ctx, checks)
	c.touchProject(snap.Path)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encoding report")
		}
	} else {
		if inspectProject {
			printInfo("Checking %s", StyleHighlight.Render(snap.Name))
		} else {
			printInfo("Checking the toolchain %s", StyleDim.Render("(no project here)"))
		}
		printNewline()
		for _, res := range report.Results {
			printCheckRow(res)
		}
		printNewline()
		printDetail("%d passed, %d warnings, %d failed", report.Passed, report.Warned, report.Failed)
	}

	if !report.Ok() {
		return errors.New(errors.ErrCodeToolFailed, "%d of %d checks failed", report.Failed, len(report.Results))
	}
	return nil
}

// looksLikeProject reports whether the snapshot carries any of the markers
// a Python project would have.
func looksLikeProject(snap *project.Snapshot) bool {
	return snap.HasRequirements || snap.HasPyproject || snap.HasVenv ||
		snap.HasGit || snap.HasTests || snap.HasReadme
}

// touchProject freshens the registry's last-seen time for known paths.
func (c *CLI) touchProject(path string) {
	reg, err := project.NewRegistry("")
	if err != nil {
		return
	}
	if err := reg.Touch(path); err != nil {
		c.Logger.Debug("registry touch failed", "err", err)
	}
}
