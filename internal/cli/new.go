package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/project"
	"github.com/larrypadri/pysetup/pkg/scaffold"
	"github.com/larrypadri/pysetup/pkg/setup"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// newOpts holds the command-line flags shared by "new" and "init".
type newOpts struct {
	layout      string
	license     string
	python      string
	tools       []string
	noVenv      bool
	noGit       bool
	noInstall   bool
	dryRun      bool
	interactive bool
	keepGoing   bool
	force       bool
}

// register binds the shared scaffolding flags to cmd.
func (o *newOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.layout, "layout", "flat", "project layout: flat or src")
	cmd.Flags().StringVar(&o.license, "license", "none", "license file: mit or none")
	cmd.Flags().StringVar(&o.python, "python", "", "python interpreter to use (default: auto-detect)")
	cmd.Flags().StringSliceVar(&o.tools, "tools", scaffold.DefaultTools, "tools to wire up: black, flake8, dotenv")
	cmd.Flags().BoolVar(&o.noVenv, "no-venv", false, "skip creating the virtual environment")
	cmd.Flags().BoolVar(&o.noGit, "no-git", false, "skip git init and the first commit")
	cmd.Flags().BoolVar(&o.noInstall, "no-install", false, "skip installing requirements")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "list what would be created without writing anything")
	cmd.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "pick layout, license, and tools interactively")
	cmd.Flags().BoolVar(&o.keepGoing, "keep-going", false, "degrade optional step failures to warnings")
	cmd.Flags().BoolVar(&o.force, "force", false, "overwrite existing files")
}

// newCommand creates the "new" command: scaffold a fresh project directory.
func (c *CLI) newCommand() *cobra.Command {
	opts := &newOpts{}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new Python project",
		Long: `Create a new Python project directory with the conventional layout:
source file, tests, README, .gitignore, requirements.txt, and pyproject.toml,
then create a virtual environment, install the requirements into it, and put
everything under git with a first commit.

Steps whose tool is missing (python, git) are skipped with a note instead of
failing the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSetup(cmd, args[0], args[0], false, opts)
		},
	}

	opts.register(cmd)
	return cmd
}

// initCommand creates the "init" command: scaffold into the current
// directory, named after it.
func (c *CLI) initCommand() *cobra.Command {
	opts := &newOpts{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up the current directory as a Python project",
		Long: `Set up the current directory as a Python project. Works like "new" but
writes into the working directory and names the project after it. Existing
files are never overwritten unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "resolving working directory")
			}
			return c.runSetup(cmd, filepath.Base(cwd), ".", true, opts)
		},
	}

	opts.register(cmd)
	return cmd
}

// runSetup is the shared implementation of "new" and "init".
func (c *CLI) runSetup(cmd *cobra.Command, name, dir string, intoCurrent bool, opts *newOpts) error {
	ctx := cmd.Context()

	cfg, err := c.Config()
	if err != nil {
		return err
	}

	layout := flagOrConfig(cmd, "layout", opts.layout, cfg.Layout)
	license := flagOrConfig(cmd, "license", opts.license, cfg.License)
	tools := opts.tools
	if !cmd.Flags().Changed("tools") && len(cfg.Tools) > 0 {
		tools = cfg.Tools
	}

	if opts.interactive {
		choice, ok, err := runWizard(layout, license, tools)
		if err != nil {
			return err
		}
		if !ok {
			printDetail("Aborted, nothing created")
			return nil
		}
		layout, license, tools = choice.Layout, choice.License, choice.Tools
	}

	exec := c.newExec()
	pythonFlag := flagOrConfig(cmd, "python", opts.python, cfg.Python)
	py, err := toolchain.FindPython(ctx, exec, pythonFlag)
	if err != nil {
		if pythonFlag != "" {
			return err
		}
		printWarning("%s", errors.UserMessage(err))
		printDetail("the project files are still created; set up the environment later with `pysetup venv`")
	}

	scaffoldOpts := scaffold.Options{
		Name:        name,
		Layout:      scaffold.Layout(layout),
		Tools:       tools,
		License:     license,
		Author:      cfg.Author.Name,
		AuthorEmail: cfg.Author.Email,
	}
	if py != nil {
		scaffoldOpts.PythonVersion = py.Version.MajorMinor()
	}
	plan, err := scaffold.NewPlan(scaffoldOpts)
	if err != nil {
		return err
	}

	proj := setup.Project{
		Plan:   plan,
		Root:   dir,
		Force:  opts.force,
		Python: py,
		Exec:   exec,
		Logger: c.Logger,
	}
	if opts.noVenv {
		proj.Python = nil
	}
	steps := dropSteps(setup.NewProjectSteps(proj), opts)

	if opts.dryRun {
		printInfo("Would create %s project %s with %d files", plan.Layout, StyleHighlight.Render(name), len(plan.Files))
		for _, path := range plan.Paths() {
			printFile(path)
		}
		printNewline()
		for _, step := range steps {
			printDetail("would run: %s", step.Description)
		}
		return nil
	}

	runner := setup.NewRunner(c.Logger)
	runner.Observer = &stepUI{ctx: ctx}
	runner.KeepGoing = opts.keepGoing

	prog := newProgress(c.Logger)
	results, err := runner.Run(ctx, steps)
	summary := setup.Summarize(results)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d setup steps", summary.OK))

	c.recordProject(name, dir, plan, py)

	printNewline()
	printSuccess("Project %s is ready", StyleHighlight.Render(name))
	printDetail("%d steps done, %d skipped, %d warnings", summary.OK, summary.Skipped, summary.Warned)
	printNewline()
	if !intoCurrent {
		printNextStep("Get started", "cd "+name)
	}
	if venv := toolchain.ProjectVenv(proj.Root); venv.Exists() {
		printNextStep("Activate the environment", venv.ActivateCommand(runtime.GOOS, shellName()))
	}
	printNextStep("Check the setup", "pysetup doctor")
	return nil
}

// dropSteps filters the project steps down to what the flags allow.
func dropSteps(steps []setup.Step, opts *newOpts) []setup.Step {
	skip := map[string]bool{}
	if opts.noVenv {
		skip["venv"] = true
	}
	if opts.noInstall {
		skip["pip"] = true
		skip["deps"] = true
	}
	if opts.noGit {
		skip["git"] = true
		skip["commit"] = true
	}
	if len(skip) == 0 {
		return steps
	}
	kept := steps[:0]
	for _, s := range steps {
		if !skip[s.Name] {
			kept = append(kept, s)
		}
	}
	return kept
}

// recordProject upserts the project into the registry. Registry trouble is
// logged, never fatal: the project on disk is already complete.
func (c *CLI) recordProject(name, dir string, plan *scaffold.Plan, py *toolchain.Python) {
	reg, err := project.NewRegistry("")
	if err != nil {
		c.Logger.Warn("project registry unavailable", "err", err)
		return
	}
	rec := project.Project{Name: name, Path: dir, Layout: string(plan.Layout)}
	if py != nil {
		rec.Python = py.Version.String()
	}
	if _, err := reg.Record(rec); err != nil {
		c.Logger.Warn("recording project failed", "err", err)
	}
}

// stepUI drives spinner-and-row progress output during a setup run.
type stepUI struct {
	ctx     context.Context
	spinner *Spinner
}

func (u *stepUI) StepStarted(name, description string) {
	u.spinner = newSpinnerWithContext(u.ctx, description)
	u.spinner.Start()
}

func (u *stepUI) StepFinished(res setup.StepResult) {
	if u.spinner != nil {
		u.spinner.Stop()
		u.spinner = nil
	}
	printStepResult(res)
}

// shellName returns the basename of $SHELL, used to pick the right
// activation command variant.
func shellName() string {
	return filepath.Base(os.Getenv("SHELL"))
}
