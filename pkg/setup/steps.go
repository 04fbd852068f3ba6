package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/scaffold"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// Project bundles everything the concrete setup steps operate on.
type Project struct {
	// Plan is the rendered scaffold to write.
	Plan *scaffold.Plan

	// Root is the project directory. Made absolute before use so venv
	// binaries resolve regardless of the process working directory.
	Root string

	// Force allows overwriting files that already exist.
	Force bool

	// Python is the discovered interpreter. Nil disables the venv and
	// everything downstream of it.
	Python *toolchain.Python

	// Exec runs external commands.
	Exec toolchain.Runner

	// Logger receives step detail logs.
	Logger *log.Logger
}

// NewProjectSteps returns the ordered steps that scaffold a project and
// prepare its environment:
//
//  1. layout: create the directory structure
//  2. files:  write the rendered project files
//  3. venv:   create the virtual environment
//  4. pip:    upgrade pip inside the venv
//  5. deps:   install requirements.txt into the venv
//  6. git:    initialize the repository
//  7. commit: write the first commit
//
// Steps whose tool is unavailable disable themselves with a reason instead
// of failing the run. Installs always go through the venv interpreter, never
// a global pip.
func NewProjectSteps(p Project) []Step {
	if abs, err := filepath.Abs(p.Root); err == nil {
		p.Root = abs
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	venv := toolchain.ProjectVenv(p.Root)

	return []Step{
		{
			Name:        "layout",
			Description: fmt.Sprintf("Create project directories (%s layout)", p.Plan.Layout),
			Run: func(ctx context.Context) error {
				return p.Plan.CreateDirs(p.Root)
			},
		},
		{
			Name:        "files",
			Description: "Write project files",
			Run: func(ctx context.Context) error {
				written, err := p.Plan.WriteFiles(p.Root, p.Force)
				if err != nil {
					return err
				}
				p.Logger.Debug("wrote project files", "count", len(written))
				return nil
			},
		},
		{
			Name:        "venv",
			Description: "Create virtual environment",
			Optional:    true,
			Enabled: func(ctx context.Context) (bool, string) {
				if p.Python == nil {
					return false, "no python interpreter found"
				}
				if venv.Exists() {
					return false, "virtual environment already exists"
				}
				if err := p.Python.CheckVenvModule(ctx, p.Exec); err != nil {
					return false, "venv module is not available"
				}
				return true, ""
			},
			Run: func(ctx context.Context) error {
				_, err := toolchain.CreateVenv(ctx, p.Exec, p.Python, p.Root)
				return err
			},
		},
		{
			Name:        "pip",
			Description: "Upgrade pip in the virtual environment",
			Optional:    true,
			Enabled: func(ctx context.Context) (bool, string) {
				if !venv.Exists() {
					return false, "virtual environment was not created"
				}
				return true, ""
			},
			Run: func(ctx context.Context) error {
				_, err := p.Exec.Run(ctx, p.Root, venv.Python(), "-m", "pip", "install", "--upgrade", "pip")
				return err
			},
		},
		{
			Name:        "deps",
			Description: "Install requirements into the virtual environment",
			Optional:    true,
			Enabled: func(ctx context.Context) (bool, string) {
				if !venv.Exists() {
					return false, "virtual environment was not created"
				}
				if _, err := os.Stat(filepath.Join(p.Root, "requirements.txt")); err != nil {
					return false, "no requirements.txt"
				}
				return true, ""
			},
			Run: func(ctx context.Context) error {
				_, err := p.Exec.Run(ctx, p.Root, venv.Python(), "-m", "pip", "install", "-r", "requirements.txt")
				return err
			},
		},
		{
			Name:        "git",
			Description: "Initialize Git repository",
			Optional:    true,
			Enabled: func(ctx context.Context) (bool, string) {
				if _, err := toolchain.FindGit(ctx, p.Exec); err != nil {
					return false, "git not found on PATH"
				}
				if _, err := os.Stat(filepath.Join(p.Root, ".git")); err == nil {
					return false, "already a git repository"
				}
				return true, ""
			},
			Run: func(ctx context.Context) error {
				_, err := p.Exec.Run(ctx, p.Root, "git", "init")
				return err
			},
		},
		{
			Name:        "commit",
			Description: "Write first commit",
			Optional:    true,
			Enabled: func(ctx context.Context) (bool, string) {
				if _, err := os.Stat(filepath.Join(p.Root, ".git")); err != nil {
					return false, "repository was not initialized"
				}
				if _, err := p.Exec.Run(ctx, p.Root, "git", "rev-parse", "--verify", "HEAD"); err == nil {
					return false, "repository already has commits"
				}
				return true, ""
			},
			Run: func(ctx context.Context) error {
				if _, err := p.Exec.Run(ctx, p.Root, "git", "add", "."); err != nil {
					return err
				}
				_, err := p.Exec.Run(ctx, p.Root, "git", "commit", "-m", "Initial commit")
				return err
			},
		},
	}
}
