package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/larrypadri/pysetup/pkg/envfile"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// Snapshot describes the setup-relevant contents of a project directory at
// one point in time. All fields are derived from the filesystem; nothing is
// read from the registry.
type Snapshot struct {
	Path   string `json:"path"`
	Name   string `json:"name"`   // pyproject.toml name, else the directory name
	Layout string `json:"layout"` // src when a src/ directory exists, else flat

	HasRequirements bool `json:"has_requirements"`
	HasPyproject    bool `json:"has_pyproject"`
	HasVenv         bool `json:"has_venv"`
	HasGit          bool `json:"has_git"`
	HasTests        bool `json:"has_tests"`
	HasReadme       bool `json:"has_readme"`
	HasGitignore    bool `json:"has_gitignore"`
	HasEnv          bool `json:"has_env"`
	HasEnvExample   bool `json:"has_env_example"`

	// VenvVersion is the interpreter version recorded in pyvenv.cfg, empty
	// when no venv exists or the file is unreadable.
	VenvVersion string `json:"venv_version,omitempty"`
}

// Detect inspects dir and reports which conventional project files exist.
func Detect(dir string) (*Snapshot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "%s is not a project directory", dir)
	}

	s := &Snapshot{
		Path:   abs,
		Name:   filepath.Base(abs),
		Layout: "flat",

		HasRequirements: fileExists(filepath.Join(abs, "requirements.txt")),
		HasPyproject:    fileExists(filepath.Join(abs, "pyproject.toml")),
		HasGit:          dirExists(filepath.Join(abs, ".git")),
		HasTests:        dirExists(filepath.Join(abs, "tests")),
		HasReadme:       fileExists(filepath.Join(abs, "README.md")),
		HasGitignore:    fileExists(filepath.Join(abs, ".gitignore")),
		HasEnv:          fileExists(filepath.Join(abs, envfile.Name)),
		HasEnvExample:   fileExists(filepath.Join(abs, envfile.ExampleName)),
	}

	if dirExists(filepath.Join(abs, "src")) {
		s.Layout = "src"
	}
	if name := pyprojectName(abs); name != "" {
		s.Name = name
	}

	venv := toolchain.ProjectVenv(abs)
	if venv.Exists() {
		s.HasVenv = true
		if v, err := venv.CfgVersion(); err == nil {
			s.VenvVersion = v.String()
		}
	}
	return s, nil
}

// pyprojectName extracts the project name from pyproject.toml, checking the
// PEP 621 [project] table first and falling back to poetry metadata.
func pyprojectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var pyproject struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return ""
	}
	if pyproject.Project.Name != "" {
		return pyproject.Project.Name
	}
	return pyproject.Tool.Poetry.Name
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
