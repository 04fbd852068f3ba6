// Package scaffold generates new Python project trees.
//
// Generation happens in two phases. [NewPlan] renders every file from the
// embedded templates into an in-memory [Plan]; [Plan.Apply] writes the plan
// to disk. Separating the phases keeps dry-runs trivial (render, list the
// paths, skip Apply) and means a render failure never leaves a half-written
// project behind.
//
// # Layouts
//
// Two layouts are supported:
//
//	flat: main.py at the project root next to tests/ (the default)
//	src:  src/<package>/main.py plus packaging metadata, so the tests
//	      import the installed package rather than whatever sits in the
//	      working directory
//
// # Overwrite safety
//
// Apply refuses to touch existing files unless force is set, so rerunning
// generation over a project cannot silently destroy local edits. The check
// runs over the whole plan before the first write.
package scaffold

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// Layout selects the directory structure of a generated project.
type Layout string

// Supported project layouts.
const (
	// LayoutFlat places main.py at the project root. This is the layout
	// most tutorials teach and the default for new projects.
	LayoutFlat Layout = "flat"

	// LayoutSrc places code under src/<package>/ with setuptools metadata
	// for an editable install.
	LayoutSrc Layout = "src"
)

// ParseLayout converts a user-supplied string to a Layout. The empty string
// maps to LayoutFlat.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(LayoutFlat):
		return LayoutFlat, nil
	case string(LayoutSrc):
		return LayoutSrc, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (supported: flat, src)", s)
	}
}

// Optional tooling a new project can be wired up with.
const (
	ToolBlack  = "black"  // code formatter, adds [tool.black] and a pinned dependency
	ToolFlake8 = "flake8" // linter, adds .flake8 and a pinned dependency
	ToolDotenv = "dotenv" // python-dotenv, adds .env.example and a pinned dependency
)

// KnownTools lists every tool name accepted in Options.Tools.
var KnownTools = []string{ToolBlack, ToolFlake8, ToolDotenv}

// DefaultTools is the selection used when the user does not choose.
var DefaultTools = []string{ToolBlack, ToolFlake8, ToolDotenv}

// License identifiers accepted in Options.License.
const (
	LicenseNone = "none"
	LicenseMIT  = "mit"
)

// Options describes the project to generate.
type Options struct {
	// Name is the project name, used for the directory name, README title
	// and pyproject.toml metadata. Must pass errors.ValidateProjectName.
	Name string

	// Layout selects flat or src. Empty means LayoutFlat.
	Layout Layout

	// Tools enables optional tooling by name (see KnownTools).
	Tools []string

	// License selects the LICENSE file: "mit" or "none". Empty means none.
	License string

	// Author appears in pyproject.toml and as the LICENSE copyright holder.
	Author string

	// AuthorEmail is the optional email next to Author in pyproject.toml.
	AuthorEmail string

	// PythonVersion is the minimum interpreter version recorded in the
	// README and pyproject.toml, in "3.11" form. Empty uses the oldest
	// version pysetup supports.
	PythonVersion string
}

// File is a single rendered file within a Plan.
type File struct {
	Path    string // relative to the project root, forward slashes
	Content []byte
}

// Plan is a fully rendered project scaffold, ready to be written to disk.
type Plan struct {
	Name    string  // validated project name
	Package string  // derived Python package name
	Layout  Layout  // resolved layout
	Dirs    []string
	Files   []File // stable order: code, tests, then metadata files
}

// NewPlan validates opts and renders the full set of project files.
func NewPlan(opts Options) (*Plan, error) {
	if err := errors.ValidateProjectName(opts.Name); err != nil {
		return nil, err
	}
	layout, err := ParseLayout(string(opts.Layout))
	if err != nil {
		return nil, err
	}
	tools, err := toolSet(opts.Tools)
	if err != nil {
		return nil, err
	}
	license, err := parseLicense(opts.License)
	if err != nil {
		return nil, err
	}

	data := newTemplateData(opts, layout, tools, time.Now().Year())

	p := &Plan{
		Name:    opts.Name,
		Package: data.Package,
		Layout:  layout,
	}

	type fileSpec struct {
		path string
		tmpl string // empty renders an empty file
		keep bool
	}
	var specs []fileSpec

	if layout == LayoutSrc {
		pkgDir := path.Join("src", data.Package)
		p.Dirs = append(p.Dirs, pkgDir)
		specs = append(specs,
			fileSpec{path.Join(pkgDir, "__init__.py"), "init.py.tmpl", true},
			fileSpec{path.Join(pkgDir, "main.py"), "main.py.tmpl", true},
		)
	} else {
		specs = append(specs, fileSpec{"main.py", "main.py.tmpl", true})
	}
	p.Dirs = append(p.Dirs, "tests")

	specs = append(specs,
		// The tests package marker lets `python -m unittest` discover the
		// suite from the project root without extra flags.
		fileSpec{"tests/__init__.py", "", true},
		fileSpec{"tests/test_main.py", "test_main.py.tmpl", true},
		fileSpec{"README.md", "README.md.tmpl", true},
		fileSpec{".gitignore", "gitignore.tmpl", true},
		fileSpec{"requirements.txt", "requirements.txt.tmpl", true},
		fileSpec{"pyproject.toml", "pyproject.toml.tmpl", true},
		fileSpec{".env.example", "env.example.tmpl", tools[ToolDotenv]},
		fileSpec{".flake8", "flake8.tmpl", tools[ToolFlake8]},
		fileSpec{"LICENSE", "license_mit.tmpl", license == LicenseMIT},
	)

	for _, s := range specs {
		if !s.keep {
			continue
		}
		content := []byte{}
		if s.tmpl != "" {
			content, err = render(s.tmpl, data)
			if err != nil {
				return nil, err
			}
		}
		p.Files = append(p.Files, File{Path: s.path, Content: content})
	}
	return p, nil
}

// Paths returns the relative path of every file in the plan, in write
// order. Used for dry-run listings.
func (p *Plan) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

// Apply writes the plan under root, creating root itself if needed. Unless
// force is set, a file that already exists aborts the whole write with
// ErrCodeConflict before anything is touched. It returns the relative paths
// written.
func (p *Plan) Apply(root string, force bool) ([]string, error) {
	if err := p.CreateDirs(root); err != nil {
		return nil, err
	}
	return p.WriteFiles(root, force)
}

// CreateDirs creates root and the plan's directory layout under it.
func (p *Plan) CreateDirs(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating project directory %s", root)
	}
	for _, dir := range p.Dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "creating directory %s", dir)
		}
	}
	return nil
}

// WriteFiles writes the plan's files under root. Unless force is set, a
// file that already exists aborts the whole write with ErrCodeConflict
// before anything is touched. It returns the relative paths written.
func (p *Plan) WriteFiles(root string, force bool) ([]string, error) {
	if !force {
		for _, f := range p.Files {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(f.Path))); err == nil {
				return nil, errors.New(errors.ErrCodeConflict, "%s already exists (use --force to overwrite)", f.Path)
			}
		}
	}
	written := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.Wrap(errors.ErrCodeInternal, err, "creating directory for %s", f.Path)
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return written, errors.Wrap(errors.ErrCodeInternal, err, "writing %s", f.Path)
		}
		written = append(written, f.Path)
	}
	return written, nil
}

// PackageName converts a project name into a Python package name:
// lowercased with hyphens mapped to underscores. Project name validation
// guarantees the result is a valid import name.
func PackageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func toolSet(tools []string) (map[string]bool, error) {
	set := make(map[string]bool, len(tools))
	for _, t := range tools {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			continue
		}
		switch name {
		case ToolBlack, ToolFlake8, ToolDotenv:
			set[name] = true
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown tool %q (supported: %s)", t, strings.Join(KnownTools, ", "))
		}
	}
	return set, nil
}

func parseLicense(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", LicenseNone:
		return LicenseNone, nil
	case LicenseMIT:
		return LicenseMIT, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown license %q (supported: mit, none)", s)
	}
}
