// Package toolchain discovers and runs the external tools a Python project
// setup depends on: the Python interpreter, pip, the venv module, and git.
//
// Nothing here reimplements those tools. The package answers two questions:
// "which binary do I call?" and "did the call work?", leaving the actual
// work (creating environments, installing packages, version control) to
// the tools themselves.
//
// # Interpreter discovery
//
// [FindPython] resolves the interpreter by precedence:
//
//  1. an explicit path from a flag or the config file
//  2. the PYSETUP_PYTHON environment variable
//  3. python3 on PATH
//  4. python on PATH
//
// The first candidate that runs and reports a version wins. Versions below
// [MinVersion] are rejected with an error naming what was found.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// EnvPython is the environment variable consulted when no explicit
// interpreter is configured.
const EnvPython = "PYSETUP_PYTHON"

// MinVersion is the oldest interpreter pysetup supports. Black, flake8 and
// python-dotenv all still run on it.
var MinVersion = Version{Major: 3, Minor: 8}

// pythonVersionRE matches the output of `python --version`, which modern
// interpreters print to stdout as "Python X.Y.Z".
var pythonVersionRE = regexp.MustCompile(`Python\s+(\d+)\.(\d+)(?:\.(\d+))?`)

// Version is a parsed interpreter version.
type Version struct {
	Major, Minor, Patch int
}

// String formats the version as "3.11.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MajorMinor formats the version as "3.11", the form Python packaging
// metadata uses for interpreter requirements.
func (v Version) MajorMinor() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is other or newer. Patch levels are ignored,
// matching how Python packaging states interpreter requirements.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// ParseVersion extracts a Version from `python --version` output.
func ParseVersion(output string) (Version, error) {
	m := pythonVersionRE.FindStringSubmatch(output)
	if m == nil {
		return Version{}, errors.New(errors.ErrCodeToolVersion, "unrecognized python version output: %q", strings.TrimSpace(output))
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch := 0
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// Python describes a discovered interpreter.
type Python struct {
	Path    string  // binary name or path, as resolved
	Version Version // parsed from --version output
}

// FindPython locates a usable interpreter by precedence: explicit >
// PYSETUP_PYTHON > python3 > python. An explicit candidate that fails is an
// error rather than a fallback, since the user asked for that one.
func FindPython(ctx context.Context, r Runner, explicit string) (*Python, error) {
	if explicit != "" {
		py, err := probePython(ctx, r, explicit)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeToolNotFound, err, "configured interpreter %s is not usable", explicit)
		}
		return py, checkMinVersion(py)
	}

	candidates := []string{os.Getenv(EnvPython), "python3", "python"}
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		py, err := probePython(ctx, r, cand)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		return py, checkMinVersion(py)
	}
	return nil, errors.New(errors.ErrCodeToolNotFound,
		"no python interpreter found (tried python3, python); install Python %d.%d+ and re-run", MinVersion.Major, MinVersion.Minor)
}

// probePython runs `<bin> --version` and parses the result.
func probePython(ctx context.Context, r Runner, bin string) (*Python, error) {
	out, err := r.Run(ctx, "", bin, "--version")
	if err != nil {
		return nil, err
	}
	version, err := ParseVersion(out)
	if err != nil {
		return nil, err
	}
	return &Python{Path: bin, Version: version}, nil
}

func checkMinVersion(py *Python) error {
	if !py.Version.AtLeast(MinVersion) {
		return errors.New(errors.ErrCodeToolVersion,
			"python %s at %s is too old (need %d.%d or newer)", py.Version, py.Path, MinVersion.Major, MinVersion.Minor)
	}
	return nil
}

// CheckPip verifies that pip is importable by the interpreter.
func (p *Python) CheckPip(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx, "", p.Path, "-m", "pip", "--version"); err != nil {
		return errors.Wrap(errors.ErrCodeToolNotFound, err, "pip is not available to %s", p.Path)
	}
	return nil
}

// CheckVenvModule verifies that the venv standard library module works.
// Some distributions (notably Debian) ship it as a separate package.
func (p *Python) CheckVenvModule(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx, "", p.Path, "-m", "venv", "-h"); err != nil {
		return errors.Wrap(errors.ErrCodeToolNotFound, err, "venv module is not available to %s", p.Path)
	}
	return nil
}

// FindGit probes for git and returns its version line.
func FindGit(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "", "git", "version")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeToolNotFound, err, "git not found on PATH")
	}
	return strings.TrimSpace(out), nil
}
