package doctor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/envfile"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/project"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// comfortableVersion is the interpreter version below which doctor starts
// nagging. Older versions down to toolchain.MinVersion still pass setup but
// are close to end of life.
var comfortableVersion = toolchain.Version{Major: 3, Minor: 10}

// ToolchainChecks verifies the machine: interpreter, pip, the venv module,
// and git.
func ToolchainChecks(env *Env) []Check {
	return []Check{
		{
			Name:      "python",
			Summary:   "Python interpreter is installed and supported",
			GuideSlug: "install-python",
			Probe: func(ctx context.Context) Outcome {
				py, err := env.interpreter(ctx)
				if err != nil {
					return failed(errors.UserMessage(err), "install Python 3.8 or newer and make sure it is on PATH")
				}
				detail := fmt.Sprintf("Python %s (%s)", py.Version, py.Path)
				if !py.Version.AtLeast(comfortableVersion) {
					return warned(detail, "this version still works but is close to end of life; consider upgrading")
				}
				return passed(detail)
			},
		},
		{
			Name:      "pip",
			Summary:   "pip is available to the interpreter",
			GuideSlug: "dependencies",
			Probe: func(ctx context.Context) Outcome {
				py, err := env.interpreter(ctx)
				if err != nil {
					return failed("no usable interpreter to check pip with", "fix the python check first")
				}
				if err := py.CheckPip(ctx, env.Exec); err != nil {
					return failed(errors.UserMessage(err), "run `python -m ensurepip --upgrade`, or reinstall Python with pip included")
				}
				return passed("pip responds to `python -m pip --version`")
			},
		},
		{
			Name:      "venv-module",
			Summary:   "the venv standard library module works",
			GuideSlug: "virtual-environment",
			Probe: func(ctx context.Context) Outcome {
				py, err := env.interpreter(ctx)
				if err != nil {
					return failed("no usable interpreter to check venv with", "fix the python check first")
				}
				if err := py.CheckVenvModule(ctx, env.Exec); err != nil {
					return failed(errors.UserMessage(err), "install your distribution's venv package (python3-venv on Debian and Ubuntu)")
				}
				return passed("venv module responds to `python -m venv -h`")
			},
		},
		{
			Name:      "git",
			Summary:   "git is installed",
			GuideSlug: "version-control",
			Probe: func(ctx context.Context) Outcome {
				version, err := toolchain.FindGit(ctx, env.Exec)
				if err != nil {
					return warned("git not found on PATH", "install git to put projects under version control")
				}
				return passed(version)
			},
		},
	}
}

// ProjectChecks verifies one project directory against the conventions the
// tutorial teaches. The checks follow the tutorial's order.
func ProjectChecks(env *Env, snap *project.Snapshot) []Check {
	return []Check{
		{
			Name:      "venv",
			Summary:   "project has a virtual environment matching the interpreter",
			GuideSlug: "virtual-environment",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasVenv {
					return failed("no virtual environment", "create one with `pysetup venv`")
				}
				venv := toolchain.ProjectVenv(snap.Path)
				cfg, err := venv.CfgVersion()
				if err != nil {
					return warned("venv present but its pyvenv.cfg is unreadable", "recreate it with `pysetup venv --recreate`")
				}
				if py, err := env.interpreter(ctx); err == nil && !sameMinor(cfg, py.Version) {
					return warned(
						fmt.Sprintf("venv was created with Python %s, current interpreter is %s", cfg, py.Version),
						"recreate it with `pysetup venv --recreate`")
				}
				return passed(fmt.Sprintf("venv present (Python %s)", cfg))
			},
		},
		{
			Name:      "requirements",
			Summary:   "dependencies are recorded in requirements.txt",
			GuideSlug: "dependencies",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasRequirements {
					return warned("no requirements.txt", "record dependencies with `pysetup deps add <package>`")
				}
				doc, err := deps.ParseFile(filepath.Join(snap.Path, "requirements.txt"))
				if err != nil {
					return failed(errors.UserMessage(err), "make requirements.txt readable")
				}
				switch n := doc.Len(); n {
				case 0:
					return passed("requirements.txt present (no packages yet)")
				case 1:
					return passed("requirements.txt lists 1 package")
				default:
					return passed(fmt.Sprintf("requirements.txt lists %d packages", n))
				}
			},
		},
		{
			Name:      "git-repo",
			Summary:   "project is under version control",
			GuideSlug: "version-control",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasGit {
					return warned("not a git repository", "run `git init` in the project root")
				}
				return passed("git repository present")
			},
		},
		{
			Name:      "gitignore",
			Summary:   ".gitignore keeps venv/ and .env out of the repository",
			GuideSlug: "version-control",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasGitignore {
					return failed("no .gitignore", "add one covering venv/ and .env before committing")
				}
				missing, err := missingIgnorePatterns(filepath.Join(snap.Path, ".gitignore"))
				if err != nil {
					return failed(errors.UserMessage(err), "make .gitignore readable")
				}
				if len(missing) > 0 {
					return failed(
						fmt.Sprintf(".gitignore does not cover %s", strings.Join(missing, ", ")),
						"add the missing patterns so private files stay out of Git")
				}
				return passed(".gitignore covers venv/ and .env")
			},
		},
		{
			Name:      "readme",
			Summary:   "project has a README",
			GuideSlug: "readme",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasReadme {
					return warned("no README.md", "describe what the project is and how to run it")
				}
				return passed("README.md present")
			},
		},
		{
			Name:      "tests",
			Summary:   "project has a tests directory",
			GuideSlug: "testing",
			Probe: func(ctx context.Context) Outcome {
				if !snap.HasTests {
					return warned("no tests/ directory", "add one with a first unittest case")
				}
				return passed("tests/ present")
			},
		},
		{
			Name:      "env",
			Summary:   ".env keys match .env.example",
			GuideSlug: "environment-variables",
			Probe: func(ctx context.Context) Outcome {
				switch {
				case !snap.HasEnv && !snap.HasEnvExample:
					return passed("no environment files in use")
				case snap.HasEnvExample && !snap.HasEnv:
					return warned(".env.example exists but .env does not", "create it with `pysetup env init` and fill in the values")
				case snap.HasEnv && !snap.HasEnvExample:
					return warned(".env exists without a .env.example", "document the keys in an example file (values stay local)")
				}
				diff, err := envfile.Compare(
					filepath.Join(snap.Path, envfile.Name),
					filepath.Join(snap.Path, envfile.ExampleName))
				if err != nil {
					return failed(errors.UserMessage(err), "make both env files readable")
				}
				if len(diff.Missing) > 0 {
					return failed(
						fmt.Sprintf(".env is missing keys: %s", strings.Join(diff.Missing, ", ")),
						"add the missing keys to .env")
				}
				if len(diff.Extra) > 0 {
					return warned(
						fmt.Sprintf(".env has keys missing from .env.example: %s", strings.Join(diff.Extra, ", ")),
						"document them in .env.example so others know they exist")
				}
				return passed(".env keys match .env.example")
			},
		},
	}
}

func sameMinor(a, b toolchain.Version) bool {
	return a.Major == b.Major && a.Minor == b.Minor
}

// missingIgnorePatterns reports which of the required ignore patterns
// (venv/ and .env) a .gitignore lacks. A pattern counts as covered by an
// exact line match, with a trailing slash treated as equivalent.
func missingIgnorePatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening %s", path)
	}
	defer f.Close()

	covered := map[string]bool{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		covered[strings.TrimSuffix(line, "/")] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %s", path)
	}

	var missing []string
	if !covered["venv"] {
		missing = append(missing, "venv/")
	}
	if !covered[".env"] {
		missing = append(missing, ".env")
	}
	return missing, nil
}
