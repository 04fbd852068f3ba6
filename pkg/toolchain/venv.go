package toolchain

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// DefaultVenvName is the virtual environment directory name used by the
// scaffolder and expected by the generated .gitignore.
const DefaultVenvName = "venv"

// Venv points at a project virtual environment directory. It only knows
// about layout conventions; creation happens via `python -m venv`.
type Venv struct {
	Dir string
}

// ProjectVenv returns the conventional venv location inside a project.
func ProjectVenv(projectDir string) Venv {
	return Venv{Dir: filepath.Join(projectDir, DefaultVenvName)}
}

// Exists reports whether the directory looks like a real virtual
// environment. The pyvenv.cfg marker file distinguishes it from a plain
// directory that happens to be called venv.
func (v Venv) Exists() bool {
	info, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// BinDir returns the scripts directory inside the venv: bin on POSIX
// systems, Scripts on Windows.
func (v Venv) BinDir() string {
	return filepath.Join(v.Dir, binDirName(runtime.GOOS))
}

// Python returns the path of the interpreter inside the venv.
func (v Venv) Python() string {
	return v.Tool("python")
}

// Tool returns the path a console script (black, flake8, pip...) would be
// installed at inside the venv.
func (v Venv) Tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(v.BinDir(), name)
}

// CfgVersion reads the interpreter version recorded in pyvenv.cfg.
// It is used to detect a venv created by a different interpreter than the
// one currently configured.
func (v Venv) CfgVersion() (Version, error) {
	f, err := os.Open(filepath.Join(v.Dir, "pyvenv.cfg"))
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "venv has no pyvenv.cfg")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) != "version" {
			continue
		}
		return ParseVersion("Python " + strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return Version{}, err
	}
	return Version{}, errors.New(errors.ErrCodeToolVersion, "pyvenv.cfg has no version entry")
}

// ActivateCommand returns the shell command a user types to activate the
// venv, relative to the project directory. The tool never activates the
// environment itself; activation only affects an interactive shell.
func (v Venv) ActivateCommand(goos, shell string) string {
	name := filepath.Base(v.Dir)
	if goos == "windows" {
		if shell == "powershell" {
			return name + `\Scripts\Activate.ps1`
		}
		return name + `\Scripts\activate`
	}
	if shell == "fish" {
		return "source " + name + "/bin/activate.fish"
	}
	if shell == "csh" {
		return "source " + name + "/bin/activate.csh"
	}
	return "source " + name + "/bin/activate"
}

// CreateVenv runs `python -m venv <dir>` inside projectDir and returns the
// resulting Venv. The directory must not already contain an environment;
// callers decide whether to remove and recreate.
func CreateVenv(ctx context.Context, r Runner, py *Python, projectDir string) (Venv, error) {
	v := ProjectVenv(projectDir)
	if _, err := r.Run(ctx, projectDir, py.Path, "-m", "venv", DefaultVenvName); err != nil {
		return Venv{}, err
	}
	return v, nil
}

func binDirName(goos string) string {
	if goos == "windows" {
		return "Scripts"
	}
	return "bin"
}
