// Package config loads pysetup's own configuration.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (~/.config/pysetup/config.toml), PYSETUP_* environment variables, and
// whatever flags the CLI applies on top of the loaded value.
//
// Load also reads a .env file from the working directory when one exists,
// so PYSETUP_* overrides can live next to a project — the same convention
// the tool teaches for Python projects.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/integrations/pypi"
	"github.com/larrypadri/pysetup/pkg/scaffold"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

const (
	appName = "pysetup"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"
)

// Cache backends accepted in Config.Cache.Backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendOff   = "off"
)

// Config holds tool-wide settings. Field order matters for TOML encoding:
// scalar keys come before the nested tables.
type Config struct {
	// Python is the interpreter path or name. Empty means auto-discover
	// (python3, then python).
	Python string `toml:"python"`

	// Layout is the default layout for new projects (flat or src).
	Layout string `toml:"layout"`

	// License is the default license for new projects (mit or none).
	License string `toml:"license"`

	// Tools is the default tool selection for new projects.
	Tools []string `toml:"tools"`

	// PyPIBaseURL points at the JSON API root, for mirrors.
	PyPIBaseURL string `toml:"pypi_url"`

	Author Author `toml:"author"`
	Cache  Cache  `toml:"cache"`
	Serve  Serve  `toml:"serve"`
}

// Author identifies the project author written into pyproject.toml and the
// LICENSE copyright line.
type Author struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Cache configures the metadata cache.
type Cache struct {
	Backend   string   `toml:"backend"` // file, redis, or off
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Serve configures the local guide server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Duration wraps time.Duration so TOML can carry values like "24h" or "30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Layout:      string(scaffold.LayoutFlat),
		License:     scaffold.LicenseNone,
		Tools:       append([]string(nil), scaffold.DefaultTools...),
		PyPIBaseURL: pypi.DefaultBaseURL,
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
		},
		Serve: Serve{Addr: "127.0.0.1:8765"},
	}
}

// Dir returns the pysetup config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load builds the effective configuration: defaults, then the file at path
// (DefaultPath when empty), then PYSETUP_* variables. A missing default file
// is fine; a missing explicit path is an error, since the user named it.
func Load(path string) (Config, error) {
	// Local .env first so its PYSETUP_* keys are visible below. Real
	// environment variables still win; godotenv never overrides them.
	_ = godotenv.Load()

	cfg := Defaults()

	explicit := path != ""
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		switch _, err := toml.DecodeFile(path, &cfg); {
		case err == nil:
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		default:
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config %s", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(toolchain.EnvPython, &cfg.Python)
	set("PYSETUP_LAYOUT", &cfg.Layout)
	set("PYSETUP_LICENSE", &cfg.License)
	set("PYSETUP_AUTHOR", &cfg.Author.Name)
	set("PYSETUP_EMAIL", &cfg.Author.Email)
	set("PYSETUP_PYPI_URL", &cfg.PyPIBaseURL)
	set("PYSETUP_CACHE", &cfg.Cache.Backend)
	set("PYSETUP_REDIS_ADDR", &cfg.Cache.RedisAddr)
	set("PYSETUP_SERVE_ADDR", &cfg.Serve.Addr)

	if v := os.Getenv("PYSETUP_TOOLS"); v != "" {
		cfg.Tools = splitList(v)
	}
	if v := os.Getenv("PYSETUP_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = Duration{d}
		}
	}
}

// splitList parses a comma-separated list, dropping empty elements.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the fields other packages do not validate themselves.
// License and tool names are checked again by scaffold when a plan is built.
func (c Config) Validate() error {
	if _, err := scaffold.ParseLayout(c.Layout); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendOff:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis, or off)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr (or PYSETUP_REDIS_ADDR)")
	}
	return nil
}

// AuthorString renders the author for display and scaffold metadata.
func (c Config) AuthorString() string {
	switch {
	case c.Author.Name == "":
		return c.Author.Email
	case c.Author.Email == "":
		return c.Author.Name
	}
	return fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Write renders cfg as TOML and writes it to path (DefaultPath when empty),
// creating parent directories. An existing file is only replaced when force
// is set. It returns the path written.
func Write(cfg Config, path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "locating config directory")
		}
		path = p
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New(errors.ErrCodeConflict, "%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "creating config directory")
	}

	var buf bytes.Buffer
	buf.WriteString("# pysetup configuration.\n")
	buf.WriteString("# PYSETUP_* environment variables and command-line flags override these values.\n\n")
	if err := cfg.Encode(&buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding config")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	return path, nil
}
