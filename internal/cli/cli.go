// Package cli implements the pysetup command-line interface.
//
// The commands cover the whole lifecycle the built-in tutorial teaches:
// scaffolding a project (new, init), checking the machine and the project
// (doctor, check, env), managing the virtual environment and dependencies
// (venv, deps), reading the tutorial itself (guide, serve), and the tool's
// own housekeeping (projects, cache, config, completion).
//
// All commands honor --verbose for debug-level logging and stop cleanly on
// context cancellation. Styled terminal output goes through ui.go; plain
// data (paths, JSON, DOT) goes to stdout so it can be piped.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/internal/config"
	"github.com/larrypadri/pysetup/pkg/cache"
	"github.com/larrypadri/pysetup/pkg/integrations/pypi"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// appName is the application name used for directories and display.
const appName = "pysetup"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the config file location (--config flag).
	ConfigPath string

	cfg *config.Config // loaded lazily by Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config loads the tool configuration on first use and caches it. Defaults,
// the config file, a local .env, and PYSETUP_* variables are merged in that
// order; flags override individual values afterwards.
func (c *CLI) Config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// newExec returns the runner used for all external commands.
func (c *CLI) newExec() toolchain.Runner {
	return toolchain.NewRunner(c.Logger)
}

// newPyPIClient builds a PyPI metadata client backed by the configured
// cache. The returned close function releases the cache backend.
func (c *CLI) newPyPIClient(ctx context.Context, noCache bool) (*pypi.Client, func(), error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, nil, err
	}
	backend, err := c.newCacheBackend(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	client := pypi.NewClientWithBaseURL(backend, cfg.Cache.TTL.Duration, cfg.PyPIBaseURL)
	return client, func() { _ = backend.Close() }, nil
}

// newCacheBackend creates the cache backend the config selects. Failure to
// open the file cache degrades to a null cache: a broken cache directory
// should never block a metadata lookup.
func (c *CLI) newCacheBackend(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendOff:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, redisURL(cfg.Cache.RedisAddr))
	default:
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// redisURL accepts both host:port and full redis:// forms in config.
func redisURL(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return "redis://" + addr
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/pysetup/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// flagOrConfig returns the flag value when the user set it, else fallback
// from config. Keeps the precedence rule (flags beat config) in one place.
func flagOrConfig(cmd *cobra.Command, name, flagValue, configValue string) string {
	if cmd.Flags().Changed(name) || configValue == "" {
		return flagValue
	}
	return configValue
}
