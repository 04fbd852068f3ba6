package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/larrypadri/pysetup/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Layout != "flat" {
		t.Errorf("Layout = %q, want flat", cfg.Layout)
	}
	if cfg.License != "none" {
		t.Errorf("License = %q, want none", cfg.License)
	}
	if want := []string{"black", "flake8", "dotenv"}; !slices.Equal(cfg.Tools, want) {
		t.Errorf("Tools = %v, want %v", cfg.Tools, want)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL.Duration)
	}
	if cfg.PyPIBaseURL == "" || cfg.Serve.Addr == "" {
		t.Errorf("PyPIBaseURL/Serve.Addr unset: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDefaultPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join(dir, "pysetup", "config.toml"); path != want {
		t.Errorf("DefaultPath = %q, want %q", path, want)
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	// Point the default path at an empty directory.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout != "flat" || cfg.Cache.Backend != BackendFile {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND for a path the user named", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
layout = "src"
license = "mit"
tools = ["black"]

[author]
name = "Ada Lovelace"
email = "ada@example.org"

[cache]
backend = "off"
ttl = "1h"

[serve]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout != "src" || cfg.License != "mit" {
		t.Errorf("Layout/License = %q/%q", cfg.Layout, cfg.License)
	}
	if !slices.Equal(cfg.Tools, []string{"black"}) {
		t.Errorf("Tools = %v", cfg.Tools)
	}
	if cfg.Author.Name != "Ada Lovelace" || cfg.Author.Email != "ada@example.org" {
		t.Errorf("Author = %+v", cfg.Author)
	}
	if cfg.Cache.Backend != BackendOff || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Serve.Addr != "127.0.0.1:9000" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.PyPIBaseURL == "" {
		t.Error("PyPIBaseURL lost its default")
	}
}

func TestLoad_DefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "pysetup"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "layout = \"src\"\n"
	if err := os.WriteFile(filepath.Join(dir, "pysetup", "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout != "src" {
		t.Errorf("Layout = %q, want src from the XDG config file", cfg.Layout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("layout = \"src\"\nlicense = \"mit\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PYSETUP_LAYOUT", "flat")
	t.Setenv("PYSETUP_TOOLS", "black, dotenv")
	t.Setenv("PYSETUP_CACHE_TTL", "90m")
	t.Setenv("PYSETUP_SERVE_ADDR", "localhost:1234")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout != "flat" {
		t.Errorf("Layout = %q, want env to beat the file", cfg.Layout)
	}
	if cfg.License != "mit" {
		t.Errorf("License = %q, want the file value where env is silent", cfg.License)
	}
	if !slices.Equal(cfg.Tools, []string{"black", "dotenv"}) {
		t.Errorf("Tools = %v", cfg.Tools)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL.Duration)
	}
	if cfg.Serve.Addr != "localhost:1234" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PYSETUP_AUTHOR=Grace Hopper\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	// godotenv loads into the process environment; undo after the test.
	t.Cleanup(func() { os.Unsetenv("PYSETUP_AUTHOR") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Author.Name != "Grace Hopper" {
		t.Errorf("Author.Name = %q, want the .env value", cfg.Author.Name)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad layout", "layout = \"nested\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Defaults()
	cfg.Layout = "src"
	cfg.Author = Author{Name: "Ada Lovelace", Email: "ada@example.org"}

	written, err := Write(cfg, path, false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if written != path {
		t.Errorf("written path = %q, want %q", written, path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Layout != "src" || loaded.Author != cfg.Author {
		t.Errorf("loaded = %+v, want the written values", loaded)
	}
	if loaded.Cache.TTL.Duration != cfg.Cache.TTL.Duration {
		t.Errorf("TTL = %v, want %v", loaded.Cache.TTL.Duration, cfg.Cache.TTL.Duration)
	}
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := Write(Defaults(), path, false); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	if _, err := Write(Defaults(), path, false); !errors.Is(err, errors.ErrCodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
	if _, err := Write(Defaults(), path, true); err != nil {
		t.Fatalf("forced Write: %v", err)
	}
}

func TestAuthorString(t *testing.T) {
	tests := []struct {
		author Author
		want   string
	}{
		{Author{}, ""},
		{Author{Name: "Ada Lovelace"}, "Ada Lovelace"},
		{Author{Email: "ada@example.org"}, "ada@example.org"},
		{Author{Name: "Ada Lovelace", Email: "ada@example.org"}, "Ada Lovelace <ada@example.org>"},
	}
	for _, tt := range tests {
		cfg := Config{Author: tt.author}
		if got := cfg.AuthorString(); got != tt.want {
			t.Errorf("AuthorString(%+v) = %q, want %q", tt.author, got, tt.want)
		}
	}
}
