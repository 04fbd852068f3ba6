package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/larrypadri/pysetup/pkg/errors"
)

func TestEnvInit_CreatesBothFiles(t *testing.T) {
	dir := t.TempDir()

	if err := runCommand(t, "env", "init", dir); err != nil {
		t.Fatalf("env init: %v", err)
	}

	example, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	if err != nil {
		t.Fatalf("reading .env.example: %v", err)
	}
	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("reading .env: %v", err)
	}

	if string(example) != string(env) {
		t.Error(".env should start as a copy of .env.example")
	}
	if !strings.Contains(string(example), "APP_ENV") {
		t.Errorf(".env.example = %q, want the default template keys", example)
	}

	info, err := os.Stat(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf(".env permissions = %o, want 600", perm)
	}
}

func TestEnvInit_ExistingExampleWins(t *testing.T) {
	dir := t.TempDir()
	custom := "DATABASE_URL=\nREDIS_URL=\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "env", "init", dir); err != nil {
		t.Fatalf("env init: %v", err)
	}

	example, _ := os.ReadFile(filepath.Join(dir, ".env.example"))
	if string(example) != custom {
		t.Error("an existing .env.example should be left alone")
	}
	env, _ := os.ReadFile(filepath.Join(dir, ".env"))
	if string(env) != custom {
		t.Errorf(".env = %q, want it seeded from the project's own example", env)
	}
}

func TestEnvInit_KeepsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	secret := "SECRET_KEY=real-secret-value\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(secret), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "env", "init", dir); err != nil {
		t.Fatalf("env init: %v", err)
	}

	env, _ := os.ReadFile(filepath.Join(dir, ".env"))
	if string(env) != secret {
		t.Error("env init must never overwrite an existing .env without --force")
	}
}

func TestEnvCheck_Clean(t *testing.T) {
	dir := t.TempDir()
	if err := runCommand(t, "env", "init", dir); err != nil {
		t.Fatalf("env init: %v", err)
	}

	if err := runCommand(t, "env", "check", dir); err != nil {
		t.Errorf("env check after init: %v", err)
	}
}

func TestEnvCheck_MissingKeyFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte("APP_ENV=\nSECRET_KEY=\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=dev\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "env", "check", dir)
	if !errors.Is(err, errors.ErrCodeInvalidEnvKey) {
		t.Fatalf("err = %v, want INVALID_ENV_KEY", err)
	}
}

func TestEnvCheck_ExtraKeyOnlyWarns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte("APP_ENV=\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=dev\nEXTRA_TOKEN=x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "env", "check", dir); err != nil {
		t.Errorf("extra keys should not fail the check, got: %v", err)
	}
}

func TestEnvCheck_NoFiles(t *testing.T) {
	err := runCommand(t, "env", "check", t.TempDir())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}
