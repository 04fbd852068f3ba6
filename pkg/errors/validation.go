package errors

import (
	"regexp"
	"strings"
)

// Validation limits.
const (
	maxProjectNameLength = 128
	maxPackageNameLength = 214
	maxPathLength        = 500
	maxEnvKeyLength      = 128
)

// pythonPackageNameRegex matches valid Python package names per PEP 508:
// ASCII letters, digits, and the separators period, underscore, hyphen,
// which may not lead or trail.
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// projectNameRegex matches valid project directory names: letters, digits,
// underscores and hyphens, starting with a letter or underscore. This is
// deliberately stricter than what the filesystem allows so the name can
// double as a Python import name after normalization.
var projectNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// envKeyRegex matches valid environment variable names: uppercase letters,
// digits and underscores, not starting with a digit.
var envKeyRegex = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// ValidateProjectName checks whether name is acceptable as a new project
// directory and Python package name.
func ValidateProjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProjectName, "project name cannot be empty")
	}
	if len(name) > maxProjectNameLength {
		return New(ErrCodeInvalidProjectName, "project name too long (max %d characters)", maxProjectNameLength)
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProjectName, "project name cannot contain path separators: %s", name)
	}
	if !projectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProjectName, "invalid project name: %s (use letters, digits, '_' or '-', starting with a letter)", name)
	}
	return nil
}

// ValidatePackageName checks whether name is a valid Python distribution
// name per PEP 508.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > maxPackageNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxPackageNameLength)
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return New(ErrCodeInvalidPackage, "package name contains control characters")
		}
	}
	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %s", name)
	}
	return nil
}

// ValidatePath checks whether path is a safe relative path: no traversal
// outside the project root, no absolute paths.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must be relative: %s", path)
	}
	// Windows drive letters.
	if len(path) >= 2 && path[1] == ':' {
		return New(ErrCodeInvalidPath, "path must be relative: %s", path)
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain '..': %s", path)
		}
	}
	return nil
}

// ValidateEnvKey checks whether key is a conventional environment variable
// name (uppercase, digits, underscores).
func ValidateEnvKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidEnvKey, "environment variable name cannot be empty")
	}
	if len(key) > maxEnvKeyLength {
		return New(ErrCodeInvalidEnvKey, "environment variable name too long (max %d characters)", maxEnvKeyLength)
	}
	if !envKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidEnvKey, "invalid environment variable name: %s (use UPPER_SNAKE_CASE)", key)
	}
	return nil
}
