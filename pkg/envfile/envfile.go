// Package envfile compares .env files against their committed examples.
//
// Files are parsed with godotenv (KEY=VALUE per line, # comments). The
// package exposes key names only: values are secrets and never leave it,
// so callers cannot accidentally print or log them.
package envfile

import (
	"sort"

	"github.com/joho/godotenv"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// Conventional file names, as taught by the setup guide.
const (
	Name        = ".env"
	ExampleName = ".env.example"
)

// Keys returns the sorted key names defined in the env file at path.
func Keys(path string) ([]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Diff is the key-set comparison of an .env file against its example.
type Diff struct {
	Missing []string `json:"missing"` // in the example but not in .env
	Extra   []string `json:"extra"`   // in .env but not in the example
}

// Clean reports whether the two files declare exactly the same keys.
func (d *Diff) Clean() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// Compare diffs the key sets of the env file and its example. Only key
// names are compared; values play no part and are never returned.
func Compare(envPath, examplePath string) (*Diff, error) {
	envKeys, err := Keys(envPath)
	if err != nil {
		return nil, err
	}
	exampleKeys, err := Keys(examplePath)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(envKeys))
	for _, k := range envKeys {
		have[k] = true
	}
	want := make(map[string]bool, len(exampleKeys))
	for _, k := range exampleKeys {
		want[k] = true
	}

	diff := &Diff{}
	for _, k := range exampleKeys {
		if !have[k] {
			diff.Missing = append(diff.Missing, k)
		}
	}
	for _, k := range envKeys {
		if !want[k] {
			diff.Extra = append(diff.Extra, k)
		}
	}
	return diff, nil
}
