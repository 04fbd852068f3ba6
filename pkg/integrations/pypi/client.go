package pypi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/larrypadri/pysetup/pkg/cache"
	"github.com/larrypadri/pysetup/pkg/integrations"
)

var (
	depRE    = regexp.MustCompile(`^([a-zA-Z0-9_-]+)`)
	markerRE = regexp.MustCompile(`;\s*(.+)`)
	skipRE   = regexp.MustCompile(`extra|dev|test`)
)

// PackageInfo holds metadata for a Python package from PyPI.
//
// Package names are normalized following PEP 503 (lowercase, underscores→hyphens).
// Dependencies list only runtime dependencies; extras, dev, and test deps are excluded.
//
// Zero values: All string fields are empty, Dependencies is nil.
// A nil Dependencies slice is valid and indicates no dependencies.
// This struct is safe for concurrent reads after construction.
type PackageInfo struct {
	Name           string            // Normalized package name (e.g., "requests", never empty in valid info)
	Version        string            // Latest version string (e.g., "2.31.0", never empty in valid info)
	Summary        string            // Short package description (may be empty)
	License        string            // License name or expression (may be empty)
	Author         string            // Author name (may be empty)
	HomePage       string            // Homepage URL (may be empty)
	RequiresPython string            // Interpreter constraint (e.g., ">=3.8", may be empty)
	Dependencies   []string          // Direct runtime dependencies, normalized names (nil or empty if none)
	ProjectURLs    map[string]string // Labeled project URLs (Source, Documentation, ...; may be nil)
}

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// DefaultBaseURL is the official PyPI JSON API endpoint.
const DefaultBaseURL = "https://pypi.org/pypi"

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for response caching (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(backend, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL creates a PyPI client against a non-default endpoint,
// such as a corporate mirror or a test server. The baseURL should point at
// the JSON API root (the part before /<package>/json).
func NewClientWithBaseURL(backend cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//
// The returned PackageInfo pointer is never nil if err is nil.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestVersion returns the latest released version of a package.
// It is a convenience wrapper around [Client.FetchPackage].
func (c *Client) LatestVersion(ctx context.Context, pkg string, refresh bool) (string, error) {
	info, err := c.FetchPackage(ctx, pkg, refresh)
	if err != nil {
		return "", err
	}
	return info.Version, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	*info = PackageInfo{
		Name:           integrations.NormalizePkgName(data.Info.Name),
		Version:        data.Info.Version,
		Summary:        data.Info.Summary,
		License:        extractLicenseType(data.Info.License, data.Info.Classifiers),
		Author:         data.Info.Author,
		HomePage:       data.Info.HomePage,
		RequiresPython: data.Info.RequiresPython,
		Dependencies:   extractDeps(data.Info.RequiresDist),
		ProjectURLs:    data.Info.ProjectURLs,
	}
	return nil
}

// extractDeps pulls runtime dependency names out of requires_dist entries.
// Entries guarded by extra/dev/test markers are skipped.
func extractDeps(requires []string) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, req := range requires {
		if m := markerRE.FindStringSubmatch(req); len(m) > 1 && skipRE.MatchString(m[1]) {
			continue
		}
		if m := depRE.FindStringSubmatch(req); len(m) > 1 {
			dep := integrations.NormalizePkgName(m[1])
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}
	return deps
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	Summary        string            `json:"summary"`
	License        string            `json:"license"`
	Classifiers    []string          `json:"classifiers"`
	RequiresDist   []string          `json:"requires_dist"`
	RequiresPython string            `json:"requires_python"`
	HomePage       string            `json:"home_page"`
	Author         string            `json:"author"`
	ProjectURLs    map[string]string `json:"project_urls"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	// First, try to extract from classifiers
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				// Return the last part, e.g., "MIT License", "BSD-3-Clause"
				return parts[len(parts)-1]
			}
		}
	}

	// If license field is short (likely just the type), use it
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Otherwise, try to extract type from the beginning of the license text
	if license != "" {
		firstLine := strings.Split(license, "\n")[0]
		firstLine = strings.TrimSpace(firstLine)
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}
