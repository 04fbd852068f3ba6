// Package integrations provides HTTP clients for external package
// registries.
//
// # Overview
//
// [Client] is the shared base for registry clients: it owns the HTTP
// client, the cache backend, and the retry policy. Registry-specific
// clients embed it and add typed fetch methods; see the pypi
// subpackage for the PyPI JSON API client.
//
// # Caching
//
// All responses are cached through a [cache.Cache] backend under a
// per-registry key prefix. Pass refresh=true to any fetch method to
// bypass the cache and force a fresh API call.
//
// # Error handling
//
// Fetch methods return [ErrNotFound] when the registry reports 404 and
// [ErrNetwork] for transport failures. Transient failures (5xx,
// connection errors) are retried automatically with exponential backoff.
package integrations
