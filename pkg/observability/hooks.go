// Package observability provides hooks for instrumenting pysetup without
// binding the libraries to a metrics or tracing backend.
//
// The pattern is a global registry of hook interfaces with no-op defaults.
// Libraries emit events through the registry; a main that wants telemetry
// registers implementations at startup:
//
//	observability.SetToolHooks(&myToolHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Registration happens before any work runs, so libraries read the registry
// without coordination beyond the internal mutex. Hooks that are never set
// cost one interface call per event.
package observability

import (
	"context"
	"sync"
	"time"
)

// ToolHooks receives events for external commands (python, pip, git, black).
type ToolHooks interface {
	// OnToolStart records a command about to run.
	OnToolStart(ctx context.Context, name string, args []string)

	// OnToolComplete records a finished command. err is the raw exec error,
	// nil on success.
	OnToolComplete(ctx context.Context, name string, duration time.Duration, err error)
}

// CacheHooks receives events from metadata cache lookups. The scope
// identifies the consumer, e.g. "pypi".
type CacheHooks interface {
	// OnCacheHit records a lookup served from cache.
	OnCacheHit(ctx context.Context, scope string)

	// OnCacheMiss records a lookup that fell through to the network.
	OnCacheMiss(ctx context.Context, scope string)

	// OnCacheSet records a cache write of size bytes.
	OnCacheSet(ctx context.Context, scope string, size int)
}

// HTTPHooks receives events from registry API calls.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (connection refused, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopToolHooks is a no-op implementation of ToolHooks.
type NoopToolHooks struct{}

func (NoopToolHooks) OnToolStart(context.Context, string, []string)                {}
func (NoopToolHooks) OnToolComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	toolHooks  ToolHooks  = NoopToolHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetToolHooks registers custom tool hooks. Call once at startup, before
// any commands run.
func SetToolHooks(h ToolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		toolHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Call once at startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Tool returns the registered tool hooks.
func Tool() ToolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return toolHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	toolHooks = NoopToolHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
