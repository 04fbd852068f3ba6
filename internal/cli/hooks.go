package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/observability"
)

// RegisterDebugHooks routes cache and HTTP events into the logger at debug
// level, so --verbose shows what the metadata layer is doing. Tool events
// are not registered here: the exec runner already debug-logs every command.
func (c *CLI) RegisterDebugHooks() {
	h := &debugHooks{logger: c.Logger}
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnCacheHit(_ context.Context, scope string) {
	h.logger.Debug("cache hit", "scope", scope)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, scope string) {
	h.logger.Debug("cache miss", "scope", scope)
}

func (h *debugHooks) OnCacheSet(_ context.Context, scope string, size int) {
	h.logger.Debug("cache set", "scope", scope, "bytes", size)
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, dur time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "dur", dur)
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
