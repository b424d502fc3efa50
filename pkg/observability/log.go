package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charmbracelet logger at debug level.
// It implements [HTTPHooks], [CacheHooks] and [PagingHooks].
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks that log to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Register installs h for all hook categories.
func (h *LogHooks) Register() {
	SetHTTPHooks(h)
	SetCacheHooks(h)
	SetPagingHooks(h)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, _, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "path", path, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.Logger.Debug("cache hit", "key", key)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.Logger.Debug("cache miss", "key", key)
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.Logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *LogHooks) OnPage(_ context.Context, kind string, offset, count int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("page failed", "kind", kind, "offset", offset, "err", err)
		return
	}
	h.Logger.Debug("page", "kind", kind, "offset", offset, "count", count, "took", d.Round(time.Millisecond))
}
