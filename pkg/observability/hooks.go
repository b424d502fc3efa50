// Package observability provides hooks for metrics, tracing, and logging.
//
// The SDK emits events about HTTP calls, cache lookups and page fetches
// through hook interfaces instead of depending on an observability backend.
// Applications register implementations once at startup:
//
//	observability.SetHTTPHooks(&myHTTPHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries call the registered hooks:
//
//	observability.HTTP().OnRequest(ctx, "POST", host, "/api/meta/search/indexsearch")
//
// [LogHooks] is a ready-made implementation that writes debug-level entries to a
// charmbracelet logger; the CLI registers it when --verbose is set.
package observability

import (
	"context"
	"sync"
	"time"
)

// HTTPHooks receives events from API calls.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (network error, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// CacheHooks receives events from response-cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// PagingHooks receives events from auto-paging iterators.
type PagingHooks interface {
	// OnPage records a fetched page. kind identifies the listing ("search",
	// "lineage", "users", ...), offset is the position of the first item.
	OnPage(ctx context.Context, kind string, offset, count int, duration time.Duration, err error)
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPagingHooks is a no-op implementation of PagingHooks.
type NoopPagingHooks struct{}

func (NoopPagingHooks) OnPage(context.Context, string, int, int, time.Duration, error) {}

var (
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	pagingHooks PagingHooks = NoopPagingHooks{}
	hooksMu     sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetPagingHooks registers custom paging hooks. Nil is ignored.
func SetPagingHooks(h PagingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pagingHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Paging returns the registered paging hooks.
func Paging() PagingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pagingHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	cacheHooks = NoopCacheHooks{}
	pagingHooks = NoopPagingHooks{}
}
