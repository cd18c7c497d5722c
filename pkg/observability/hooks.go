// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about dataset loads, layout and render
// passes, and cache operations.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLoaderHooks(&myLoaderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Loader().OnFetchStart(ctx, source)
//	// ... fetch and decode ...
//	observability.Loader().OnFetchComplete(ctx, source, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Loader Hooks
// =============================================================================

// LoaderHooks receives events from dataset loading.
type LoaderHooks interface {
	// OnFetchStart records the start of a dataset fetch.
	OnFetchStart(ctx context.Context, source string)

	// OnFetchComplete records a finished fetch, successful or not.
	OnFetchComplete(ctx context.Context, source string, size int, duration time.Duration, err error)

	// OnDecodeComplete records a finished decode with the node and link
	// counts that survived validation.
	OnDecodeComplete(ctx context.Context, nodes, links int, err error)
}

// =============================================================================
// View Hooks
// =============================================================================

// ViewHooks receives events from layout and render passes.
type ViewHooks interface {
	// OnLayout records a layout pass over the graph.
	OnLayout(ctx context.Context, strategy string, nodeCount int, duration time.Duration)

	// OnRender records a render pass producing one artifact.
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLoaderHooks is a no-op implementation of LoaderHooks.
type NoopLoaderHooks struct{}

func (NoopLoaderHooks) OnFetchStart(context.Context, string)                               {}
func (NoopLoaderHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLoaderHooks) OnDecodeComplete(context.Context, int, int, error)                  {}

// NoopViewHooks is a no-op implementation of ViewHooks.
type NoopViewHooks struct{}

func (NoopViewHooks) OnLayout(context.Context, string, int, time.Duration)        {}
func (NoopViewHooks) OnRender(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	loaderHooks LoaderHooks = NoopLoaderHooks{}
	viewHooks   ViewHooks   = NoopViewHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLoaderHooks registers custom loader hooks.
// This should be called once at application startup before any loads.
func SetLoaderHooks(h LoaderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loaderHooks = h
	}
}

// SetViewHooks registers custom view hooks.
// This should be called once at application startup before any rendering.
func SetViewHooks(h ViewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		viewHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Loader returns the registered loader hooks.
func Loader() LoaderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loaderHooks
}

// View returns the registered view hooks.
func View() ViewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return viewHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	loaderHooks = NoopLoaderHooks{}
	viewHooks = NoopViewHooks{}
	cacheHooks = NoopCacheHooks{}
}
