// Package observability lets a host process observe registry downloads and
// resolution runs without pandoradep depending on a metrics backend.
//
// Hooks are registered once at startup and default to no-ops:
//
//	observability.SetRegistryHooks(&myRegistryHooks{})
//	observability.SetResolveHooks(&myResolveHooks{})
//
// Library code reports events through [Registry] and [Resolve].
package observability

import (
	"context"
	"sync"
	"time"
)

// RegistryHooks receives events from registry fetches.
type RegistryHooks interface {
	// OnFetch records one Fetch call. cached is true when the snapshot came
	// from the cache instead of the network.
	OnFetch(ctx context.Context, url string, cached bool, repos int, duration time.Duration, err error)
}

// ResolveHooks receives events from resolution runs.
type ResolveHooks interface {
	OnResolveStart(runID string, declarations int, mode string)
	OnResolveComplete(runID string, repos, conflicts int, duration time.Duration, err error)
}

// NoopRegistryHooks ignores every event.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnFetch(context.Context, string, bool, int, time.Duration, error) {}

// NoopResolveHooks ignores every event.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(string, int, string)                       {}
func (NoopResolveHooks) OnResolveComplete(string, int, int, time.Duration, error) {}

var (
	registryHooks RegistryHooks = NoopRegistryHooks{}
	resolveHooks  ResolveHooks  = NoopResolveHooks{}
	hooksMu       sync.RWMutex
)

// SetRegistryHooks registers registry hooks. A nil value is ignored.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// SetResolveHooks registers resolution hooks. A nil value is ignored.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Resolve returns the registered resolution hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Reset restores the no-op defaults. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	registryHooks = NoopRegistryHooks{}
	resolveHooks = NoopResolveHooks{}
}
