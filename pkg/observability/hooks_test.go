package observability

import (
	"context"
	"testing"
	"time"
)

type countingHooks struct {
	fetches, starts, completes int
}

func (h *countingHooks) OnFetch(context.Context, string, bool, int, time.Duration, error) {
	h.fetches++
}
func (h *countingHooks) OnResolveStart(string, int, string) { h.starts++ }
func (h *countingHooks) OnResolveComplete(string, int, int, time.Duration, error) {
	h.completes++
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Registry().(NoopRegistryHooks); !ok {
		t.Errorf("Registry() = %T, want NoopRegistryHooks", Registry())
	}
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Errorf("Resolve() = %T, want NoopResolveHooks", Resolve())
	}
}

func TestSetHooks(t *testing.T) {
	defer Reset()
	h := &countingHooks{}
	SetRegistryHooks(h)
	SetResolveHooks(h)
	SetRegistryHooks(nil)

	Registry().OnFetch(context.Background(), "http://x", false, 1, time.Millisecond, nil)
	Resolve().OnResolveStart("run", 3, "strict")
	Resolve().OnResolveComplete("run", 2, 0, time.Millisecond, nil)

	if h.fetches != 1 || h.starts != 1 || h.completes != 1 {
		t.Errorf("hooks = %+v", h)
	}

	Reset()
	if Registry() == RegistryHooks(h) {
		t.Error("Reset() kept custom hooks")
	}
}
