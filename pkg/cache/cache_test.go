package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("roles", "list"); got != "http:roles:list" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}
	if got := k.TypeDefKey("classification"); got != "typedef:classification" {
		t.Errorf("TypeDefKey unexpected: %s", got)
	}
	if got := k.TypeDefKey(""); got != "typedef:all" {
		t.Errorf("TypeDefKey empty category unexpected: %s", got)
	}

	lk1 := k.LookupKey("groups", LookupKeyOpts{Limit: 100})
	lk2 := k.LookupKey("groups", LookupKeyOpts{Limit: 20})
	if lk1 == lk2 {
		t.Error("Different LookupKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "lookup:groups:") {
		t.Errorf("LookupKey should be prefixed by kind: %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")

	if got := scoped.HTTPKey("roles", "list"); got != "tenant:acme:http:roles:list" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}
	if got := scoped.TypeDefKey("enum"); got != "tenant:acme:typedef:enum" {
		t.Errorf("ScopedKeyer TypeDefKey unexpected: %s", got)
	}
	if got := scoped.LookupKey("roles", LookupKeyOpts{}); !strings.HasPrefix(got, "tenant:acme:lookup:roles:") {
		t.Errorf("ScopedKeyer LookupKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test", "key"); key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	base := context.DeadlineExceeded
	err := Retryable(base)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != base.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(base) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := context.Canceled

	calls := 0
	if err := Retry(ctx, 3, time.Millisecond, func() error { calls++; return nil }); err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	calls = 0
	err := Retry(ctx, 3, time.Millisecond, func() error { calls++; return permanent })
	if err != permanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Retryable(permanent)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("Should retry twice: %d", calls)
	}

	calls = 0
	err = Retry(ctx, 2, time.Millisecond, func() error { calls++; return Retryable(permanent) })
	if !IsRetryable(err) {
		t.Errorf("Should return last retryable error: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should stop after attempts: %d", calls)
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), 0, time.Millisecond, func() error { calls++; return nil })
	if calls != 1 {
		t.Errorf("zero attempts should still call once, got %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(context.DeadlineExceeded)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
