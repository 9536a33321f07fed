package content

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	material string
	err      error
	calls    int
}

func (f *fakeProvider) MaterialFor(ctx context.Context, category string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.material, nil
}

func TestCachedProviderCachesWithinTTL(t *testing.T) {
	inner := &fakeProvider{material: "budget highlights"}
	cached := NewCachedProvider(inner, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := cached.MaterialFor(context.Background(), "current affairs")
		if err != nil {
			t.Fatalf("MaterialFor returned error: %v", err)
		}
		if got != "budget highlights" {
			t.Errorf("MaterialFor = %q, want %q", got, "budget highlights")
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.calls)
	}
}

func TestCachedProviderRefetchesAfterTTL(t *testing.T) {
	inner := &fakeProvider{material: "old digest"}
	cached := NewCachedProvider(inner, time.Nanosecond)

	if _, err := cached.MaterialFor(context.Background(), "news"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	time.Sleep(time.Millisecond)
	inner.material = "fresh digest"

	got, err := cached.MaterialFor(context.Background(), "news")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if got != "fresh digest" {
		t.Errorf("MaterialFor after TTL = %q, want %q", got, "fresh digest")
	}
	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.calls)
	}
}

func TestCachedProviderKeysByCategory(t *testing.T) {
	inner := &fakeProvider{material: "shared"}
	cached := NewCachedProvider(inner, time.Minute)

	cached.MaterialFor(context.Background(), "economy")
	cached.MaterialFor(context.Background(), "polity")

	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2 (one per category)", inner.calls)
	}
}

func TestCachedProviderServesStaleOnError(t *testing.T) {
	inner := &fakeProvider{material: "last good digest"}
	cached := NewCachedProvider(inner, time.Nanosecond)

	if _, err := cached.MaterialFor(context.Background(), "news"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	time.Sleep(time.Millisecond)
	inner.err = errors.New("db down")

	got, err := cached.MaterialFor(context.Background(), "news")
	if err != nil {
		t.Fatalf("expected stale entry, got error: %v", err)
	}
	if got != "last good digest" {
		t.Errorf("MaterialFor = %q, want stale %q", got, "last good digest")
	}
}
