package session

import (
	"context"
	"sort"
	"sync"
	"testing"
)

type keyLog struct {
	mu   sync.Mutex
	keys []string
}

func (l *keyLog) add(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
}

func (l *keyLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]string(nil), l.keys...)
	sort.Strings(out)
	return out
}

func TestMemoryAreaSharesDataBetweenViews(t *testing.T) {
	bus := NewMemoryBus()
	a, b := bus.Area(), bus.Area()
	ctx := context.Background()

	if err := a.Put(ctx, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	val, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || val != "v" {
		t.Fatalf("get from other view = %q %v %v", val, ok, err)
	}

	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "k"); ok {
		t.Fatal("expected key removed for every view")
	}
}

func TestMemoryAreaWatchSkipsOwnWrites(t *testing.T) {
	bus := NewMemoryBus()
	writer, reader := bus.Area(), bus.Area()
	ctx := context.Background()

	var own, other keyLog
	stopOwn, _ := writer.Watch(own.add)
	defer stopOwn()
	stopOther, _ := reader.Watch(other.add)
	defer stopOther()

	if err := writer.Put(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if got := own.snapshot(); len(got) != 0 {
		t.Fatalf("writer observed its own change: %v", got)
	}
	if got := other.snapshot(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("reader observed %v, want [a b]", got)
	}
}

func TestMemoryAreaDeleteReportsOnlyExistingKeys(t *testing.T) {
	bus := NewMemoryBus()
	writer, reader := bus.Area(), bus.Area()
	ctx := context.Background()

	var seen keyLog
	stop, _ := reader.Watch(seen.add)
	defer stop()

	_ = writer.Put(ctx, map[string]string{"a": "1"})
	_ = writer.Delete(ctx, "a", "missing")

	got := seen.snapshot()
	if len(got) != 2 || got[0] != "a" || got[1] != "a" {
		t.Fatalf("observed %v, want put and delete of a only", got)
	}
}

func TestMemoryAreaStopIsIdempotent(t *testing.T) {
	bus := NewMemoryBus()
	writer, reader := bus.Area(), bus.Area()

	var seen keyLog
	stop, _ := reader.Watch(seen.add)
	stop()
	stop()

	_ = writer.Put(context.Background(), map[string]string{"a": "1"})
	if got := seen.snapshot(); len(got) != 0 {
		t.Fatalf("stopped watcher observed %v", got)
	}
}
