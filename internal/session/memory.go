package session

import (
	"context"
	"sync"
)

// MemoryBus is an in-process key-value area. Each call to Area returns a
// separate context view; views share data and see each other's changes
// through Watch.
type MemoryBus struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers map[*memoryArea]map[int]func(string)
	nextID   int
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		data:     make(map[string]string),
		watchers: make(map[*memoryArea]map[int]func(string)),
	}
}

// Area opens a new context view on the bus.
func (b *MemoryBus) Area() Area {
	return &memoryArea{bus: b}
}

type memoryArea struct {
	bus *MemoryBus
}

func (a *memoryArea) Get(_ context.Context, key string) (string, bool, error) {
	a.bus.mu.RLock()
	defer a.bus.mu.RUnlock()
	val, ok := a.bus.data[key]
	return val, ok, nil
}

func (a *memoryArea) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	a.bus.mu.RLock()
	defer a.bus.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if val, ok := a.bus.data[k]; ok {
			out[k] = val
		}
	}
	return out, nil
}

func (a *memoryArea) Put(_ context.Context, values map[string]string) error {
	a.bus.mu.Lock()
	keys := make([]string, 0, len(values))
	for k, v := range values {
		a.bus.data[k] = v
		keys = append(keys, k)
	}
	fns := a.bus.othersLocked(a)
	a.bus.mu.Unlock()

	deliver(fns, keys)
	return nil
}

func (a *memoryArea) Delete(_ context.Context, keys ...string) error {
	a.bus.mu.Lock()
	removed := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := a.bus.data[k]; ok {
			delete(a.bus.data, k)
			removed = append(removed, k)
		}
	}
	fns := a.bus.othersLocked(a)
	a.bus.mu.Unlock()

	deliver(fns, removed)
	return nil
}

func (a *memoryArea) Watch(fn func(key string)) (func(), error) {
	b := a.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.watchers[a] == nil {
		b.watchers[a] = make(map[int]func(string))
	}
	b.watchers[a][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.watchers[a], id)
			if len(b.watchers[a]) == 0 {
				delete(b.watchers, a)
			}
		})
	}, nil
}

// othersLocked snapshots the watchers of every view except origin.
func (b *MemoryBus) othersLocked(origin *memoryArea) []func(string) {
	var fns []func(string)
	for view, byID := range b.watchers {
		if view == origin {
			continue
		}
		for _, fn := range byID {
			fns = append(fns, fn)
		}
	}
	return fns
}

func deliver(fns []func(string), keys []string) {
	for _, key := range keys {
		for _, fn := range fns {
			fn(key)
		}
	}
}
