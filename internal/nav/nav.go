// Package nav is the navigation capability used by the gate and the API
// interceptor. Navigation is fire-and-forget: callers never wait on it.
package nav

import (
	"context"
	"sync"
)

// Navigator moves the current context to path.
type Navigator interface {
	Navigate(path string)
}

// Func adapts a function to Navigator.
type Func func(path string)

// Navigate calls f.
func (f Func) Navigate(path string) { f(path) }

// Discard ignores navigation.
var Discard Navigator = Func(func(string) {})

// Pending records the most recent navigation so the page handler can turn it
// into a redirect once it is done.
type Pending struct {
	mu    sync.Mutex
	path  string
	count int
}

// Navigate records path, replacing any earlier target.
func (p *Pending) Navigate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	p.count++
}

// Target returns the last recorded path.
func (p *Pending) Target() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path, p.count > 0
}

// Count returns how many times Navigate was called.
func (p *Pending) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

type navigatorKey struct{}

// WithNavigator scopes n to ctx.
func WithNavigator(ctx context.Context, n Navigator) context.Context {
	return context.WithValue(ctx, navigatorKey{}, n)
}

// FromContext returns the navigator scoped to ctx, or fallback.
func FromContext(ctx context.Context, fallback Navigator) Navigator {
	if ctx != nil {
		if n, ok := ctx.Value(navigatorKey{}).(Navigator); ok && n != nil {
			return n
		}
	}
	if fallback == nil {
		return Discard
	}
	return fallback
}

// Location tracks where a context currently is.
type Location struct {
	mu   sync.RWMutex
	path string
}

// NewLocation starts at path.
func NewLocation(path string) *Location {
	return &Location{path: path}
}

// Navigate moves to path.
func (l *Location) Navigate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
}

// Current returns the current path.
func (l *Location) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}
