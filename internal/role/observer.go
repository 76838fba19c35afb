// Package role keeps the current session role readable without touching the
// store on every access.
package role

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/notify"
)

// Reader derives the role from the persisted session.
type Reader interface {
	Role(ctx context.Context) domain.Role
}

// Signals is the change notifier the observer listens to.
type Signals interface {
	Subscribe(handler notify.Handler) func()
}

// Observer caches the current role. The value is loaded on first access and
// recomputed on every change signal. Readers always get a whole snapshot, so
// two reads with no mutation in between return the same role.
type Observer struct {
	reader Reader
	logger *zap.Logger

	refreshMu sync.Mutex
	loaded    atomic.Bool
	current   atomic.Value // domain.Role

	subsMu sync.Mutex
	subs   map[int]func(domain.Role)
	nextID int

	unsubscribe func()
}

// NewObserver wires an observer to the notifier.
func NewObserver(reader Reader, signals Signals, logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Observer{
		reader: reader,
		logger: logger,
		subs:   make(map[int]func(domain.Role)),
	}
	o.current.Store(domain.RoleNone)
	if signals != nil {
		o.unsubscribe = signals.Subscribe(o.Refresh)
	}
	return o
}

// Role returns the current role snapshot.
func (o *Observer) Role() domain.Role {
	if !o.loaded.Load() {
		o.Refresh()
	}
	return o.current.Load().(domain.Role)
}

// IsAuthenticated reports whether a non-null role is present.
func (o *Observer) IsAuthenticated() bool {
	return o.Role() != domain.RoleNone
}

// Refresh re-reads the store. Subscribers are told only when the role
// actually changed, and have all been called when Refresh returns. They run
// after refreshMu is released, so a subscriber may itself mutate the store.
func (o *Observer) Refresh() {
	o.refreshMu.Lock()
	next := o.reader.Role(context.Background())
	prev := o.current.Load().(domain.Role)
	o.current.Store(next)
	o.loaded.Store(true)
	o.refreshMu.Unlock()
	if prev == next {
		return
	}
	o.logger.Debug("role changed", zap.Stringer("from", prev), zap.Stringer("to", next))

	o.subsMu.Lock()
	fns := make([]func(domain.Role), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.subsMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers fn for role changes.
func (o *Observer) Subscribe(fn func(domain.Role)) func() {
	o.subsMu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.subsMu.Lock()
			delete(o.subs, id)
			o.subsMu.Unlock()
		})
	}
}

// Close detaches from the notifier.
func (o *Observer) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
}
