// Package notify fans "session may have changed" signals out to subscribers.
//
// A Notifier merges two sources behind one subscription: the shared area's
// native change feed (changes made by other contexts) and Signal, raised in
// process by whoever mutated the session. Signals carry no payload;
// handlers re-read current state.
package notify

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Handler reacts to a change signal. It must be idempotent.
type Handler func()

// Watcher is the native cross-context change feed.
type Watcher interface {
	Watch(fn func(key string)) (stop func(), err error)
}

// Notifier is a synchronous signal dispatcher.
type Notifier struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	keys     map[string]struct{}
	stop     func()
	logger   *zap.Logger
}

// New creates a Notifier listening on watcher. When keys is non-empty only
// native changes to those keys are forwarded. watcher may be nil.
func New(watcher Watcher, keys []string, logger *zap.Logger) (*Notifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{
		handlers: make(map[int]Handler),
		logger:   logger,
	}
	if len(keys) > 0 {
		n.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			n.keys[k] = struct{}{}
		}
	}
	if watcher != nil {
		stop, err := watcher.Watch(n.onNative)
		if err != nil {
			return nil, err
		}
		n.stop = stop
	}
	return n, nil
}

// Subscribe registers handler and returns its unsubscribe function.
func (n *Notifier) Subscribe(handler Handler) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handler
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

// Signal delivers the same-context signal. Every handler has run by the time
// Signal returns.
func (n *Notifier) Signal() {
	n.dispatch()
}

// Close detaches from the native feed. Signal keeps working.
func (n *Notifier) Close() {
	n.mu.Lock()
	stop := n.stop
	n.stop = nil
	n.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (n *Notifier) onNative(key string) {
	if n.keys != nil {
		if _, ok := n.keys[key]; !ok {
			return
		}
	}
	n.logger.Debug("native session change", zap.String("key", key))
	n.dispatch()
}

// dispatch runs handlers in subscription order, outside the lock so a
// handler may subscribe or unsubscribe.
func (n *Notifier) dispatch() {
	n.mu.RLock()
	ids := make([]int, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, n.handlers[id])
	}
	n.mu.RUnlock()

	for _, handler := range handlers {
		handler()
	}
}
