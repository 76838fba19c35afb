package gate

import (
	"sync"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/nav"
)

// RoleSource is the observed role.
type RoleSource interface {
	Role() domain.Role
	Subscribe(fn func(domain.Role)) func()
}

// DecisionRecorder counts gate outcomes.
type DecisionRecorder interface {
	RecordGateDecision(state string)
}

// Options configure a Guard.
type Options struct {
	Allowed  AllowSet
	Override string
	Paths    Paths
	Metrics  DecisionRecorder
	Logger   *zap.Logger
}

// Guard is a long-lived gate around one subtree. It re-evaluates on every
// role change, allowed-set change and route change, and issues a redirect
// each time the outcome is not Render. Repeated redirects to the same target
// are harmless.
type Guard struct {
	roles     RoleSource
	navigator nav.Navigator
	metrics   DecisionRecorder
	logger    *zap.Logger

	mu       sync.Mutex
	allowed  AllowSet
	override string
	paths    Paths
	route    string
	last     Decision

	unsubscribe func()
}

// NewGuard evaluates once and then follows role changes.
func NewGuard(roles RoleSource, navigator nav.Navigator, opts Options) *Guard {
	if navigator == nil {
		navigator = nav.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Guard{
		roles:     roles,
		navigator: navigator,
		metrics:   opts.Metrics,
		logger:    logger,
		allowed:   opts.Allowed,
		override:  opts.Override,
		paths:     opts.Paths,
	}
	g.evaluate(roles.Role())
	g.unsubscribe = roles.Subscribe(func(role domain.Role) { g.evaluate(role) })
	return g
}

// Sync records a route change and re-evaluates.
func (g *Guard) Sync(route string) Decision {
	g.mu.Lock()
	g.route = route
	g.mu.Unlock()
	return g.evaluate(g.roles.Role())
}

// SetAllowed swaps the allowed set and re-evaluates.
func (g *Guard) SetAllowed(allowed AllowSet, override string) Decision {
	g.mu.Lock()
	g.allowed = allowed
	g.override = override
	g.mu.Unlock()
	return g.evaluate(g.roles.Role())
}

// Decision returns the latest outcome.
func (g *Guard) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Close stops following role changes.
func (g *Guard) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}

func (g *Guard) evaluate(role domain.Role) Decision {
	g.mu.Lock()
	d := Evaluate(role, g.allowed, g.override, g.paths)
	g.last = d
	route := g.route
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.RecordGateDecision(d.State.String())
	}
	if !d.Render {
		g.logger.Debug("gate redirect",
			zap.Stringer("role", role),
			zap.Stringer("state", d.State),
			zap.String("route", route),
			zap.String("target", d.Redirect))
		g.navigator.Navigate(d.Redirect)
	}
	return d
}
