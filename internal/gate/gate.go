// Package gate decides whether a protected page may render for the current
// role, and where to send the visitor when it may not.
//
// The decision table:
//
//	role      allowed set           result
//	none      contains none         render
//	none      lacks none            redirect to login
//	r         contains r            render
//	r         lacks r               redirect to override, else admin area
//	                                for seller/admin, else home
package gate

import (
	"github.com/storefront-labs/storefront/internal/domain"
)

// State is the outcome of a gate evaluation.
type State int

const (
	Unauthenticated State = iota
	Authorized
	Forbidden
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authorized:
		return "authorized"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// AllowSet lists the roles permitted to render a subtree. Include
// domain.RoleNone to permit anonymous visitors.
type AllowSet map[domain.Role]struct{}

// Allow builds an AllowSet.
func Allow(roles ...domain.Role) AllowSet {
	set := make(AllowSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s AllowSet) Has(r domain.Role) bool {
	_, ok := s[r]
	return ok
}

// Paths are the redirect destinations.
type Paths struct {
	Login string
	Home  string
	Admin string
}

// DefaultPaths are used for empty fields.
var DefaultPaths = Paths{Login: "/login", Home: "/", Admin: "/admin"}

func (p Paths) withDefaults() Paths {
	if p.Login == "" {
		p.Login = DefaultPaths.Login
	}
	if p.Home == "" {
		p.Home = DefaultPaths.Home
	}
	if p.Admin == "" {
		p.Admin = DefaultPaths.Admin
	}
	return p
}

// Decision is the result of Evaluate. Redirect is empty when Render is true.
type Decision struct {
	State    State
	Render   bool
	Redirect string
}

// Evaluate applies the decision table. An anonymous visitor on a page that
// allows anonymous access is reported as Authorized.
func Evaluate(role domain.Role, allowed AllowSet, override string, paths Paths) Decision {
	paths = paths.withDefaults()

	if role == domain.RoleNone {
		if allowed.Has(domain.RoleNone) {
			return Decision{State: Authorized, Render: true}
		}
		return Decision{State: Unauthenticated, Redirect: paths.Login}
	}

	if allowed.Has(role) {
		return Decision{State: Authorized, Render: true}
	}

	target := override
	if target == "" {
		target = fallback(role, paths)
	}
	return Decision{State: Forbidden, Redirect: target}
}

func fallback(role domain.Role, paths Paths) string {
	switch role {
	case domain.RoleSeller, domain.RoleAdmin:
		return paths.Admin
	default:
		return paths.Home
	}
}
