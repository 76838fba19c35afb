package apiclient

import (
	"net/http"
	"strings"
)

// Classification tells the caller what a failed response means for the session.
type Classification int

const (
	// Recoverable failures are returned to the caller untouched.
	Recoverable Classification = iota
	// FatalAuth means the session is no longer valid.
	FatalAuth
)

func (c Classification) String() string {
	if c == FatalAuth {
		return "fatal_auth"
	}
	return "recoverable"
}

// EndpointRule overrides classification for one endpoint.
type EndpointRule struct {
	// Path is relative to the API base path.
	Path string
	// Prefix also matches sub-paths (Path + "/...").
	Prefix bool
	// NotFoundIsFatal treats 404 as a dead session.
	NotFoundIsFatal bool
	// NeverFatal exempts the endpoint from fatal classification entirely.
	NeverFatal bool
}

func (r EndpointRule) matches(path string) bool {
	if path == r.Path {
		return true
	}
	return r.Prefix && strings.HasPrefix(path, strings.TrimRight(r.Path, "/")+"/")
}

// Policy classifies failed responses. 401 is fatal everywhere, other statuses
// are recoverable, and Rules adjust that per endpoint. The first matching
// rule wins.
type Policy struct {
	BasePath string
	Rules    []EndpointRule
}

// DefaultPolicy is the storefront table: a missing session record on the
// session lookup endpoint is fatal, and the cart is never fatal because a
// new account legitimately has no cart yet.
func DefaultPolicy(basePath, sessionLookupPath, cartPath string) Policy {
	return Policy{
		BasePath: basePath,
		Rules: []EndpointRule{
			{Path: cartPath, Prefix: true, NeverFatal: true},
			{Path: sessionLookupPath, NotFoundIsFatal: true},
		},
	}
}

// Classify maps a failed status on urlPath to a Classification.
func (p Policy) Classify(status int, urlPath string) Classification {
	endpoint := p.Endpoint(urlPath)

	var rule *EndpointRule
	for i := range p.Rules {
		if p.Rules[i].matches(endpoint) {
			rule = &p.Rules[i]
			break
		}
	}

	if rule != nil && rule.NeverFatal {
		return Recoverable
	}
	if status == http.StatusUnauthorized {
		return FatalAuth
	}
	if status == http.StatusNotFound && rule != nil && rule.NotFoundIsFatal {
		return FatalAuth
	}
	return Recoverable
}

// Endpoint strips the base path from urlPath.
func (p Policy) Endpoint(urlPath string) string {
	base := strings.TrimRight(p.BasePath, "/")
	if base != "" && (urlPath == base || strings.HasPrefix(urlPath, base+"/")) {
		urlPath = strings.TrimPrefix(urlPath, base)
	}
	if urlPath == "" {
		return "/"
	}
	if len(urlPath) > 1 {
		urlPath = strings.TrimRight(urlPath, "/")
	}
	return urlPath
}
