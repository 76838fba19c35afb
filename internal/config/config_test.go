package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_BASE_PATH", "SESSION_BACKEND", "ROUTE_LOGIN", "DEVAPI_SEED", "DEVAPI_LOGIN_RATE_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Endpoint() != "http://127.0.0.1:8081/api" {
		t.Fatalf("endpoint = %q", cfg.API.Endpoint())
	}
	if cfg.API.SessionLookupPath != "/auth/me" || cfg.API.CartPath != "/cart" {
		t.Fatalf("api paths = %+v", cfg.API)
	}
	if cfg.Session.Backend != "memory" || cfg.Session.KeyPrefix != "storefront:" {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.Routes.Login != "/login" || cfg.Routes.Home != "/" || cfg.Routes.Admin != "/admin" {
		t.Fatalf("routes = %+v", cfg.Routes)
	}
	if !cfg.API.Seed {
		t.Fatal("fixtures should be seeded by default")
	}
	if cfg.API.LoginRatePerMinute != 30 {
		t.Fatalf("login rate = %d", cfg.API.LoginRatePerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com/")
	t.Setenv("API_BASE_PATH", "v2/")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("ROUTE_LOGIN", "signin")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Endpoint() != "https://shop.example.com/v2" {
		t.Fatalf("endpoint = %q", cfg.API.Endpoint())
	}
	if cfg.Session.Backend != "redis" {
		t.Fatalf("backend = %q", cfg.Session.Backend)
	}
	if cfg.Routes.Login != "/signin" {
		t.Fatalf("login = %q", cfg.Routes.Login)
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("timeout = %v", cfg.App.RequestTimeout())
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "cookie")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizePath(t *testing.T) {
	for in, want := range map[string]string{
		"":       "/",
		" / ":    "/",
		"api":    "/api",
		"/api/":  "/api",
		"/a/b//": "/a/b",
	} {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
