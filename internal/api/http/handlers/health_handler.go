package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ProbeTimeout bounds one readiness check across all dependencies.
const ProbeTimeout = 2 * time.Second

// Pinger is a dependency probed by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReport is the body of both probes.
type HealthReport struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	service string
	version string
	deps    map[string]Pinger
}

func NewHealthHandler(service, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, version: version, deps: deps}
}

// Live never touches dependencies.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(HealthReport{Status: "alive", Service: h.service, Version: h.version})
}

// Ready pings every dependency concurrently and answers 503 if any fails.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), ProbeTimeout)
	defer cancel()

	report := HealthReport{Status: "ready", Service: h.service, Version: h.version}
	if len(h.deps) == 0 {
		return c.JSON(report)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	report.Dependencies = make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		name, dep := name, dep
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := "ok"
			if err := dep.Ping(ctx); err != nil {
				result = err.Error()
			}
			mu.Lock()
			report.Dependencies[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, result := range report.Dependencies {
		if result != "ok" {
			report.Status = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(report)
		}
	}
	return c.JSON(report)
}
