package http

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// LoginLimiter throttles credential attempts per client address.
type LoginLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perMin   int
}

// NewLoginLimiter allows perMinute attempts per address with an equal burst.
// A non-positive perMinute disables limiting.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMinute,
	}
}

func (l *LoginLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(float64(l.perMin)/60), l.perMin)
	l.limiters[key] = limiter
	return limiter
}

// Handle rejects the request with 429 once the caller's budget is spent.
func (l *LoginLimiter) Handle(c *fiber.Ctx) error {
	if l == nil || l.perMin <= 0 {
		return c.Next()
	}
	if !l.limiterFor(c.IP()).Allow() {
		return apperrors.NewTooManyRequests("too many login attempts")
	}
	return c.Next()
}
