package main

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mdobak/go-xerrors"
	"golang.org/x/time/rate"

	"github.com/emerrafter1/nc-news/internal/apperror"
)

const (
	visitorTTL      = 10 * time.Minute
	cleanupInterval = 5000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP. Idle buckets are evicted
// every cleanupInterval lookups.
type rateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= cleanupInterval {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// rateLimit answers 429 once a client IP has used up its bucket. It is a
// no-op when the configured rate is zero.
func (app *application) rateLimit(next http.Handler) http.Handler {
	if app.config.RateLimitRPS <= 0 {
		return next
	}
	limiter := newRateLimiter(app.config.RateLimitRPS, app.config.RateLimitBurst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiter.allow(ip) {
			w.Header().Set("Retry-After", "1")
			app.errorResponse(w, r, xerrors.Newf("client %s: %w", ip, apperror.TooManyRequests))
			return
		}

		next.ServeHTTP(w, r)
	})
}
