package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type RateLimitOptions struct {
	RPS   float64
	Burst int

	// IdleTTL: limiters sin uso por más de esto se descartan.
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	opts     RateLimitOptions
	now      func() time.Time
}

// RateLimit aplica un token bucket por usuario autenticado o, si no hay
// claims, por IP. Con RPS <= 0 no limita.
// Debe ir después de AuthContext para ver las claims.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	if opts.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.Burst <= 0 {
		opts.Burst = int(opts.RPS) + 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}

	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		opts:     opts,
		now:      time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(rateKey(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		rl.sweep(now)
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.opts.RPS), rl.opts.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep requiere rl.mu tomado.
func (rl *rateLimiter) sweep(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.opts.IdleTTL {
			delete(rl.visitors, k)
		}
	}
}

func rateKey(r *http.Request) string {
	if c, ok := GetClaims(r.Context()); ok && c.UserID != "" {
		return "user:" + c.UserID
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}
