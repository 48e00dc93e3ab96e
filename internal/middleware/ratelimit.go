package middleware

import (
	"net/http"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/utils"
)

var errRateLimited = apperror.New(http.StatusTooManyRequests, "Rate limit exceeded")

// RateLimiter throttles requests per client IP
type RateLimiter struct {
	cfg     config.RateLimitConfig
	log     *logger.Logger
	mu      sync.Mutex
	trusted []netip.Prefix
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const clientIdle = 10 * time.Minute

// NewRateLimiter keys clients by peer address; X-Forwarded-For is only
// honoured when the peer is listed in cfg.TrustedProxies.
func NewRateLimiter(cfg config.RateLimitConfig, log *logger.Logger) *RateLimiter {
	trusted, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.WithFields(logger.Fields{"error": err.Error()}).Warn("Ignoring invalid RATE_LIMIT_TRUSTED_PROXIES")
		trusted = nil
	}
	return &RateLimiter{
		cfg:     cfg,
		log:     log,
		trusted: trusted,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) > clientIdle {
			delete(rl.clients, k)
		}
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Limit wraps next; it is a pass-through when rate limiting is disabled
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if !rl.cfg.Enabled {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, rl.trusted)
		if !rl.limiter(ip).Allow() {
			rl.log.WithFields(logger.Fields{
				"ip":     ip,
				"path":   r.URL.Path,
				"method": r.Method,
			}).Warn("Rate limit exceeded")
			utils.WriteError(w, r, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	}
}
