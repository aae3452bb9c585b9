// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		stop:     make(chan struct{}),
	}

	// Clean up old visitors every minute
	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mtx.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, i18n.T(utils.GetLangFromContext(c), i18n.KeyRateLimitExceeded))
			c.Abort()
			return
		}

		c.Next()
	}
}

// Limiters groups the general and credential-endpoint limiters.
type Limiters struct {
	General *RateLimiter
	Auth    *RateLimiter
}

func NewLimiters(cfg config.RateLimitConfig) *Limiters {
	perMinute := cfg.AuthPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	return &Limiters{
		General: NewRateLimiter(rate.Limit(cfg.GeneralPerSecond), cfg.GeneralBurst),
		Auth:    NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (l *Limiters) Stop() {
	l.General.Stop()
	l.Auth.Stop()
}
