package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockroom/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowEntry tracks requests per IP within a fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// windowLimiter counts requests per client IP and rejects those beyond
// limit until the window resets.
type windowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// allow records one request from ip and reports whether it is within the
// limit, plus the end of the current window.
func (l *windowLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

// purge removes expired entries and returns how many were dropped.
func (l *windowLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	purged := 0
	for ip, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

var (
	limitersMu sync.Mutex
	limiters   []*windowLimiter
	purgeOnce  sync.Once
)

func register(l *windowLimiter) {
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		limitersMu.Lock()
		purged := 0
		for _, l := range limiters {
			purged += l.purge()
		}
		limitersMu.Unlock()

		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}

// ── Login rate limiter ────────────────────────────────────────────────────────

// LoginRateLimiter limits login attempts to 20 per minute per IP. Form
// posts are sent back to the login page; API callers get a 429.
func LoginRateLimiter() gin.HandlerFunc {
	return loginRateLimiter(newWindowLimiter(20, time.Minute))
}

func loginRateLimiter(l *windowLimiter) gin.HandlerFunc {
	register(l)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many login attempts. Try again in a minute."))
				return
			}
			c.Redirect(http.StatusSeeOther, "/login?error=locked")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ── General rate limiter ──────────────────────────────────────────────────────

// RateLimiter returns a general-purpose fixed-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newWindowLimiter(limit, window)
	register(l)
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}
