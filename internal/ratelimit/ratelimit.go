// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
	BanDuration   time.Duration // How long to ban after exceeding limit
}

// DefaultAuthConfig returns sensible defaults for the SSO endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// GenerationConfig returns limits for the AI generation endpoints, which are
// far more expensive per request than ordinary CRUD routes.
func GenerationConfig() *Config {
	return &Config{
		WindowSize:    1 * time.Minute,
		MaxAttempts:   20,
		CleanupPeriod: 10 * time.Minute,
		BanDuration:   5 * time.Minute,
	}
}

// attemptRecord tracks attempts for one client identifier.
type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	BannedAt  *time.Time
}

// Info describes the outcome of one rate-limit check.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

// MemoryRateLimiter implements in-memory, per-identifier rate limiting.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow checks whether a request from identifier should proceed.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *Info) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.attempts[identifier]

	if !exists {
		rl.attempts[identifier] = &attemptRecord{Count: 1, FirstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	if record.BannedAt != nil && now.Sub(*record.BannedAt) < rl.config.BanDuration {
		remainingBan := rl.config.BanDuration - now.Sub(*record.BannedAt)
		return false, &Info{
			ResetTime:  record.BannedAt.Add(rl.config.BanDuration),
			RetryAfter: remainingBan,
			Banned:     true,
		}
	}

	if now.Sub(record.FirstSeen) > rl.config.WindowSize {
		record.Count = 1
		record.FirstSeen = now
		record.BannedAt = nil
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	record.Count++
	if record.Count > rl.config.MaxAttempts {
		banTime := now
		record.BannedAt = &banTime
		return false, &Info{
			ResetTime:  now.Add(rl.config.BanDuration),
			RetryAfter: rl.config.BanDuration,
			Banned:     true,
		}
	}

	return true, &Info{
		Allowed:   true,
		Remaining: rl.config.MaxAttempts - record.Count,
		ResetTime: record.FirstSeen.Add(rl.config.WindowSize),
	}
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, record := range rl.attempts {
		windowExpired := now.Sub(record.FirstSeen) > rl.config.WindowSize
		banExpired := record.BannedAt != nil && now.Sub(*record.BannedAt) > rl.config.BanDuration
		if (windowExpired && record.BannedAt == nil) || banExpired {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *MemoryRateLimiter) Close() {
	close(rl.stopCh)
}

// GetClientIP extracts the real client IP from a request, honoring proxy
// headers.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ips := strings.Split(forwarded, ","); len(ips) > 0 {
			if ip := strings.TrimSpace(ips[0]); ip != "" {
				return ip
			}
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
