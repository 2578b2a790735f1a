// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowUpToLimitThenBan(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4")
		if !allowed {
			t.Fatalf("attempt %d blocked prematurely", i+1)
		}
		if info.Remaining != 3-(i+1) {
			t.Errorf("attempt %d: remaining = %d, want %d", i+1, info.Remaining, 3-(i+1))
		}
	}

	allowed, info := limiter.Allow("1.2.3.4")
	if allowed {
		t.Fatal("fourth attempt must be blocked")
	}
	if !info.Banned || info.RetryAfter <= 0 {
		t.Errorf("block info = %+v", info)
	}
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxAttempts:   1,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	})
	defer limiter.Close()

	limiter.Allow("a")
	limiter.Allow("a")

	if allowed, _ := limiter.Allow("b"); !allowed {
		t.Fatal("one client's ban must not affect another")
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5123"
	if ip := GetClientIP(req); ip != "10.0.0.1" {
		t.Errorf("remote addr ip = %q", ip)
	}

	req.Header.Set("X-Real-IP", "10.0.0.2")
	if ip := GetClientIP(req); ip != "10.0.0.2" {
		t.Errorf("real-ip = %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if ip := GetClientIP(req); ip != "203.0.113.7" {
		t.Errorf("forwarded-for ip = %q", ip)
	}
}
