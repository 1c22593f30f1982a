package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestAllowEnforcesBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 3, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request allowed past burst")
	}

	// A different IP has its own bucket.
	if !l.Allow("10.0.0.2") {
		t.Error("fresh IP denied")
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute, nil)
	h := l.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}

func TestClientIPTrustedProxies(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{
			"direct connection",
			nil, "203.0.113.7:4321", "", "", "203.0.113.7",
		},
		{
			"forwarded via trusted proxy",
			[]string{"10.0.0.0/8"}, "10.1.2.3:80", "198.51.100.9, 10.1.2.3", "", "198.51.100.9",
		},
		{
			"forwarded header from untrusted peer ignored",
			[]string{"10.0.0.0/8"}, "203.0.113.7:80", "198.51.100.9", "", "203.0.113.7",
		},
		{
			"x-real-ip from trusted proxy",
			[]string{"10.1.2.3"}, "10.1.2.3:80", "", "198.51.100.9", "198.51.100.9",
		},
		{
			"no trusted proxies configured trusts headers",
			nil, "10.1.2.3:80", "198.51.100.9", "", "198.51.100.9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute, tt.trusted)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := l.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvictionKeepsMapBounded(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute, nil)
	l.maxEntries = 10

	for i := 0; i < 50; i++ {
		l.Allow(string(rune('a' + i)))
	}

	l.mu.Lock()
	size := len(l.limiters)
	l.mu.Unlock()
	if size > 10 {
		t.Errorf("limiter map size = %d, want <= 10", size)
	}
}
