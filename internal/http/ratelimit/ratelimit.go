package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP token buckets with bounded memory.
type IPRateLimiter struct {
	mu             sync.Mutex
	limiters       map[string]*limiterEntry
	rate           rate.Limit
	burst          int
	cleanup        time.Duration
	maxEntries     int
	trustedProxies []*net.IPNet
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewIPRateLimiter creates a per-IP rate limiter. trustedProxies lists CIDR
// ranges (or single IPs) of reverse proxies whose forwarding headers are
// honored; when empty all proxies are trusted.
func NewIPRateLimiter(r rate.Limit, burst int, cleanup time.Duration, trustedProxies []string) *IPRateLimiter {
	l := &IPRateLimiter{
		limiters:   make(map[string]*limiterEntry),
		rate:       r,
		burst:      burst,
		cleanup:    cleanup,
		maxEntries: 10000,
	}

	for _, cidr := range trustedProxies {
		_, ipnet, err := net.ParseCIDR(cidr)
		if err != nil {
			ip := net.ParseIP(cidr)
			if ip == nil {
				continue
			}
			if ip.To4() != nil {
				_, ipnet, _ = net.ParseCIDR(cidr + "/32")
			} else {
				_, ipnet, _ = net.ParseCIDR(cidr + "/128")
			}
		}
		if ipnet != nil {
			l.trustedProxies = append(l.trustedProxies, ipnet)
		}
	}

	go l.cleanupStale()

	return l
}

// Middleware rejects requests exceeding the per-IP rate with 429.
func (l *IPRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(l.ClientIP(r)) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Allow reports whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= l.maxEntries {
			l.evictOldestLocked()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// ClientIP resolves the originating client IP, honoring X-Forwarded-For and
// X-Real-IP only when the direct peer is a trusted proxy.
func (l *IPRateLimiter) ClientIP(r *http.Request) string {
	remoteIP := parseIP(r.RemoteAddr)

	if len(l.trustedProxies) > 0 {
		trusted := false
		for _, ipnet := range l.trustedProxies {
			if remoteIP != nil && ipnet.Contains(remoteIP) {
				trusted = true
				break
			}
		}
		if !trusted {
			return ipString(remoteIP, r.RemoteAddr)
		}
	}

	// X-Forwarded-For is "client, proxy1, proxy2"; the leftmost entry is the
	// original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if parsed := net.ParseIP(first); parsed != nil {
			return parsed.String()
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if parsed := net.ParseIP(xri); parsed != nil {
			return parsed.String()
		}
	}

	return ipString(remoteIP, r.RemoteAddr)
}

func (l *IPRateLimiter) evictOldestLocked() {
	var oldestIP string
	var oldestTime time.Time

	for ip, entry := range l.limiters {
		if oldestIP == "" || entry.lastAccess.Before(oldestTime) {
			oldestIP = ip
			oldestTime = entry.lastAccess
		}
	}
	if oldestIP != "" {
		delete(l.limiters, oldestIP)
	}
}

func (l *IPRateLimiter) cleanupStale() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.cleanup * 2)
		for ip, entry := range l.limiters {
			if entry.lastAccess.Before(cutoff) {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

func parseIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

func ipString(ip net.IP, fallback string) string {
	if ip != nil {
		return ip.String()
	}
	return fallback
}
