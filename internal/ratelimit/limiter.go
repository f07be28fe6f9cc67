// Package ratelimit throttles reservation writes per member and per client IP.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	Window    time.Duration // Length of the counting window (default: 1m)
	PerMember int           // Max writes per member per window (default: 10)
	PerIP     int           // Max writes per client IP per window (default: 60)
	Cooldown  time.Duration // Minimum gap between writes by one member (zero disables)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Window:    time.Minute,
		PerMember: 10,
		PerIP:     60,
		Cooldown:  time.Second,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// RetryAfterSeconds rounds RetryAfter up for the Retry-After header.
func (r LimitResult) RetryAfterSeconds() string {
	secs := int64((r.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

type entry struct {
	count   int
	firstAt time.Time // First request in window
	lastAt  time.Time // Most recent request (for cooldown)
}

// Limiter counts writes in fixed windows keyed by member id and client IP.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex
	// Keyed by hash of member id or IP
	byMember map[string]*entry
	byIP     map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byMember:      make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow checks a write by memberID from ip and records it when allowed.
// A zero memberID counts against the IP only.
func (l *Limiter) Allow(memberID int64, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	ipKey := l.hashKey("ip:", ip)
	memberKey := ""
	if memberID > 0 {
		memberKey = l.hashKey("member:", strconv.FormatInt(memberID, 10))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if memberKey != "" {
		if res := l.check(l.byMember[memberKey], l.config.PerMember, now, true); !res.Allowed {
			res.Reason = "member_" + res.Reason
			return res
		}
	}
	if res := l.check(l.byIP[ipKey], l.config.PerIP, now, false); !res.Allowed {
		res.Reason = "ip_" + res.Reason
		return res
	}

	if memberKey != "" {
		l.byMember[memberKey] = l.bump(l.byMember[memberKey], now)
	}
	l.byIP[ipKey] = l.bump(l.byIP[ipKey], now)
	return LimitResult{Allowed: true}
}

func (l *Limiter) check(e *entry, max int, now time.Time, cooldown bool) LimitResult {
	if e == nil {
		return LimitResult{Allowed: true}
	}
	if cooldown && l.config.Cooldown > 0 {
		if elapsed := now.Sub(e.lastAt); elapsed < l.config.Cooldown {
			return LimitResult{RetryAfter: l.config.Cooldown - elapsed, Reason: "cooldown"}
		}
	}
	if max > 0 && now.Sub(e.firstAt) < l.config.Window && e.count >= max {
		return LimitResult{RetryAfter: l.config.Window - now.Sub(e.firstAt), Reason: "window_limit"}
	}
	return LimitResult{Allowed: true}
}

func (l *Limiter) bump(e *entry, now time.Time) *entry {
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		return &entry{count: 1, firstAt: now, lastAt: now}
	}
	e.count++
	e.lastAt = now
	return e
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byMember {
		if now.Sub(e.lastAt) > l.config.Window {
			delete(l.byMember, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.lastAt) > l.config.Window {
			delete(l.byIP, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				// Skip private/internal IPs to find the real client
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10", // Link-local
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP handles both IPv4 and IPv4-mapped IPv6 addresses.
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a throttled write.
func LogRateLimitExceeded(ctx context.Context, memberID int64, ip string, res LimitResult) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Int64("member_id", memberID).
		Str("ip", ip).
		Str("reason", res.Reason).
		Dur("retry_after", res.RetryAfter).
		Msg("Reservation write rate limit exceeded")
}
