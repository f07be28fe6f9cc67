package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (l *Limiter) size() (members, ips int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byMember), len(l.byIP)
}

func TestAllow_Cooldown(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 10, PerIP: 100, Cooldown: 2 * time.Second, Clock: clock})
	defer limiter.Close()

	if res := limiter.Allow(7, "203.0.113.1"); !res.Allowed {
		t.Fatalf("first write blocked: %s", res.Reason)
	}

	clock.Advance(500 * time.Millisecond)
	res := limiter.Allow(7, "203.0.113.1")
	if res.Allowed || res.Reason != "member_cooldown" {
		t.Fatalf("write inside cooldown = %+v", res)
	}
	if res.RetryAfter != 1500*time.Millisecond || res.RetryAfterSeconds() != "2" {
		t.Fatalf("retry after = %v (%s)", res.RetryAfter, res.RetryAfterSeconds())
	}

	clock.Advance(2 * time.Second)
	if res := limiter.Allow(7, "203.0.113.1"); !res.Allowed {
		t.Fatalf("write after cooldown blocked: %s", res.Reason)
	}
}

func TestAllow_MemberWindow(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 3, PerIP: 100, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if res := limiter.Allow(7, "203.0.113.1"); !res.Allowed {
			t.Fatalf("write %d blocked: %s", i+1, res.Reason)
		}
		clock.Advance(time.Second)
	}

	res := limiter.Allow(7, "203.0.113.1")
	if res.Allowed || res.Reason != "member_window_limit" {
		t.Fatalf("fourth write = %+v", res)
	}
	if res.RetryAfter != 57*time.Second {
		t.Fatalf("retry after = %v", res.RetryAfter)
	}

	// Another member from the same IP is unaffected.
	if res := limiter.Allow(8, "203.0.113.1"); !res.Allowed {
		t.Fatalf("other member blocked: %s", res.Reason)
	}

	clock.Advance(57 * time.Second)
	if res := limiter.Allow(7, "203.0.113.1"); !res.Allowed {
		t.Fatalf("write in new window blocked: %s", res.Reason)
	}
}

func TestAllow_IPWindow(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 100, PerIP: 2, Clock: clock})
	defer limiter.Close()

	limiter.Allow(1, "198.51.100.9")
	limiter.Allow(2, "198.51.100.9")

	res := limiter.Allow(3, "198.51.100.9")
	if res.Allowed || res.Reason != "ip_window_limit" {
		t.Fatalf("third member on shared IP = %+v", res)
	}
	if res := limiter.Allow(3, "198.51.100.10"); !res.Allowed {
		t.Fatalf("different IP blocked: %s", res.Reason)
	}
}

func TestAllow_BlockedWriteIsNotRecorded(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 1, PerIP: 2, Clock: clock})
	defer limiter.Close()

	limiter.Allow(7, "203.0.113.1")
	for i := 0; i < 5; i++ {
		if res := limiter.Allow(7, "203.0.113.1"); res.Allowed {
			t.Fatal("member over limit allowed")
		}
	}
	// The IP only carries the one allowed write.
	if res := limiter.Allow(8, "203.0.113.1"); !res.Allowed {
		t.Fatalf("rejected writes counted against the IP: %s", res.Reason)
	}
}

func TestAllow_AnonymousCountsAgainstIP(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 1, PerIP: 2, Clock: clock})
	defer limiter.Close()

	limiter.Allow(0, "203.0.113.1")
	limiter.Allow(0, "203.0.113.1")
	if res := limiter.Allow(0, "203.0.113.1"); res.Allowed {
		t.Fatal("anonymous writes beyond the IP limit allowed")
	}
	if members, ips := limiter.size(); members != 0 || ips != 1 {
		t.Fatalf("tracked keys = %d members, %d ips", members, ips)
	}
}

func TestCleanupDropsStaleEntries(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 5, PerIP: 5, Clock: clock})
	defer limiter.Close()

	limiter.Allow(7, "203.0.113.1")
	clock.Advance(2 * time.Minute)
	limiter.cleanup()
	if members, ips := limiter.size(); members != 0 || ips != 0 {
		t.Fatalf("stale keys kept: %d members, %d ips", members, ips)
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"::ffff:10.0.0.1", true},
		{"::ffff:8.8.8.8", false},
		{"203.0.113.50", false},
		{"2001:4860:4860::8888", false},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isPrivateIP(tt.ip); got != tt.expected {
				t.Errorf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.PerMember != 10 || limiter.config.Window != time.Minute {
		t.Errorf("New(nil) should use default config, got %+v", limiter.config)
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(nil)
	limiter.Allow(1, "1.2.3.4")

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Close() should not hang")
	}
}

func TestConcurrentAccess(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, PerMember: 50, PerIP: 1000, Clock: clock})
	defer limiter.Close()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if limiter.Allow(7, "203.0.113.1").Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Fatalf("allowed %d writes, want exactly 50", allowed)
	}
}
