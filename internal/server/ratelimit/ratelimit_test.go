package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0) // 10 tokens, 1 token per second

	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if bucket.allow() {
		t.Error("Expected 11th request to be denied")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(2, 20.0) // one token every 50ms

	bucket.allow()
	bucket.allow()
	if bucket.allow() {
		t.Fatal("Expected empty bucket to deny")
	}

	time.Sleep(80 * time.Millisecond)

	if !bucket.allow() {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestTokenBucket_FullAt(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	_, remaining, full := bucket.take()
	if remaining != 4 {
		t.Errorf("Expected 4 remaining tokens, got %d", remaining)
	}
	if !full.After(time.Now()) {
		t.Error("Full time should be in the future")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/session", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/session", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	if ok, _ := limiter.Allow("a", "/session", "GET"); !ok {
		t.Fatal("first request from a should pass")
	}
	if ok, _ := limiter.Allow("a", "/session", "GET"); ok {
		t.Error("second request from a should be limited")
	}
	if ok, _ := limiter.Allow("b", "/session", "GET"); !ok {
		t.Error("b has its own bucket")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(NewConfig(Settings{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     []string{" 10.0.0.1 "},
		Blacklist:     []string{"10.0.0.2"},
	}))
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if ok, _ := limiter.Allow("10.0.0.1", "/session", "GET"); !ok {
			t.Errorf("whitelisted request %d should pass", i+1)
		}
	}
	if ok, _ := limiter.Allow("10.0.0.2", "/health", "GET"); ok {
		t.Error("blacklisted client should be rejected everywhere")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(NewConfig(Settings{Enabled: false, DefaultLimit: 1}))
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("127.0.0.1", "/session/messages", "POST"); !ok {
			t.Fatalf("request %d should pass with limiting disabled", i+1)
		}
	}
}

func TestLimiter_EndpointTiers(t *testing.T) {
	limiter := NewLimiter(NewConfig(Settings{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute}))
	defer limiter.Stop()

	// /session/messages allows a burst of 5.
	for i := 0; i < 5; i++ {
		if ok, _ := limiter.Allow("c", "/session/messages", "POST"); !ok {
			t.Errorf("burst request %d should pass", i+1)
		}
	}
	ok, info := limiter.Allow("c", "/session/messages", "POST")
	if ok {
		t.Error("request after the burst should be limited")
	}
	if info.Limit != 30 {
		t.Errorf("Expected tier limit 30, got %d", info.Limit)
	}

	// Other endpoints are unaffected.
	if ok, _ := limiter.Allow("c", "/session", "GET"); !ok {
		t.Error("snapshot should use the default tier")
	}
}

func TestLimiter_UnlimitedEndpoints(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for _, path := range []string{"/health", "/templates"} {
		for i := 0; i < 20; i++ {
			if ok, _ := limiter.Allow("c", path, "GET"); !ok {
				t.Fatalf("%s request %d should be unlimited", path, i+1)
			}
		}
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/session/messages", Method: "POST", Limit: 1},
		{Path: "/files/", Method: "GET", Limit: 2},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/session/messages", "POST", 1, false},
		{"/session/messages", "GET", 0, true},
		{"/files/abc", "GET", 2, false},
		{"/files", "GET", 0, true},
		{"/health", "GET", 0, false},
		{"/health", "POST", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected a match")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Expected limit %d, got %d", tt.wantLimit, got.Limit)
			}
		})
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		allowedCount int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("127.0.0.1", "/session", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/session", "GET")
	}

	if n := limiter.evictIdle(time.Now().Add(-time.Hour)); n != 0 {
		t.Errorf("Expected no recently used bucket to be evicted, got %d", n)
	}
	if n := limiter.evictIdle(time.Now().Add(time.Second)); n != 10 {
		t.Errorf("Expected all 10 buckets evicted, got %d", n)
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/session", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if info.Limit != DefaultLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultLimit, info.Limit)
	}
}
