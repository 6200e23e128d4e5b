package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("request over the limit should be blocked")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first request for key a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("key b should have its own window")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("key") {
		t.Fatal("second request should be blocked")
	}

	time.Sleep(20 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := New(3, time.Minute)

	if got := l.Remaining("key"); got != 3 {
		t.Errorf("Remaining before use: got %d, want 3", got)
	}
	l.Allow("key")
	if got := l.Remaining("key"); got != 2 {
		t.Errorf("Remaining after one: got %d, want 2", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("should be blocked before reset")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Error("should be allowed after reset")
	}
}

func TestClientIP_XForwardedFor(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP: got %q, want %q", got, "203.0.113.7")
	}
}

func TestClientIP_RemoteAddr(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "192.0.2.5:4321"
	if got := ClientIP(r); got != "192.0.2.5" {
		t.Errorf("ClientIP: got %q, want %q", got, "192.0.2.5")
	}
}

func TestRedeemLimiter_BlocksEmailGuessing(t *testing.T) {
	rl := NewRedeemLimiterWithConfig(100, time.Minute, 2, time.Minute)

	r := httptest.NewRequest("POST", "/invites/redeem", nil)
	for i := 0; i < 2; i++ {
		if allowed, _ := rl.Check(r, "user@test.com"); !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	allowed, reason := rl.Check(r, "user@test.com")
	if allowed {
		t.Error("third attempt for same email should be blocked")
	}
	if reason == "" {
		t.Error("blocked attempts should carry a reason")
	}

	// Email keys fold case.
	if allowed, _ := rl.Check(r, "USER@test.com"); allowed {
		t.Error("case variant of the email should share the window")
	}
}

func TestRedeemLimiter_ResetEmail(t *testing.T) {
	rl := NewRedeemLimiterWithConfig(100, time.Minute, 1, time.Minute)

	r := httptest.NewRequest("POST", "/invites/redeem", nil)
	rl.Check(r, "user@test.com")
	if allowed, _ := rl.Check(r, "user@test.com"); allowed {
		t.Fatal("second attempt should be blocked")
	}

	rl.ResetEmail("user@test.com")
	if allowed, _ := rl.Check(r, "user@test.com"); !allowed {
		t.Error("attempt after ResetEmail should be allowed")
	}
}
