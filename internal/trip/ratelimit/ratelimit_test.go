package ratelimit_test

import (
	"testing"
	"time"

	"github.com/alex-user-go/tripplan/internal/trip/ratelimit"
)

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name       string
		rate       int
		window     time.Duration
		key        string
		calls      int
		wantPassed int
	}{
		{
			name:       "all requests within limit",
			rate:       5,
			window:     time.Minute,
			key:        "user1",
			calls:      5,
			wantPassed: 5,
		},
		{
			name:       "exceed rate limit",
			rate:       3,
			window:     time.Minute,
			key:        "user2",
			calls:      5,
			wantPassed: 3,
		},
		{
			name:       "single request",
			rate:       10,
			window:     time.Minute,
			key:        "user3",
			calls:      1,
			wantPassed: 1,
		},
		{
			name:       "zero rate blocks all",
			rate:       0,
			window:     time.Minute,
			key:        "user4",
			calls:      3,
			wantPassed: 0,
		},
		{
			name:       "empty key",
			rate:       2,
			window:     time.Minute,
			key:        "",
			calls:      3,
			wantPassed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ratelimit.New(tt.rate, tt.window)
			defer l.Close()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if l.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPassed {
				t.Errorf("passed = %d, want %d", passed, tt.wantPassed)
			}
		})
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Close()

	if !l.Allow("alpha") {
		t.Error("first request for alpha should pass")
	}
	if l.Allow("alpha") {
		t.Error("second request for alpha should be denied")
	}
	if !l.Allow("beta") {
		t.Error("beta has its own bucket and should pass")
	}
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	// 10 tokens per 100ms, so one token regenerates every 10ms.
	l := ratelimit.New(10, 100*time.Millisecond)
	defer l.Close()

	for i := 0; i < 10; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("k") {
		t.Fatal("bucket should be empty")
	}

	// After a full window the bucket must be usable again.
	time.Sleep(120 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("bucket should have refilled after the window")
	}
}

func TestLimiter_RefillIsGradual(t *testing.T) {
	l := ratelimit.New(2, 200*time.Millisecond)
	defer l.Close()

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("initial burst should pass")
	}
	if l.Allow("k") {
		t.Fatal("bucket should be empty")
	}

	// Half a window regains roughly one of the two tokens, not both.
	time.Sleep(120 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("one token should have regenerated")
	}
	if l.Allow("k") {
		t.Error("second token should not have regenerated yet")
	}
}
