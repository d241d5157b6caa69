package web

import (
	"context"
	"testing"
	"time"

	"github.com/dentalops/import-service/internal/config"
	"github.com/dentalops/import-service/internal/importer"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	if !rl.allow("10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !rl.allow("10.0.0.1") {
		t.Error("second request should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request should be denied")
	}
	// Other IPs have their own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiter_StopEndsCleanup(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)

	rl.stop()
	rl.stop() // idempotent

	select {
	case <-rl.doneCh:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not exit after stop")
	}
}

func TestShutdown_StopsRateLimiters(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 10}

	gw := newFakeGateway()
	svc := importer.NewService(gw, importer.Options{})
	s := NewServer(cfg, svc, fakePinger{})

	if len(s.limiters) != 2 {
		t.Fatalf("limiters registered = %d, want 2", len(s.limiters))
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}

	for i, rl := range s.limiters {
		select {
		case <-rl.doneCh:
		case <-time.After(time.Second):
			t.Fatalf("limiter %d cleanup goroutine did not exit on shutdown", i)
		}
	}
}
