package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"workforce/internal/platform/metrics"
)

func TestRateLimitByClientIP(t *testing.T) {
	limit, err := RateLimit("1-M")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	collector := metrics.New()
	handler := Logger(collector)(limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	send := func(addr, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.10:4444", ""); code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("203.0.113.10:5555", ""); code != http.StatusTooManyRequests {
		t.Fatalf("expected same IP to be throttled, got %d", code)
	}
	if code := send("198.51.100.1:1111", ""); code != http.StatusNoContent {
		t.Fatalf("expected other IP to pass, got %d", code)
	}
	if code := send("203.0.113.10:6666", "192.0.2.99"); code != http.StatusTooManyRequests {
		t.Fatalf("rotating X-Forwarded-For must not reset the limit, got %d", code)
	}

	snap := collector.Snapshot()
	if snap.RequestsTotal != 4 || snap.RateLimitedTotal != 2 {
		t.Fatalf("unexpected metrics %+v", snap)
	}
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	limit, err := RateLimit("1-M")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	handler := chimw.RealIP(limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.10"); code != http.StatusNoContent {
		t.Fatalf("expected first client to pass, got %d", code)
	}
	if code := send("198.51.100.1"); code != http.StatusNoContent {
		t.Fatalf("expected second client behind the proxy to pass, got %d", code)
	}
	if code := send("203.0.113.10"); code != http.StatusTooManyRequests {
		t.Fatalf("expected first client to be throttled, got %d", code)
	}
}

func TestRateLimitRejectsBadFormat(t *testing.T) {
	if _, err := RateLimit("lots"); err == nil {
		t.Fatal("expected format error")
	}
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	req.ContentLength = 4096
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, header := range []string{"X-Content-Type-Options", "X-Frame-Options", "Strict-Transport-Security", "Cache-Control"} {
		if rec.Header().Get(header) == "" {
			t.Fatalf("expected %s header", header)
		}
	}
}
