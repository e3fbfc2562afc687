package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/auctionhouse/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(cfg httpx.ServerConfig) http.Handler {
	r := httpx.NewRouter(cfg, passthrough, passthrough, passthrough, passthrough)
	r.Get("/api/items/search", okHandler)
	return r
}

// TestNewRouter_SecurityHeaders checks the unrolled/secure headers on API responses.
func TestNewRouter_SecurityHeaders(t *testing.T) {
	h := newTestRouter(httpx.ServerConfig{ServiceName: "auctionhouse", CORSAllowedOrigins: "*"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/search", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, expected := range checks {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}
	if pp := rr.Header().Get("Permissions-Policy"); !strings.Contains(pp, "camera=()") {
		t.Errorf("unexpected Permissions-Policy %q", pp)
	}
}

func TestNewRouter_RateLimitReturnsJSON(t *testing.T) {
	h := newTestRouter(httpx.ServerConfig{RateLimitPerMinute: 2, CORSAllowedOrigins: "*"})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/items/search", http.NoBody)
		req.RemoteAddr = "203.0.113.7:5555"
		h.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last.Code)
	}
	if !strings.Contains(last.Body.String(), "too many requests") {
		t.Errorf("expected JSON error body, got %q", last.Body.String())
	}
}

func TestCORSMiddleware_Credentials(t *testing.T) {
	tests := []struct {
		name      string
		origins   string
		wantCreds string
	}{
		{"explicit origin sends cookies", "https://bid.example.com", "true"},
		{"wildcard does not", "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.CORSMiddleware(tt.origins)(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(http.MethodGet, "/api/items/search", http.NoBody)
			req.Header.Set("Origin", "https://bid.example.com")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials: got %q, want %q", got, tt.wantCreds)
			}
		})
	}
}

// TestRequestBodyLimit_WithinLimit verifies requests under the cap pass through.
func TestRequestBodyLimit_WithinLimit(t *testing.T) {
	const limit = 100

	var gotBody []byte
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, limit+1)
		n, _ := r.Body.Read(buf)
		gotBody = buf[:n]
		w.WriteHeader(http.StatusOK)
	})

	h := httpx.RequestBodyLimit(limit)(inner)
	body := strings.NewReader(strings.Repeat("a", 50))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(gotBody) != 50 {
		t.Fatalf("expected 50 bytes read, got %d", len(gotBody))
	}
}

// TestRequestBodyLimit_ExceedsLimit verifies that reading beyond the cap returns an error.
func TestRequestBodyLimit_ExceedsLimit(t *testing.T) {
	const limit int64 = 10

	var readErr error
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, limit+5)
		_, readErr = r.Body.Read(buf)
		if readErr != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	h := httpx.RequestBodyLimit(limit)(inner)
	body := strings.NewReader(strings.Repeat("x", int(limit)+1))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", body))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}
