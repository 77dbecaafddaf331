package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/freqflow/internal/metrics"
	"github.com/BaSui01/freqflow/types"
)

var middlewareNamespaceSeq uint64

func nextMiddlewareNamespace() string {
	seq := atomic.AddUint64(&middlewareNamespaceSeq, 1)
	return fmt.Sprintf("mwtest%d", seq)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := SecurityHeaders()(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeaders_ChainedWithOtherMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	handler := Chain(inner, SecurityHeaders(), RequestID())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	// SecurityHeaders should be present
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	// RequestID should also be present
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = types.RequestID(r.Context())
	})

	handler := RequestID()(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	assert.NotEmpty(t, seen)
	assert.Contains(t, seen, "req-")
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesClientID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = types.RequestID(r.Context())
	})

	handler := RequestID()(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "req-from-client")
	handler.ServeHTTP(w, r)

	assert.Equal(t, "req-from-client", seen)
	assert.Equal(t, "req-from-client", w.Header().Get("X-Request-ID"))
}

func TestRequestID_InjectsClientIP(t *testing.T) {
	var ip string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _ = types.ClientIP(r.Context())
	})

	handler := RequestID()(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	handler.ServeHTTP(w, r)

	assert.Equal(t, "192.0.2.7", ip)
}

func TestRecovery(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := Recovery(zap.NewNop())(inner)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zap.NewNop()
	skipPaths := []string{"/health"}

	tests := []struct {
		name           string
		validKeys      []string
		allowQuery     bool
		path           string
		headerKey      string
		queryKey       string
		expectedStatus int
	}{
		{
			name:           "no keys configured - auth disabled",
			validKeys:      nil,
			path:           "/api/v1/analyze",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid header key",
			validKeys:      []string{"secret-key"},
			path:           "/api/v1/analyze",
			headerKey:      "secret-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid key",
			validKeys:      []string{"secret-key"},
			path:           "/api/v1/analyze",
			headerKey:      "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing key",
			validKeys:      []string{"secret-key"},
			path:           "/api/v1/analyze",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "skip path bypasses auth",
			validKeys:      []string{"secret-key"},
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "query key allowed when enabled",
			validKeys:      []string{"secret-key"},
			allowQuery:     true,
			path:           "/api/v1/analyze",
			queryKey:       "secret-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "query key rejected when disabled",
			validKeys:      []string{"secret-key"},
			allowQuery:     false,
			path:           "/api/v1/analyze",
			queryKey:       "secret-key",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyAuth(tt.validKeys, skipPaths, tt.allowQuery, logger)(okHandler())

			target := tt.path
			if tt.queryKey != "" {
				target += "?api_key=" + tt.queryKey
			}
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.headerKey != "" {
				r.Header.Set("X-API-Key", tt.headerKey)
			}
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuth(t *testing.T) {
	logger := zap.NewNop()
	skipPaths := []string{"/health"}
	const secret = "test-secret"

	t.Run("empty secret disables auth", func(t *testing.T) {
		handler := JWTAuth("", skipPaths, logger)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		handler := JWTAuth(secret, skipPaths, logger)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
		r.Header.Set("Authorization", "Bearer "+signTestToken(t, secret))
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := JWTAuth(secret, skipPaths, logger)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("wrong secret", func(t *testing.T) {
		handler := JWTAuth(secret, skipPaths, logger)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
		r.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret"))
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip path bypasses auth", func(t *testing.T) {
		handler := JWTAuth(secret, skipPaths, logger)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := RateLimiter(ctx, 1, 1, zap.NewNop())(okHandler())

	first := httptest.NewRecorder()
	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	r1.RemoteAddr = "192.0.2.1:1234"
	handler.ServeHTTP(first, r1)
	assert.Equal(t, http.StatusOK, first.Code)

	// 同一 IP 立即再次请求，超出 burst
	second := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.RemoteAddr = "192.0.2.1:1235"
	handler.ServeHTTP(second, r2)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")

	// 不同 IP 不受影响
	third := httptest.NewRecorder()
	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.RemoteAddr = "192.0.2.2:1234"
	handler.ServeHTTP(third, r3)
	assert.Equal(t, http.StatusOK, third.Code)
}

func TestCORS(t *testing.T) {
	t.Run("allowed origin echoed", func(t *testing.T) {
		handler := CORS([]string{"https://example.com"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://example.com")
		handler.ServeHTTP(w, r)

		assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no header", func(t *testing.T) {
		handler := CORS([]string{"https://example.com"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://evil.example")
		handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty allowlist rejects preflight", func(t *testing.T) {
		handler := CORS(nil)(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/", nil)
		r.Header.Set("Origin", "https://example.com")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight for allowed origin", func(t *testing.T) {
		handler := CORS([]string{"https://example.com"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/", nil)
		r.Header.Set("Origin", "https://example.com")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/analyze", "/api/v1/analyze"},
		{"/api/v1/score", "/api/v1/score"},
		{"/api/v1/model/reload", "/api/v1/model/reload"},
		{"/health", "/health"},
		{"/api/v1/runs/123456", "/api/v1/runs/:id"},
		{"/api/v1/runs/a3bb189e-8bf9-3888-9912-ace4e6543002", "/api/v1/runs/:id"},
		{"/api/v1/runs/deadbeef01", "/api/v1/runs/:id"},
		{"/api/v1/runs/latest", "/api/v1/runs/latest"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePath(tt.path))
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	ns := nextMiddlewareNamespace()
	collector := metrics.NewCollector(ns, zap.NewNop())

	handler := MetricsMiddleware(collector)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer, ns+"_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
