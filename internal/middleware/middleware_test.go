package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testOrigins = []string{"https://ecom-dik.vercel.app", "http://localhost:5173"}

func newCORSRouter(hits *int32) *gin.Engine {
	r := gin.New()
	r.Use(CORS(testOrigins))
	handler := func(c *gin.Context) {
		atomic.AddInt32(hits, 1)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
	r.GET("/api/check-status/:orderId", handler)
	r.POST("/api/create-transaction", handler)
	r.OPTIONS("/api/create-transaction", handler)
	return r
}

func TestCORS_AllowedOrigin(t *testing.T) {
	t.Parallel()

	var hits int32
	r := newCORSRouter(&hits)

	req := httptest.NewRequest(http.MethodGet, "/api/check-status/ORD-1", nil)
	req.Header.Set("Origin", "https://ecom-dik.vercel.app")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ecom-dik.vercel.app" {
		t.Errorf("unexpected allow origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
	if hits != 1 {
		t.Errorf("expected handler to run once, ran %d times", hits)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		method string
		path   string
		header map[string]string
	}{
		{name: "simple GET", method: http.MethodGet, path: "/api/check-status/ORD-1"},
		{name: "POST", method: http.MethodPost, path: "/api/create-transaction"},
		{
			name:   "preflight",
			method: http.MethodOptions,
			path:   "/api/create-transaction",
			header: map[string]string{"Access-Control-Request-Method": http.MethodPost},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var hits int32
			r := newCORSRouter(&hits)

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			req.Header.Set("Origin", "https://evil.example.com")
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["message"] != MsgOriginNotAllowed {
				t.Errorf("unexpected body %q", rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
				t.Errorf("expected no allow origin header, got %q", got)
			}
			if hits != 0 {
				t.Errorf("expected handler not to run, ran %d times", hits)
			}
		})
	}
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	t.Parallel()

	var hits int32
	r := newCORSRouter(&hits)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/check-status/ORD-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hits != 1 {
		t.Errorf("expected handler to run once, ran %d times", hits)
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	var hits int32
	r := newCORSRouter(&hits)

	req := httptest.NewRequest(http.MethodOptions, "/api/create-transaction", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code >= http.StatusBadRequest {
		t.Fatalf("unexpected preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("expected POST to be allowed, got %q", got)
	}
	if hits != 0 {
		t.Errorf("expected preflight not to reach the handler, ran %d times", hits)
	}
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	t.Parallel()

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("expected a request id in the context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestID_ReusesCallerID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("expected req-42, got %q", got)
	}
}

func newIdempotencyRouter(client *redis.Client, hits *int32) *gin.Engine {
	r := gin.New()
	r.Use(Idempotency(client))
	r.POST("/api/create-transaction", func(c *gin.Context) {
		atomic.AddInt32(hits, 1)
		c.JSON(http.StatusOK, gin.H{"token": "abc123"})
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/create-transaction", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_NilClientPassesThrough(t *testing.T) {
	t.Parallel()

	var hits int32
	r := newIdempotencyRouter(nil, &hits)

	for i := 0; i < 2; i++ {
		if rec := postWithKey(r, "key-1"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
	if hits != 2 {
		t.Errorf("expected handler to run twice, ran %d times", hits)
	}
}

func TestIdempotency_RedisDown_FailsOpen(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })

	var hits int32
	r := newIdempotencyRouter(client, &hits)

	rec := postWithKey(r, "key-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "abc123") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get(IdempotentReplayHeader) != "" {
		t.Error("response must not be marked as replayed")
	}
	if hits != 1 {
		t.Errorf("expected handler to run once, ran %d times", hits)
	}
}

func TestIdempotency_NoKeySkipsRedis(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	var hits int32
	r := newIdempotencyRouter(client, &hits)

	if rec := postWithKey(r, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hits != 1 {
		t.Errorf("expected handler to run once, ran %d times", hits)
	}
}

func TestMetrics_RecordsUnmatchedRoutes(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(Metrics())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
