package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/certquiz-backend/internal/response"
	"github.com/stemsi/certquiz-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *service.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*service.Claims, error) {
	return s.claims, s.err
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestRequireAdminJWT(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
		code      response.ErrCode
	}{
		{
			name:   "missing header",
			status: http.StatusUnauthorized,
			code:   response.ErrTokenRequired,
		},
		{
			name:   "not bearer",
			header: "Basic abc",
			status: http.StatusUnauthorized,
			code:   response.ErrTokenRequired,
		},
		{
			name:      "invalid token",
			header:    "Bearer abc",
			validator: stubValidator{err: service.ErrInvalidToken},
			status:    http.StatusUnauthorized,
			code:      response.ErrTokenInvalid,
		},
		{
			name:      "wrong role",
			header:    "Bearer abc",
			validator: stubValidator{claims: &service.Claims{Role: "guest"}},
			status:    http.StatusForbidden,
			code:      response.ErrAdminAccessOnly,
		},
		{
			name:      "admin",
			header:    "bearer abc",
			validator: stubValidator{claims: &service.Claims{Role: service.RoleAdmin}},
			status:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", RequireAdminJWT(tt.validator), func(c *gin.Context) {
				require.NotNil(t, GetClaims(c))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}
}

func TestGetClaimsWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"), "buckets are per IP")

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, do("10.0.0.1"), "bucket refills after the interval")
}

func TestRateLimiterCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	rl := NewRateLimiter(ctx, 1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.allow("10.0.0.1")

	now = now.Add(visitorTTL + time.Second)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.visitors)
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/cached", Revalidate(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/live", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func brotliRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, body) })
	return r
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("payment bank question ", 50)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := httptest.NewRecorder()

	brotliRouter(body).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	assert.Less(t, w.Body.Len(), len(body))

	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestBrotliLeavesSmallBodies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()

	brotliRouter("tiny").ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", w.Body.String())
}

func TestBrotliSkips(t *testing.T) {
	body := strings.Repeat("x", 500)
	tests := map[string]func(r *http.Request){
		"no accept-encoding": func(r *http.Request) {},
		"gzip only":          func(r *http.Request) { r.Header.Set("Accept-Encoding", "gzip") },
		"websocket upgrade": func(r *http.Request) {
			r.Header.Set("Accept-Encoding", "br")
			r.Header.Set("Upgrade", "websocket")
		},
		"event stream": func(r *http.Request) {
			r.Header.Set("Accept-Encoding", "br")
			r.Header.Set("Accept", "text/event-stream")
		},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)
			w := httptest.NewRecorder()

			brotliRouter(body).ServeHTTP(w, req)

			assert.Empty(t, w.Header().Get("Content-Encoding"))
			assert.Equal(t, body, w.Body.String())
		})
	}
}
