package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/swanbotanicals/skinmatch/internal/logging"
	"github.com/swanbotanicals/skinmatch/internal/metrics"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{"exact match", "http://localhost:5173", []string{"http://localhost:5173"}, true},
		{"wildcard subdomain", "https://shop.swanbotanicals.com", []string{"https://*"}, true},
		{"wildcard prefix", "https://shop.swanbotanicals.com", []string{"https://shop.*"}, true},
		{"second entry matches", "http://localhost:5173", []string{"https://*", "http://localhost:5173"}, true},
		{"no match", "http://evil.com", []string{"https://*"}, false},
		{"subdomain label", "https://shop.swanbotanicals.com", []string{"https://*.swanbotanicals.com"}, true},
		{"nested subdomain label", "https://eu.shop.swanbotanicals.com", []string{"https://*.swanbotanicals.com"}, true},
		{"subdomain label needs a subdomain", "https://swanbotanicals.com", []string{"https://*.swanbotanicals.com"}, false},
		{"subdomain label checks scheme", "http://shop.swanbotanicals.com", []string{"https://*.swanbotanicals.com"}, false},
		{"subdomain label rejects lookalike", "https://shop.evilswanbotanicals.com", []string{"https://*.swanbotanicals.com"}, false},
		{"scheme differs", "http://localhost:5173", []string{"https://localhost:5173"}, false},
		{"empty origin", "", []string{"*"}, false},
		{"empty allowed list", "http://localhost:5173", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllowedOrigin(tt.origin, tt.allowedOrigins); got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"http://localhost:5173"}

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"allowed origin GET", "http://localhost:5173", "GET", http.StatusOK, true},
		{"allowed origin preflight", "http://localhost:5173", "OPTIONS", http.StatusNoContent, true},
		{"disallowed origin", "http://evil.com", "GET", http.StatusOK, false},
		{"no origin header", "", "GET", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(allowed))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				assert.Equal(t, tt.origin, corsHeader)
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
				assert.NotEmpty(t, w.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, corsHeader)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", seen)
	})
}

func TestLoggerMiddleware_RecordsMetrics(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/teapot/:id", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/teapot/:id", "418")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/teapot/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/teapot/2", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestSetupRouter_PanicsAreLoggedAndCounted(t *testing.T) {
	router := setupTestRouter()
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects after burst", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitMiddleware(2))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		var codes []int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			codes = append(codes, w.Code)
			if w.Code == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
		}
		assert.Equal(t, []int{200, 200, 429}, codes)
	})

	t.Run("limits each IP separately", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitMiddleware(1))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, addr)
		}
	})

	t.Run("disabled when zero", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitMiddleware(0))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPLimiter(10)
	start := time.Now()

	l.allow("a", start)
	l.allow("b", start)
	assert.Len(t, l.limiters, 2)

	l.allow("c", start.Add(10*time.Minute))
	assert.Len(t, l.limiters, 1)
}
