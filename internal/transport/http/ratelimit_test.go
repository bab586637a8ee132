package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := newRateLimiter(2)

	if !limiter.allow() || !limiter.allow() {
		t.Fatalf("expected first two requests to be allowed")
	}
	if limiter.allow() {
		t.Errorf("expected third request within the window to be rejected")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0)

	for i := 0; i < 100; i++ {
		if !limiter.allow() {
			t.Fatalf("expected limit 0 to disable limiting")
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/submit", RateLimitMiddleware(2), func(c *gin.Context) {
		c.Status(stdhttp.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(stdhttp.MethodPost, "/submit", nil))
		if resp.Code != stdhttp.StatusOK {
			t.Fatalf("expected status 200 on request %d, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(stdhttp.MethodPost, "/submit", nil))
	if resp.Code != stdhttp.StatusTooManyRequests {
		t.Errorf("expected status 429 once over the limit, got %d", resp.Code)
	}
}
